// SPDX-License-Identifier: Zlib
// Copyright (c) 2026 Mark Adler
// Source: github.com/madler/zipclean

/*
Package zipclean repairs a specific class of malformed entry names inside
zip archives: names carrying a leading slash or ".." parent components,
which let a naive extractor write files outside its destination directory.
Corrections never change a name's byte length: a leading "/" becomes "_"
and each ".." component becomes "__", so the archive layout stays intact
and every other byte is left exactly as it was.

Both redundant copies of each name are corrected: the central directory
entry and the matching local header, which is located through the entry's
32-bit offset field or, when that field is saturated, through the zip64
extended information record. The end of central directory record is found
by a backward block scan, so archives with trailing comments and zip64
archives are handled alike.

# Reporting

By default nothing is written; corrections that would apply are reported:

	res, err := zipclean.Clean("archive.zip", zipclean.Options{
	    OnFix: func(fix zipclean.NameFix) {
	        fmt.Printf("%s: %s -> %s\n", fix.Path, fix.OldName, fix.NewName)
	    },
	})
	if err != nil {
	    return err
	}
	_ = res.Fixed

# Applying

Apply mode rewrites the name bytes in place. The two-phase update (central
copy first, then local copy) is not transactional: a failure between the
phases leaves the archive partially corrected, flagged by Result.Modified.
BackupKeep > 0 copies the archive aside before the first write:

	res, err := zipclean.Clean("archive.zip", zipclean.Options{
	    Apply:      true,
	    BackupKeep: 1,
	})

# Selecting entries

Rules restrict which entries are eligible, using
github.com/woozymasta/pathrules patterns:

	res, err := zipclean.Clean("archive.zip", zipclean.Options{
	    Apply: true,
	    Rules: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "docs/**"},
	    },
	})

# Many archives

CleanAll processes a list with per-archive failure isolation; one broken
archive never stops the rest:

	for _, res := range zipclean.CleanAll(paths, opts) {
	    if res.Err != nil {
	        log.Printf("%s skipped: %v (modified=%v)", res.Path, res.Err, res.Modified)
	    }
	}
*/
package zipclean
