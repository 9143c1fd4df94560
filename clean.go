// SPDX-License-Identifier: Zlib
// Copyright (c) 2026 Mark Adler
// Source: github.com/madler/zipclean

package zipclean

import (
	"fmt"
	"os"
	"time"
)

// session carries the state of processing one archive: the open file behind
// the cursor, the apply decision, and whether any byte was rewritten. Its
// lifetime is exactly one archive.
type session struct {
	c          *cursor
	matcher    *fixMatcher
	onFix      func(fix NameFix)
	path       string
	fixes      []NameFix
	apply      bool
	backupKeep int
	// modified flips on the first in-place write and stays set, so a later
	// failure can report that the archive was already partially corrected.
	modified bool
}

// reportFix records one correction and forwards it to the caller's callback.
func (s *session) reportFix(fix NameFix) {
	s.fixes = append(s.fixes, fix)
	if s.onFix != nil {
		s.onFix(fix)
	}
}

// Clean processes one archive: it locates the central directory, computes a
// length-preserving safe rewrite for every unsafe entry name, and in apply
// mode writes each correction into both the central and the local copy of
// the name.
//
// The returned Result is always non-nil. On error, Result.Modified still
// reports whether the archive had been partially rewritten before the
// failure; the in-place update is not transactional and nothing is rolled
// back unless Options.BackupKeep arranged a backup copy beforehand.
func Clean(path string, opts Options) (*Result, error) {
	opts.applyDefaults()
	start := time.Now()
	res := &Result{Path: path}

	matcher, err := newFixMatcher(opts.Rules, opts.MatcherOptions)
	if err != nil {
		return res, err
	}

	flag := os.O_RDONLY
	if opts.Apply {
		flag = os.O_RDWR
	}

	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return res, fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	s := &session{
		c:          &cursor{f: f},
		matcher:    matcher,
		onFix:      opts.OnFix,
		path:       path,
		apply:      opts.Apply,
		backupKeep: opts.BackupKeep,
	}

	err = s.run(res)
	res.Fixes = s.fixes
	res.Fixed = len(s.fixes)
	res.Modified = s.modified
	res.Duration = time.Since(start)

	return res, err
}

// run drives the locator and the per-entry walk for one open session.
func (s *session) run(res *Result) error {
	dir, err := resolveDirectory(s.c)
	if err != nil {
		return err
	}

	for n := dir.count; n > 0; n-- {
		if err := s.processEntry(); err != nil {
			return err
		}

		res.Entries++
	}

	return nil
}

// CleanAll processes archives in the order given. A failure in one archive
// is recorded in that archive's Result.Err and does not stop the remaining
// archives.
func CleanAll(paths []string, opts Options) []Result {
	out := make([]Result, 0, len(paths))
	for _, path := range paths {
		res, err := Clean(path, opts)
		res.Err = err
		out = append(out, *res)
	}

	return out
}
