// SPDX-License-Identifier: Zlib
// Copyright (c) 2026 Mark Adler
// Source: github.com/madler/zipclean

package zipclean

import (
	"time"

	"github.com/woozymasta/pathrules"
)

// Zip structure signatures (stored little-endian).
const (
	// sigLocal marks a local entry header.
	sigLocal uint32 = 0x04034b50
	// sigCentral marks a central directory entry header.
	sigCentral uint32 = 0x02014b50
	// sigZip64Locator marks the zip64 end of central directory locator.
	sigZip64Locator uint32 = 0x07064b50
	// sigZip64End marks the zip64 end of central directory record.
	sigZip64End uint32 = 0x06064b50
	// sigEnd marks the end of central directory record.
	sigEnd uint32 = 0x06054b50
)

// Internal binary layout and format limits.
const (
	endRecordLen    = 22  // end of central directory record length in bytes
	zip64LocatorLen = 20  // zip64 end record locator length in bytes
	localFixedLen   = 30  // local header bytes before the entry name
	centralFixedLen = 46  // central entry bytes before the entry name
	scanBlockSize   = 512 // backward scan block size for the end record search
	max16           = 0xffff
	max32           = 0xffffffff
)

// Name rewrite bytes. A leading path-root marker and each character of a
// parent back-reference component are replaced with the filler byte,
// keeping the name length unchanged.
const (
	pathSeparator = '/'
	referenceChar = '.'
	fillerByte    = '_'
)

// NameFix describes one corrected entry name. OldName and NewName always
// have identical byte length.
type NameFix struct {
	// Path is the archive file the fix belongs to.
	Path string `json:"path" yaml:"path"`
	// OldName is the unsafe entry name as stored in the archive.
	OldName string `json:"old_name" yaml:"old_name"`
	// NewName is the traversal-safe replacement.
	NewName string `json:"new_name" yaml:"new_name"`
}

// Options configures Clean behavior.
type Options struct {
	// OnFix is called for every corrected name, in report and apply mode alike.
	OnFix func(fix NameFix) `json:"-" yaml:"-"`
	// Rules select which entry names are eligible for correction.
	// Empty means every entry.
	Rules []pathrules.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	// MatcherOptions control rule matching behavior.
	MatcherOptions pathrules.MatcherOptions `json:"matcher_options,omitzero" yaml:"matcher_options,omitzero"`
	// Apply writes corrections back into the archive. Default is report only.
	Apply bool `json:"apply,omitempty" yaml:"apply,omitempty"`
	// BackupKeep copies the archive to `<path>.bak` before the first in-place
	// write and keeps up to BackupKeep backup generations. Zero disables the
	// backup and preserves the plain non-transactional in-place behavior.
	BackupKeep int `json:"backup_keep,omitempty" yaml:"backup_keep,omitempty"`
}

// Result contains the outcome of processing one archive.
type Result struct {
	// Err records the per-archive failure when processing through CleanAll.
	Err error `json:"-" yaml:"-"`
	// Path is the processed archive file.
	Path string `json:"path" yaml:"path"`
	// Fixes lists every corrected (or correctable, in report mode) name.
	Fixes []NameFix `json:"fixes,omitempty" yaml:"fixes,omitempty"`
	// Entries is the number of central directory entries processed.
	Entries int `json:"entries" yaml:"entries"`
	// Fixed is the number of corrected names.
	Fixed int `json:"fixed" yaml:"fixed"`
	// Modified reports whether any archive byte was rewritten. It is set
	// even when processing failed after a partial write.
	Modified bool `json:"modified,omitempty" yaml:"modified,omitempty"`
	// Duration is end-to-end processing time for this archive.
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// applyDefaults fills zero-valued options with defaults.
func (opts *Options) applyDefaults() {
	if opts.MatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.MatcherOptions.DefaultAction = pathrules.ActionExclude
	}

	if opts.BackupKeep < 0 {
		opts.BackupKeep = 0
	}
}
