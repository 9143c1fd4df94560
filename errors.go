// SPDX-License-Identifier: Zlib
// Copyright (c) 2026 Mark Adler
// Source: github.com/madler/zipclean

package zipclean

import "errors"

// Sentinel errors for archive processing. Use errors.Is in callers.
// Every structural violation wraps one of the format sentinels; read, write,
// seek, and open failures wrap the underlying os/io error instead.
var (
	// ErrEndRecordNotFound means no end of central directory record exists.
	ErrEndRecordNotFound = errors.New("end of central directory record not found")
	// ErrMissingZip64Locator means the end record demands zip64 values but no
	// locator record precedes it.
	ErrMissingZip64Locator = errors.New("missing zip64 locator record")
	// ErrMissingZip64End means the zip64 locator points at something that is
	// not a zip64 end record.
	ErrMissingZip64End = errors.New("missing zip64 end record")
	// ErrMissingCentralHeader means a central entry signature was expected
	// and not found.
	ErrMissingCentralHeader = errors.New("missing central header")
	// ErrMissingLocalHeader means the resolved local header offset does not
	// point at a local entry signature.
	ErrMissingLocalHeader = errors.New("missing local header")
	// ErrNameMismatch means the central and local copies of an entry name
	// disagree in length or content.
	ErrNameMismatch = errors.New("local/central name mismatch")
	// ErrMissingZip64Field means a saturated offset field has no zip64
	// extended information record to resolve it.
	ErrMissingZip64Field = errors.New("missing zip64 info field")
	// ErrInvalidZip64Field means the zip64 extended information record is
	// malformed or too short for the requested value.
	ErrInvalidZip64Field = errors.New("invalid zip64 info field")
	// ErrInvalidFixRules means one or more entry selection rules are invalid.
	ErrInvalidFixRules = errors.New("invalid fix rules")
)
