// SPDX-License-Identifier: Zlib
// Copyright (c) 2026 Mark Adler
// Source: github.com/madler/zipclean

package zipclean

// endOfDirectory holds the resolved central directory location. It is
// derived once per archive and never mutated afterward.
type endOfDirectory struct {
	// count is the logical entry count, already widened past the 16-bit
	// on-disk field when the archive carries zip64 records.
	count uint64
	// offset is the absolute position of the first central entry.
	offset int64
}

// findEndRecord scans the archive backwards in fixed-size blocks for the end
// of central directory signature and leaves the cursor immediately after its
// four bytes. A valid archive without a trailing comment matches on the first
// block; a comment of up to 65535 bytes pushes the record further back. The
// scan maintains a rolling four-byte window so a signature split across a
// block boundary is still matched.
func findEndRecord(c *cursor) error {
	end, err := c.seekEnd()
	if err != nil {
		return err
	}

	// blockStart is a multiple of the block size below end. The last 18
	// bytes of the file cannot start a complete end record, so the first
	// pass begins endRecordLen-3 bytes back from the end.
	blockStart := (end - 1) &^ int64(scanBlockSize-1)
	back := int64(endRecordLen - 3)

	var sig uint32
	buf := make([]byte, scanBlockSize)
	for blockStart >= 0 {
		if err := c.seekTo(blockStart); err != nil {
			return err
		}

		got := end - blockStart
		if err := c.read(buf[:got]); err != nil {
			return err
		}

		for i := got - back; i >= 0; i-- {
			sig = sig<<8 + uint32(buf[i])
			if sig == sigEnd {
				return c.seekTo(blockStart + i + 4)
			}
		}

		end = blockStart
		blockStart -= scanBlockSize
		if got < back {
			back -= got
		} else {
			back = 1
		}
	}

	return ErrEndRecordNotFound
}

// resolveDirectory locates the end of central directory record, resolves the
// true entry count and directory offset through the zip64 locator and end
// records when the 16/32-bit fields are saturated, and leaves the cursor at
// the first central entry.
func resolveDirectory(c *cursor) (endOfDirectory, error) {
	if err := findEndRecord(c); err != nil {
		return endOfDirectory{}, err
	}

	// Entry count and directory offset sit at fixed positions after the
	// signature.
	if err := c.skip(6); err != nil {
		return endOfDirectory{}, err
	}

	num, err := c.uint16()
	if err != nil {
		return endOfDirectory{}, err
	}

	if err := c.skip(4); err != nil {
		return endOfDirectory{}, err
	}

	off32, err := c.uint32()
	if err != nil {
		return endOfDirectory{}, err
	}

	count := uint64(num)
	offset := int64(off32)
	if num == max16 || off32 == max32 {
		// The real values live in the zip64 end record. Back up over the
		// end record and the locator that must precede it.
		if err := c.skip(2 - endRecordLen - zip64LocatorLen); err != nil {
			return endOfDirectory{}, err
		}

		sig, err := c.uint32()
		if err != nil {
			return endOfDirectory{}, err
		}
		if sig != sigZip64Locator {
			return endOfDirectory{}, ErrMissingZip64Locator
		}

		if err := c.skip(4); err != nil {
			return endOfDirectory{}, err
		}

		endOff, err := c.uint64()
		if err != nil {
			return endOfDirectory{}, err
		}

		if err := c.seekTo(int64(endOff)); err != nil { //nolint:gosec // offsets fit int64 file sizes
			return endOfDirectory{}, err
		}

		sig, err = c.uint32()
		if err != nil {
			return endOfDirectory{}, err
		}
		if sig != sigZip64End {
			return endOfDirectory{}, ErrMissingZip64End
		}

		if err := c.skip(28); err != nil {
			return endOfDirectory{}, err
		}

		if count, err = c.uint64(); err != nil {
			return endOfDirectory{}, err
		}

		if err := c.skip(8); err != nil {
			return endOfDirectory{}, err
		}

		off64, err := c.uint64()
		if err != nil {
			return endOfDirectory{}, err
		}

		offset = int64(off64) //nolint:gosec // offsets fit int64 file sizes
	}

	if err := c.seekTo(offset); err != nil {
		return endOfDirectory{}, err
	}

	return endOfDirectory{count: count, offset: offset}, nil
}
