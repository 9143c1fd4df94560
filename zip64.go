// SPDX-License-Identifier: Zlib
// Copyright (c) 2026 Mark Adler
// Source: github.com/madler/zipclean

package zipclean

import (
	"encoding/binary"
	"fmt"
)

// zip64ExtraTag identifies the zip64 extended information record inside an
// entry extra field.
const zip64ExtraTag = 1

// zip64LocalOffset extracts the 64-bit local header offset from a central
// entry extra field. The extra field is a sequence of (tag, length, payload)
// records; only the zip64 extended information record is consulted. skip is
// 0, 8, or 16 and counts the 8-byte compressed/uncompressed size sub-fields
// stored before the offset, one for each size field of the central entry
// that held the 32-bit overflow sentinel.
func zip64LocalOffset(extra []byte, skip int) (int64, error) {
	i := 0
	for i+3 < len(extra) {
		tag := binary.LittleEndian.Uint16(extra[i:])
		length := int(binary.LittleEndian.Uint16(extra[i+2:]))
		if tag == zip64ExtraTag {
			if i+4+length > len(extra) || skip+8 > length {
				return 0, fmt.Errorf("%w: record length %d", ErrInvalidZip64Field, length)
			}

			return int64(binary.LittleEndian.Uint64(extra[i+4+skip:])), nil //nolint:gosec // offsets fit int64 file sizes
		}

		i += 4 + length
	}

	return 0, ErrMissingZip64Field
}
