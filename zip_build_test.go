// SPDX-License-Identifier: Zlib
// Copyright (c) 2026 Mark Adler
// Source: github.com/madler/zipclean

package zipclean

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"
)

// testEntry describes one archive entry for the raw builder.
type testEntry struct {
	name string
	data []byte
	// zip64Offset stores the local offset in a zip64 extended information
	// record and saturates the central 32-bit offset field.
	zip64Offset bool
}

// buildRawZip assembles a stored-method archive byte by byte so tests control
// every header field, including ones archive/zip would never produce.
func buildRawZip(entries []testEntry, comment []byte) []byte {
	var buf bytes.Buffer
	offsets := make([]int64, len(entries))

	for i, entry := range entries {
		offsets[i] = int64(buf.Len())
		writeLocalHeader(&buf, entry.name, entry.data)
		buf.Write(entry.data)
	}

	cdStart := buf.Len()
	for i, entry := range entries {
		writeCentralEntry(&buf, entry, offsets[i])
	}
	cdSize := buf.Len() - cdStart

	writeEndRecord(&buf, uint16(len(entries)), uint32(cdSize), uint32(cdStart), comment)
	return buf.Bytes()
}

// writeLocalHeader writes one local entry header for stored data.
func writeLocalHeader(buf *bytes.Buffer, name string, data []byte) {
	le := binary.LittleEndian
	var fixed [30]byte
	le.PutUint32(fixed[0:], sigLocal)
	le.PutUint16(fixed[4:], 20) // version needed
	le.PutUint32(fixed[14:], crc32.ChecksumIEEE(data))
	le.PutUint32(fixed[18:], uint32(len(data)))
	le.PutUint32(fixed[22:], uint32(len(data)))
	le.PutUint16(fixed[26:], uint16(len(name)))
	buf.Write(fixed[:])
	buf.WriteString(name)
}

// writeCentralEntry writes one central directory entry, optionally routing
// the local offset through a zip64 extended information extra field.
func writeCentralEntry(buf *bytes.Buffer, entry testEntry, localOffset int64) {
	le := binary.LittleEndian

	var extra []byte
	offsetField := uint32(localOffset)
	if entry.zip64Offset {
		offsetField = max32
		extra = make([]byte, 12)
		le.PutUint16(extra[0:], zip64ExtraTag)
		le.PutUint16(extra[2:], 8)
		le.PutUint64(extra[4:], uint64(localOffset))
	}

	var fixed [46]byte
	le.PutUint32(fixed[0:], sigCentral)
	le.PutUint16(fixed[4:], 20) // version made by
	le.PutUint16(fixed[6:], 20) // version needed
	le.PutUint32(fixed[16:], crc32.ChecksumIEEE(entry.data))
	le.PutUint32(fixed[20:], uint32(len(entry.data)))
	le.PutUint32(fixed[24:], uint32(len(entry.data)))
	le.PutUint16(fixed[28:], uint16(len(entry.name)))
	le.PutUint16(fixed[30:], uint16(len(extra)))
	le.PutUint32(fixed[42:], offsetField)
	buf.Write(fixed[:])
	buf.WriteString(entry.name)
	buf.Write(extra)
}

// writeEndRecord writes the end of central directory record with a comment.
func writeEndRecord(buf *bytes.Buffer, count uint16, cdSize uint32, cdOffset uint32, comment []byte) {
	le := binary.LittleEndian
	var fixed [22]byte
	le.PutUint32(fixed[0:], sigEnd)
	le.PutUint16(fixed[8:], count)
	le.PutUint16(fixed[10:], count)
	le.PutUint32(fixed[12:], cdSize)
	le.PutUint32(fixed[16:], cdOffset)
	le.PutUint16(fixed[20:], uint16(len(comment)))
	buf.Write(fixed[:])
	buf.Write(comment)
}

// buildZip64Tail replaces the plain end record values with zip64 sentinels
// and appends the zip64 end record and locator before the end record.
func buildZip64Tail(entries []testEntry) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	offsets := make([]int64, len(entries))

	for i, entry := range entries {
		offsets[i] = int64(buf.Len())
		writeLocalHeader(&buf, entry.name, entry.data)
		buf.Write(entry.data)
	}

	cdStart := buf.Len()
	for i, entry := range entries {
		writeCentralEntry(&buf, entry, offsets[i])
	}
	cdSize := buf.Len() - cdStart

	zip64EndStart := buf.Len()
	var end64 [56]byte
	le.PutUint32(end64[0:], sigZip64End)
	le.PutUint64(end64[4:], 44) // remaining record size
	le.PutUint64(end64[24:], uint64(len(entries)))
	le.PutUint64(end64[32:], uint64(len(entries)))
	le.PutUint64(end64[40:], uint64(cdSize))
	le.PutUint64(end64[48:], uint64(cdStart))
	buf.Write(end64[:])

	var locator [20]byte
	le.PutUint32(locator[0:], sigZip64Locator)
	le.PutUint64(locator[8:], uint64(zip64EndStart))
	le.PutUint32(locator[16:], 1)
	buf.Write(locator[:])

	writeEndRecord(&buf, max16, uint32(cdSize), max32, nil)
	return buf.Bytes()
}

// writeLE32 stores a little-endian 32-bit value.
func writeLE32(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

// writeLE64 stores a little-endian 64-bit value.
func writeLE64(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}

// writeTestArchive stores raw archive bytes in a temp file and returns its path.
func writeTestArchive(t *testing.T, raw []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.zip")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	return path
}

// openTestCursor opens a temp archive for direct cursor-level tests.
func openTestCursor(t *testing.T, raw []byte) *cursor {
	t.Helper()

	f, err := os.Open(writeTestArchive(t, raw))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	return &cursor{f: f}
}
