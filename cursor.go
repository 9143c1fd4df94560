// SPDX-License-Identifier: Zlib
// Copyright (c) 2026 Mark Adler
// Source: github.com/madler/zipclean

package zipclean

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// cursor is a position-tracking read/write view over one open archive file.
// Every other component touches the archive exclusively through it, so the
// seek sequence stays explicit and auditable.
type cursor struct {
	f *os.File
}

// read fills buf completely from the current position.
func (c *cursor) read(buf []byte) error {
	if _, err := io.ReadFull(c.f, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}

		return fmt.Errorf("read: %w", err)
	}

	return nil
}

// load returns n freshly read bytes from the current position.
func (c *cursor) load(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}

	buf := make([]byte, n)
	if err := c.read(buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// uint16 decodes a little-endian unsigned 16-bit integer.
func (c *cursor) uint16() (uint16, error) {
	var buf [2]byte
	if err := c.read(buf[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(buf[:]), nil
}

// uint32 decodes a little-endian unsigned 32-bit integer.
func (c *cursor) uint32() (uint32, error) {
	var buf [4]byte
	if err := c.read(buf[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(buf[:]), nil
}

// uint64 decodes a little-endian unsigned 64-bit integer.
func (c *cursor) uint64() (uint64, error) {
	var buf [8]byte
	if err := c.read(buf[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(buf[:]), nil
}

// tell returns the current absolute position.
func (c *cursor) tell() (int64, error) {
	at, err := c.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("tell: %w", err)
	}

	return at, nil
}

// seekTo moves to an absolute position.
func (c *cursor) seekTo(off int64) error {
	if _, err := c.f.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("seek: %w", err)
	}

	return nil
}

// skip moves relative to the current position. Negative n moves backward.
func (c *cursor) skip(n int64) error {
	if _, err := c.f.Seek(n, io.SeekCurrent); err != nil {
		return fmt.Errorf("seek: %w", err)
	}

	return nil
}

// seekEnd moves to the end of the file and returns its size.
func (c *cursor) seekEnd() (int64, error) {
	size, err := c.f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("seek end: %w", err)
	}

	return size, nil
}

// write stores buf at the current position.
func (c *cursor) write(buf []byte) error {
	if _, err := c.f.Write(buf); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}
