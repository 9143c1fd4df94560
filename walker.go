// SPDX-License-Identifier: Zlib
// Copyright (c) 2026 Mark Adler
// Source: github.com/madler/zipclean

package zipclean

import (
	"bytes"
	"fmt"
)

// centralEntry is the transient view of one central directory entry, valid
// only for the iteration that read it.
type centralEntry struct {
	// name is the raw entry name as stored in the central directory.
	name []byte
	// nameOffset is the absolute position of the central name field.
	nameOffset int64
	// next is the absolute position of the following central entry, past
	// this entry's extra field and comment.
	next int64
	// localOffset is the candidate 32-bit local header offset.
	localOffset int64
	// extraLen is the extra field length in bytes.
	extraLen int
	// skip counts the 8-byte size sub-fields stored before the local
	// offset in the zip64 extended information record.
	skip int
	// localSaturated reports that localOffset held the overflow sentinel
	// and the true offset must come from the extra field.
	localSaturated bool
}

// readCentralEntry parses the central directory entry at the cursor position
// and leaves the cursor just past the entry name.
func (s *session) readCentralEntry() (*centralEntry, error) {
	sig, err := s.c.uint32()
	if err != nil {
		return nil, err
	}
	if sig != sigCentral {
		return nil, ErrMissingCentralHeader
	}

	// Saturated size fields each displace the local offset by eight bytes
	// inside the zip64 extended information record.
	if err := s.c.skip(16); err != nil {
		return nil, err
	}

	compressedSize, err := s.c.uint32()
	if err != nil {
		return nil, err
	}

	uncompressedSize, err := s.c.uint32()
	if err != nil {
		return nil, err
	}

	skip := 0
	if compressedSize == max32 {
		skip += 8
	}
	if uncompressedSize == max32 {
		skip += 8
	}

	nameLen, err := s.c.uint16()
	if err != nil {
		return nil, err
	}

	extraLen, err := s.c.uint16()
	if err != nil {
		return nil, err
	}

	commentLen, err := s.c.uint16()
	if err != nil {
		return nil, err
	}

	if err := s.c.skip(8); err != nil {
		return nil, err
	}

	localOffset, err := s.c.uint32()
	if err != nil {
		return nil, err
	}

	nameOffset, err := s.c.tell()
	if err != nil {
		return nil, err
	}

	name, err := s.c.load(int(nameLen))
	if err != nil {
		return nil, err
	}

	return &centralEntry{
		name:           name,
		nameOffset:     nameOffset,
		next:           nameOffset + int64(nameLen) + int64(extraLen) + int64(commentLen),
		localOffset:    int64(localOffset),
		extraLen:       int(extraLen),
		skip:           skip,
		localSaturated: localOffset == max32,
	}, nil
}

// processEntry handles one central directory entry: sanitize the name, and
// if a correction comes out, rewrite the central copy and locate, verify,
// and rewrite the matching local copy. The cursor ends up at the next
// central entry no matter which branch ran.
func (s *session) processEntry() error {
	entry, err := s.readCentralEntry()
	if err != nil {
		return err
	}

	fixed, changed := SanitizeName(entry.name)
	if changed && !s.matcher.Match(string(entry.name)) {
		changed = false
	}

	if !changed {
		return s.c.seekTo(entry.next)
	}

	s.reportFix(NameFix{
		Path:    s.path,
		OldName: string(entry.name),
		NewName: string(fixed),
	})

	// Central copy first. A failure during the local phase below leaves
	// this write in place; both copies remain well-formed headers.
	if s.apply {
		// The backup is taken just before the first write, so report runs
		// and no-op apply runs never disturb an existing backup.
		if !s.modified && s.backupKeep > 0 {
			if err := createBackup(s.path, s.backupKeep); err != nil {
				return err
			}
		}

		s.modified = true
		if err := s.c.seekTo(entry.nameOffset); err != nil {
			return err
		}
		if err := s.c.write(fixed); err != nil {
			return err
		}
	}

	localOffset := entry.localOffset
	if entry.localSaturated {
		// The cursor sits right after the name, at the extra field.
		extra, err := s.c.load(entry.extraLen)
		if err != nil {
			return err
		}

		if localOffset, err = zip64LocalOffset(extra, entry.skip); err != nil {
			return err
		}
	}

	if err := s.fixLocalName(localOffset, entry.name, fixed); err != nil {
		return err
	}

	return s.c.seekTo(entry.next)
}

// fixLocalName verifies the local header at offset against the central name
// and rewrites its name field in apply mode. The offset comes from untrusted
// archive data, so the signature check also guards against a corrupted or
// adversarial value.
func (s *session) fixLocalName(offset int64, name []byte, fixed []byte) error {
	if err := s.c.seekTo(offset); err != nil {
		return err
	}

	sig, err := s.c.uint32()
	if err != nil {
		return err
	}
	if sig != sigLocal {
		return ErrMissingLocalHeader
	}

	if err := s.c.skip(22); err != nil {
		return err
	}

	localNameLen, err := s.c.uint16()
	if err != nil {
		return err
	}
	if int(localNameLen) != len(name) {
		return fmt.Errorf("%w: length %d vs %d", ErrNameMismatch, localNameLen, len(name))
	}

	if err := s.c.skip(2); err != nil {
		return err
	}

	localName, err := s.c.load(len(name))
	if err != nil {
		return err
	}
	if !bytes.Equal(name, localName) {
		return ErrNameMismatch
	}

	if !s.apply {
		return nil
	}

	if err := s.c.skip(-int64(len(name))); err != nil {
		return err
	}

	return s.c.write(fixed)
}
