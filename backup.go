// SPDX-License-Identifier: Zlib
// Copyright (c) 2026 Mark Adler
// Source: github.com/madler/zipclean

package zipclean

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// createBackup copies the archive to `<path>.bak` before any in-place write,
// rotating older generations first. keep controls how many generations
// survive: 1 keeps only `<path>.bak`, N keeps `.bak` plus `.bak.1..N-1`.
// The in-place update itself stays untouched; the backup only gives the
// caller something to restore when the two-phase name rewrite fails halfway.
func createBackup(path string, keep int) error {
	backupPath := path + ".bak"
	if err := prepareBackupSlot(backupPath, keep); err != nil {
		return err
	}

	return copyFile(path, backupPath)
}

// prepareBackupSlot rotates or removes existing backup generations so the
// `.bak` slot is free.
func prepareBackupSlot(backupPath string, keep int) error {
	if keep <= 1 {
		return removeIfExists(backupPath)
	}

	oldest := fmt.Sprintf("%s.%d", backupPath, keep-1)
	if err := removeIfExists(oldest); err != nil {
		return err
	}

	for i := keep - 2; i >= 1; i-- {
		from := fmt.Sprintf("%s.%d", backupPath, i)
		to := fmt.Sprintf("%s.%d", backupPath, i+1)
		if err := renameIfExists(from, to); err != nil {
			return err
		}
	}

	return renameIfExists(backupPath, backupPath+".1")
}

// renameIfExists renames source to destination when source exists.
func renameIfExists(from string, to string) error {
	_, err := os.Stat(from)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", from, err)
	}

	if err := removeIfExists(to); err != nil {
		return err
	}

	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("rename %s to %s: %w", from, to, err)
	}

	return nil
}

// removeIfExists removes a file when present.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) || err == nil {
		return nil
	}

	return fmt.Errorf("remove %s: %w", path, err)
}

// copyFile copies src to dst, truncating any existing dst.
func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open backup source: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("write backup: %w", err)
	}

	if err := out.Sync(); err != nil {
		_ = out.Close()
		return fmt.Errorf("sync backup: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close backup: %w", err)
	}

	return nil
}
