package vorbismeta

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile replaces the comment header of the Ogg file at path.
//
// This is an atomic operation: the new file is written to a temporary file
// in the same directory, synced, then renamed over path. If any step
// fails, the original file remains unchanged.
//
// Options can be provided to customize save behavior:
//
//	err := vorbismeta.WriteFile("song.ogg", c,
//	    vorbismeta.WithBackup(".bak"),
//	    vorbismeta.WithValidation(),
//	)
//
// Returns an error matching ErrNotFound if the file has no comment header.
func WriteFile(path string, c *Comments, opts ...SaveOption) error {
	return WriteFileAs(path, path, c, opts...)
}

// WriteFileAs reads src, replaces its comment header with c and writes the
// result to dst. src and dst may be the same path.
//
// With WithBackup, an existing dst is renamed aside before the new file
// takes its place.
func WriteFileAs(src, dst string, c *Comments, opts ...SaveOption) error { //nolint:gocyclo // Atomic file operations require sequential steps
	options := applySaveOptions(opts)
	logger := options.logger.With().Str("path", dst).Logger()

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	out, err := ReplaceComments(bytes.NewReader(data), c, WithLogger(logger), WithRequireHeader())
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	// Create temp file in same directory as output (for atomic rename)
	tempFile, err := os.CreateTemp(filepath.Dir(dst), ".vorbismeta-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	// Ensure cleanup on any error
	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if _, err := tempFile.Write(out); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	// CreateTemp uses 0600; keep the source permissions instead.
	if err := tempFile.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	// Sync temp file (fsync) to ensure data is on disk
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if options.backupSuffix != "" {
		backupPath := dst + options.backupSuffix
		if _, err := os.Stat(dst); err == nil {
			if err := os.Rename(dst, backupPath); err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
			logger.Debug().Str("backup", backupPath).Msg("kept original")
		}
	}

	// Atomic rename temp -> output
	if err := os.Rename(tempPath, dst); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}
	success = true

	if options.preserveModTime {
		_ = os.Chtimes(dst, info.ModTime(), info.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}

	if options.validate {
		if err := validateWrittenFile(dst, c); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	logger.Debug().Int("size", len(out)).Int("comments", c.Len()).Msg("comment header written")
	return nil
}

// validateWrittenFile re-reads the header at path and compares it with want.
func validateWrittenFile(path string, want *Comments) error {
	got, err := ReadFile(path)
	if err != nil {
		return fmt.Errorf("re-read: %w", err)
	}
	if got.Vendor() != want.Vendor() {
		return fmt.Errorf("vendor mismatch: got %q, want %q", got.Vendor(), want.Vendor())
	}
	if !got.Equal(want) {
		return fmt.Errorf("comment mismatch: got %d entries, want %d", got.Len(), want.Len())
	}
	return nil
}
