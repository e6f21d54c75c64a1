package vorbismeta

import (
	"runtime"

	"github.com/rs/zerolog"
)

// SaveOption configures behavior when writing files.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	err := vorbismeta.WriteFile("song.ogg", c,
//	    vorbismeta.WithBackup(".bak"),
//	    vorbismeta.WithValidation(),
//	)
type SaveOption func(*saveOptions)

// saveOptions holds configuration for saving files.
type saveOptions struct {
	backupSuffix    string // Suffix for backup file (e.g., ".bak")
	validate        bool   // Re-read after write to verify
	preserveModTime bool   // Keep original modification time
	concurrency     int    // RewriteMany worker limit
	logger          zerolog.Logger
}

// defaultSaveOptions returns the default configuration for saving.
func defaultSaveOptions() *saveOptions {
	return &saveOptions{
		concurrency: runtime.NumCPU(),
		logger:      zerolog.Nop(),
	}
}

func applySaveOptions(opts []SaveOption) *saveOptions {
	o := defaultSaveOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithBackup keeps the file being replaced under a new name.
//
// The backup file will have the specified suffix appended to the original
// filename. For example, WithBackup(".bak") will keep "song.ogg.bak"
// next to the rewritten "song.ogg".
//
// If the backup file already exists, it will be overwritten.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-reads the file after writing to verify integrity.
//
// After saving, the comment header is read back and compared with the
// one that was written. This adds overhead but catches a bad write
// before the caller moves on.
func WithValidation() SaveOption {
	return func(o *saveOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the source file modification time.
//
// Use this when updating tags should not change the "modified" date.
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) {
		o.preserveModTime = true
	}
}

// WithConcurrency limits how many files RewriteMany processes at once.
//
// Default is runtime.NumCPU(). Values below 1 are ignored.
func WithConcurrency(n int) SaveOption {
	return func(o *saveOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithSaveLogger sets the logger used while reading, splicing and
// writing files.
func WithSaveLogger(logger zerolog.Logger) SaveOption {
	return func(o *saveOptions) {
		o.logger = logger
	}
}
