package vorbismeta

import "github.com/rs/zerolog"

// Option configures reading and splicing.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	out, err := vorbismeta.ReplaceComments(r, c,
//	    vorbismeta.WithLogger(logger),
//	    vorbismeta.WithRequireHeader(),
//	)
type Option func(*options)

// options holds configuration for reading and splicing.
type options struct {
	logger        zerolog.Logger
	requireHeader bool // Fail a splice that replaced nothing
}

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		logger: zerolog.Nop(),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used for debug and trace output.
//
// By default nothing is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRequireHeader makes ReplaceComments fail with ErrNotFound when the
// input has no comment header to replace.
//
// Without it such input is copied through unchanged. The file functions
// always require a header.
func WithRequireHeader() Option {
	return func(o *options) {
		o.requireHeader = true
	}
}
