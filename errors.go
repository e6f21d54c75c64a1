package vorbismeta

import (
	"github.com/simonhull/vorbismeta/internal/types"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrNotFound         = types.ErrNotFound
	ErrLengthOverflow   = types.ErrLengthOverflow
	ErrBadSignature     = types.ErrBadSignature
	ErrTruncated        = types.ErrTruncated
	ErrInvalidUTF8      = types.ErrInvalidUTF8
	ErrMissingSeparator = types.ErrMissingSeparator
	ErrBadFraming       = types.ErrBadFraming
	ErrInvalidPage      = types.ErrInvalidPage
	ErrBadCRC           = types.ErrBadCRC
	ErrUnexpectedEOS    = types.ErrUnexpectedEOS
)

// DecodeError is an alias to types.DecodeError.
// Re-exporting from internal/types to maintain public API.
type DecodeError = types.DecodeError

// EncodeError is an alias to types.EncodeError.
// Re-exporting from internal/types to maintain public API.
type EncodeError = types.EncodeError

// ContainerError is an alias to types.ContainerError.
// Re-exporting from internal/types to maintain public API.
type ContainerError = types.ContainerError

// NotFoundError is an alias to types.NotFoundError.
// It matches ErrNotFound with errors.Is.
type NotFoundError = types.NotFoundError

// OutOfBoundsError is an alias to types.OutOfBoundsError.
type OutOfBoundsError = types.OutOfBoundsError
