package types

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below wrap one of these so callers can
// match with errors.Is regardless of the extra context attached.
var (
	// ErrNotFound indicates no comment header was found in the primary stream.
	ErrNotFound = errors.New("comment header not found")

	// ErrLengthOverflow indicates a string or count does not fit the
	// 32-bit length field of the comment header.
	ErrLengthOverflow = errors.New("length overflows 32-bit field")

	// ErrBadSignature indicates the packet does not start with the
	// comment header signature.
	ErrBadSignature = errors.New("bad comment header signature")

	// ErrTruncated indicates the buffer ends before an announced length.
	ErrTruncated = errors.New("truncated comment header")

	// ErrInvalidUTF8 indicates vendor or comment text is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 in comment header")

	// ErrMissingSeparator indicates a comment without a '=' delimiter.
	ErrMissingSeparator = errors.New("missing '=' in comment")

	// ErrBadFraming indicates the trailing framing byte is not 1.
	ErrBadFraming = errors.New("bad framing byte")

	// ErrInvalidPage indicates a malformed Ogg page: missing "OggS",
	// unsupported version or truncated data.
	ErrInvalidPage = errors.New("ogg: invalid page structure")

	// ErrBadCRC indicates the page checksum does not match its contents.
	ErrBadCRC = errors.New("ogg: CRC mismatch")

	// ErrUnexpectedEOS indicates the stream ended in the middle of a packet.
	ErrUnexpectedEOS = errors.New("ogg: unexpected end of stream")
)

// OutOfBoundsError is returned when attempting to read beyond buffer bounds.
type OutOfBoundsError struct {
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("offset %d out of bounds (size: %d) while reading %s",
			e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("read of %d bytes at offset %d would exceed size %d while reading %s",
		e.Length, e.Offset, e.Size, e.What)
}

// Unwrap lets an out-of-bounds read match ErrTruncated.
func (e *OutOfBoundsError) Unwrap() error {
	return ErrTruncated
}

// DecodeError is returned when a comment header cannot be decoded.
//
// Err is one of ErrBadSignature, ErrTruncated, ErrInvalidUTF8,
// ErrMissingSeparator or ErrBadFraming.
type DecodeError struct {
	Err    error
	Field  string
	Offset int
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode comment header at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("decode comment header: %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError is returned when a comment set cannot be encoded.
type EncodeError struct {
	Err    error
	Field  string
	Length uint64
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode comment header: %s (length %d): %v", e.Field, e.Length, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// ContainerError is returned when the Ogg container itself is malformed.
type ContainerError struct {
	Err    error
	Reason string
	Offset int64
}

func (e *ContainerError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("corrupted container at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("corrupted container at offset %d: %s: %v", e.Offset, e.Reason, e.Err)
}

func (e *ContainerError) Unwrap() error {
	return e.Err
}

// NotFoundError reports that the scan for a comment header ended before
// one was found. Cause is the read error that ended the scan, if any.
type NotFoundError struct {
	Cause   error
	Packets int
}

func (e *NotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v after %d packets: %v", ErrNotFound, e.Packets, e.Cause)
	}
	return fmt.Sprintf("%v after %d packets", ErrNotFound, e.Packets)
}

// Is reports ErrNotFound so callers need not know about the cause.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}
