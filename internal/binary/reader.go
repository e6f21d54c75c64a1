// Package binary provides bounds-checked little-endian reading and writing
// primitives for comment header and Ogg page fields.
package binary

import (
	"bytes"
	"fmt"
	"io"

	"github.com/simonhull/vorbismeta/internal/types"
)

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
type SafeReader struct {
	r    io.ReaderAt
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
	}
}

// NewBytesReader creates a SafeReader over an in-memory buffer.
func NewBytesReader(b []byte) *SafeReader {
	return NewSafeReader(bytes.NewReader(b), int64(len(b)))
}

// ReadAt reads bytes at the given offset with context for error messages.
//
// Reads past the end return *types.OutOfBoundsError.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || (off >= sr.size && len(b) > 0) {
		return &types.OutOfBoundsError{What: what, Offset: off, Length: len(b), Size: sr.size}
	}

	if off+int64(len(b)) > sr.size {
		return &types.OutOfBoundsError{What: what, Offset: off, Length: len(b), Size: sr.size}
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read %s at offset %d: %w", what, off, err)
	}

	if n < len(b) {
		return fmt.Errorf("short read for %s at offset %d: got %d bytes, expected %d",
			what, off, n, len(b))
	}

	return nil
}

// Reader provides sequential reading with automatic offset tracking.
type Reader struct {
	*SafeReader
	offset int64
}

// NewReader creates a new Reader starting at the given offset.
func NewReader(sr *SafeReader, offset int64) *Reader {
	return &Reader{
		SafeReader: sr,
		offset:     offset,
	}
}

// ReadValue reads a little-endian numeric value and advances the offset.
func ReadValue[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	val, err := ReadLE[T](r.SafeReader, r.offset, what)
	if err != nil {
		var zero T
		return zero, err
	}

	r.offset += int64(sizeOf[T]())
	return val, nil
}

// ReadBytes reads n bytes and advances the offset.
//
// The length is checked against the remaining size before allocating, so
// a corrupt length field cannot trigger a huge allocation.
func (r *Reader) ReadBytes(n uint64, what string) ([]byte, error) {
	if n > uint64(r.Remaining()) {
		return nil, &types.OutOfBoundsError{What: what, Offset: r.offset, Length: int(min(n, uint64(^uint(0)>>1))), Size: r.size}
	}

	buf := make([]byte, n)
	if err := r.SafeReader.ReadAt(buf, r.offset, what); err != nil {
		return nil, err
	}

	r.offset += int64(n)
	return buf, nil
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Remaining returns the number of bytes left after the current offset.
func (r *Reader) Remaining() int64 {
	if r.offset >= r.size {
		return 0
	}
	return r.size - r.offset
}
