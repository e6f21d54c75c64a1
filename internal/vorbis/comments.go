// Package vorbis encodes and decodes Vorbis comment headers.
//
// The same comment structure is used by Ogg Vorbis (packet type 0x03) and
// Ogg Opus (OpusTags). Each Dialect describes one of those framings:
//
//	signature        fixed magic bytes
//	vendor_length    uint32 LE
//	vendor           UTF-8
//	comment_count    uint32 LE
//	comment[i]       uint32 LE length + UTF-8 "KEY=VALUE"
//	framing          1 byte, value 1 (Vorbis only)
package vorbis

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/simonhull/vorbismeta/internal/binary"
	"github.com/simonhull/vorbismeta/internal/registry"
	"github.com/simonhull/vorbismeta/internal/types"
)

// maxFieldLength is the largest length or count the header can carry.
// Tests lower it to exercise overflow without allocating 4 GiB.
var maxFieldLength uint64 = math.MaxUint32

// Dialect is one framing of the comment header.
type Dialect struct {
	name      string
	signature []byte
	framing   bool
	ident     func(firstPacket []byte) bool
}

var (
	// Vorbis is the Ogg Vorbis comment header: "\x03vorbis" and a framing byte.
	Vorbis = &Dialect{
		name:      "vorbis",
		signature: []byte{0x03, 'v', 'o', 'r', 'b', 'i', 's'},
		framing:   true,
		ident: func(p []byte) bool {
			return len(p) >= 7 && p[0] == 0x01 && string(p[1:7]) == "vorbis"
		},
	}

	// Opus is the OpusTags header from RFC 7845. It has no framing byte and
	// may carry padding after the last comment.
	Opus = &Dialect{
		name:      "opus",
		signature: []byte("OpusTags"),
		ident: func(p []byte) bool {
			return len(p) >= 8 && string(p[0:8]) == "OpusHead"
		},
	}
)

// Name returns the codec name the dialect is registered under.
func (d *Dialect) Name() string {
	return d.name
}

// Signature returns a copy of the magic bytes that start the header.
func (d *Dialect) Signature() []byte {
	return bytes.Clone(d.signature)
}

// Identifies reports whether firstPacket is the identification header of
// a stream that uses this dialect.
func (d *Dialect) Identifies(firstPacket []byte) bool {
	return d.ident(firstPacket)
}

// Encode serializes c into a comment header packet.
//
// Comments are written as "key=value" in stored order. The only check is
// that every length fits the 32-bit length field; otherwise an
// *types.EncodeError wrapping types.ErrLengthOverflow is returned and no
// bytes are produced.
func (d *Dialect) Encode(c *types.Comments) ([]byte, error) {
	vendor := c.Vendor()
	if err := checkLength("vendor", len(vendor)); err != nil {
		return nil, err
	}
	if err := checkLength("comment count", c.Len()); err != nil {
		return nil, err
	}

	lines := make([]string, 0, c.Len())
	size := len(d.signature) + 4 + len(vendor) + 4
	i := 0
	for key, value := range c.All() {
		line := key + "=" + value
		if err := checkLength(fmt.Sprintf("comment %d", i), len(line)); err != nil {
			return nil, err
		}
		lines = append(lines, line)
		size += 4 + len(line)
		i++
	}
	if d.framing {
		size++
	}

	buf := bytes.NewBuffer(make([]byte, 0, size))
	sw := binary.NewSafeWriter(buf)

	// bytes.Buffer writes never fail
	_ = sw.WriteBytes(d.signature)
	_ = binary.WriteLE(sw, uint32(len(vendor)))
	_ = sw.WriteString(vendor)
	_ = binary.WriteLE(sw, uint32(len(lines)))
	for _, line := range lines {
		_ = binary.WriteLE(sw, uint32(len(line)))
		_ = sw.WriteString(line)
	}
	if d.framing {
		_ = binary.WriteLE[uint8](sw, 1)
	}

	return buf.Bytes(), nil
}

func checkLength(field string, n int) error {
	if uint64(n) > maxFieldLength {
		return &types.EncodeError{Err: types.ErrLengthOverflow, Field: field, Length: uint64(n)}
	}
	return nil
}

// Decode parses a comment header packet.
//
// Keys keep the casing found in the packet. Errors are *types.DecodeError
// wrapping one of types.ErrBadSignature, ErrTruncated, ErrInvalidUTF8,
// ErrMissingSeparator or ErrBadFraming.
func (d *Dialect) Decode(data []byte) (*types.Comments, error) {
	if !bytes.HasPrefix(data, d.signature) {
		if len(data) < len(d.signature) && bytes.HasPrefix(d.signature, data) {
			return nil, &types.DecodeError{Err: types.ErrTruncated, Field: "signature", Offset: len(data)}
		}
		return nil, &types.DecodeError{Err: types.ErrBadSignature, Field: "signature"}
	}

	r := binary.NewReader(binary.NewBytesReader(data), int64(len(d.signature)))

	vendor, err := readString(r, "vendor")
	if err != nil {
		return nil, err
	}

	count, err := readLength(r, "comment count")
	if err != nil {
		return nil, err
	}

	// Each comment needs at least its 4-byte length, which bounds a bogus count.
	entries := make([]types.Comment, 0, min(uint64(count), uint64(r.Remaining()/4)))
	for i := uint32(0); i < count; i++ {
		field := fmt.Sprintf("comment %d", i)
		start := int(r.Offset())

		line, err := readString(r, field)
		if err != nil {
			return nil, err
		}

		key, value, ok := SplitComment(line)
		if !ok {
			return nil, &types.DecodeError{Err: types.ErrMissingSeparator, Field: field, Offset: start}
		}
		entries = append(entries, types.Comment{Key: key, Value: value})
	}

	if d.framing {
		off := int(r.Offset())
		framing, err := binary.ReadValue[uint8](r, "framing")
		if err != nil {
			return nil, &types.DecodeError{Err: types.ErrTruncated, Field: "framing", Offset: off}
		}
		if framing != 1 {
			return nil, &types.DecodeError{Err: types.ErrBadFraming, Field: "framing", Offset: off}
		}
	}

	return types.FromEntries(vendor, entries), nil
}

// Probe reports whether data decodes as a comment header of this dialect.
// A failed decode is an ordinary false, not an error.
func (d *Dialect) Probe(data []byte) (*types.Comments, bool) {
	c, err := d.Decode(data)
	if err != nil {
		return nil, false
	}
	return c, true
}

func readLength(r *binary.Reader, field string) (uint32, error) {
	off := int(r.Offset())
	n, err := binary.ReadValue[uint32](r, field+" length")
	if err != nil {
		return 0, &types.DecodeError{Err: types.ErrTruncated, Field: field, Offset: off}
	}
	return n, nil
}

func readString(r *binary.Reader, field string) (string, error) {
	n, err := readLength(r, field)
	if err != nil {
		return "", err
	}

	off := int(r.Offset())
	b, err := r.ReadBytes(uint64(n), field)
	if err != nil {
		return "", &types.DecodeError{Err: types.ErrTruncated, Field: field, Offset: off}
	}
	if !utf8.Valid(b) {
		return "", &types.DecodeError{Err: types.ErrInvalidUTF8, Field: field, Offset: off}
	}
	return string(b), nil
}

// SplitComment splits "KEY=VALUE" at the first '='. Values may contain
// further '=' characters; keys may be empty.
func SplitComment(comment string) (key, value string, ok bool) {
	return strings.Cut(comment, "=")
}

func init() {
	registry.Register(Vorbis)
	registry.Register(Opus)
}
