package vorbismeta

import (
	"bytes"
	"io"

	"github.com/simonhull/vorbismeta/internal/ogg"
	"github.com/simonhull/vorbismeta/internal/splice"
	"github.com/simonhull/vorbismeta/internal/types"
)

// SpliceResult describes what Splice did.
type SpliceResult = splice.Result

// ReadComments returns the comment header of the first logical stream in
// an Ogg byte stream.
//
// Returns an error matching ErrNotFound if the stream has no decodable
// header, and a *ContainerError if the very first page is malformed.
//
// Example:
//
//	c, err := vorbismeta.ReadComments(f)
//	if errors.Is(err, vorbismeta.ErrNotFound) {
//		// not a tagged Ogg stream
//	}
//	fmt.Println(c.GetFirst("title"))
func ReadComments(r io.Reader, opts ...Option) (*Comments, error) {
	o := applyOptions(opts)
	c, _, err := splice.Locate(ogg.NewPacketReader(r), o.logger)
	return c, err
}

// Splice streams r to w, replacing the comment header of the first
// logical stream with c. All other packets are copied unchanged and
// re-paginated.
//
// The header is encoded before any output, so an *EncodeError leaves w
// untouched. On a read or write error, w holds whatever was flushed so far
// and must be discarded.
func Splice(r io.Reader, w io.Writer, c *Comments, opts ...Option) (SpliceResult, error) {
	o := applyOptions(opts)

	pw := ogg.NewPacketWriter(w)
	res, err := splice.Splice(ogg.NewPacketReader(r), pw, c, o.logger)
	if err != nil {
		_ = pw.Close() //nolint:errcheck // Partial output is already invalid
		return res, err
	}
	if err := pw.Close(); err != nil {
		return res, err
	}

	if o.requireHeader && !res.Replaced {
		return res, &types.NotFoundError{Packets: res.Packets}
	}
	return res, nil
}

// ReplaceComments is Splice into memory.
//
// On failure the bytes produced so far are returned together with the
// error; they are not a valid file. An encode failure returns nil.
func ReplaceComments(r io.Reader, c *Comments, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	_, err := Splice(r, &buf, c, opts...)
	if err != nil && buf.Len() == 0 {
		return nil, err
	}
	return buf.Bytes(), err
}
