package vorbismeta

import (
	"github.com/simonhull/vorbismeta/internal/types"
	"github.com/simonhull/vorbismeta/internal/vorbis"
)

// Comments is the vendor string and ordered key=value entries of a
// comment header. See types.Comments for the accessor methods.
type Comments = types.Comments

// Comment is a single entry of Comments.
type Comment = types.Comment

// Dialect is one framing of the comment header: Vorbis or Opus.
type Dialect = vorbis.Dialect

// Known dialects.
var (
	Vorbis = vorbis.Vorbis
	Opus   = vorbis.Opus
)

// NewComments returns an empty comment set with the given vendor string.
//
// Example:
//
//	c := vorbismeta.NewComments("my tagger 1.0")
//	c.Add("TITLE", "Song") // stored as "title"
//	c.AddAll("ARTIST", "A", "B")
func NewComments(vendor string) *Comments {
	return types.NewComments(vendor)
}

// FromEntries builds a comment set from entries, keeping keys verbatim.
func FromEntries(vendor string, entries []Comment) *Comments {
	return types.FromEntries(vendor, entries)
}

// Encode serializes c as an Ogg Vorbis comment header packet.
//
// Use Opus.Encode for an OpusTags packet.
func Encode(c *Comments) ([]byte, error) {
	return vorbis.Vorbis.Encode(c)
}

// Decode parses an Ogg Vorbis comment header packet.
//
// Returns a *DecodeError describing the first problem found.
func Decode(data []byte) (*Comments, error) {
	return vorbis.Vorbis.Decode(data)
}
