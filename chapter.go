package vorbismeta

import (
	"github.com/simonhull/vorbismeta/internal/types"
	"github.com/simonhull/vorbismeta/internal/vorbis"
)

// Chapter is an alias to types.Chapter.
// Re-exporting from internal/types to maintain public API.
type Chapter = types.Chapter

// Chapters returns the chapters stored as CHAPTERxxx comments, ordered by
// chapter number.
//
// Example:
//
//	for _, ch := range vorbismeta.Chapters(c) {
//		fmt.Printf("%d. %s (%s)\n", ch.Index, ch.Title, ch.StartTime)
//	}
func Chapters(c *Comments) []Chapter {
	return vorbis.ParseChapters(c)
}

// SetChapters replaces the chapter comments in c.
func SetChapters(c *Comments, chapters []Chapter) {
	vorbis.SetChapters(c, chapters)
}
