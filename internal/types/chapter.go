package types

import "time"

// Chapter represents a chapter marker stored in CHAPTERxxx comments.
//
//	for _, chapter := range vorbismeta.Chapters(comments) {
//	    fmt.Printf("[%d] %s: %s - %s\n",
//	        chapter.Index,
//	        chapter.Title,
//	        chapter.StartTime,
//	        chapter.EndTime)
//	}
//
// EndTime of the last chapter is zero: the comment header does not know
// the stream duration.
type Chapter struct {
	Index     int           `json:"index"`
	Title     string        `json:"title"`
	StartTime time.Duration `json:"start_time"`
	EndTime   time.Duration `json:"end_time"`
}
