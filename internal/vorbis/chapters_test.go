package vorbis

import (
	"testing"
	"time"

	"github.com/simonhull/vorbismeta/internal/types"
)

func TestParseChapters(t *testing.T) {
	c := types.FromEntries("", []types.Comment{
		{Key: "TITLE", Value: "Audiobook"},
		{Key: "CHAPTER002", Value: "00:05:23.500"},
		{Key: "CHAPTER002NAME", Value: "The Middle"},
		{Key: "chapter001", Value: "00:00:00.000"},
		{Key: "chapter001name", Value: "Introduction"},
		{Key: "CHAPTER003", Value: "01:00:00.000"},
	})

	chapters := ParseChapters(c)
	if len(chapters) != 3 {
		t.Fatalf("got %d chapters, want 3", len(chapters))
	}

	want := []types.Chapter{
		{Index: 1, Title: "Introduction", StartTime: 0, EndTime: 5*time.Minute + 23500*time.Millisecond},
		{Index: 2, Title: "The Middle", StartTime: 5*time.Minute + 23500*time.Millisecond, EndTime: time.Hour},
		{Index: 3, Title: "Chapter 3", StartTime: time.Hour, EndTime: 0},
	}
	for i, w := range want {
		if chapters[i] != w {
			t.Errorf("chapter[%d] = %+v, want %+v", i, chapters[i], w)
		}
	}
}

func TestParseChapters_None(t *testing.T) {
	c := types.NewComments("")
	c.Add("title", "No chapters")
	c.Add("chapterNAME", "not numbered")

	if chapters := ParseChapters(c); chapters != nil {
		t.Errorf("ParseChapters() = %v, want nil", chapters)
	}
}

func TestParseChapters_SkipsInvalidTimestamp(t *testing.T) {
	c := types.NewComments("")
	c.Add("CHAPTER001", "00:00:00.000")
	c.Add("CHAPTER002", "not a time")
	c.Add("CHAPTER002NAME", "Broken")
	c.Add("CHAPTER003", "00:01:00")

	chapters := ParseChapters(c)
	if len(chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(chapters))
	}
	if chapters[0].EndTime != time.Minute {
		t.Errorf("chapter 1 EndTime = %v, want 1m", chapters[0].EndTime)
	}
	if chapters[1].Index != 2 {
		t.Errorf("chapter 2 Index = %d, want 2", chapters[1].Index)
	}
}

func TestSetChapters(t *testing.T) {
	c := types.NewComments("")
	c.Add("title", "Book")
	c.Add("CHAPTER001", "00:00:10.000")
	c.Add("CHAPTER001NAME", "Old")

	SetChapters(c, []types.Chapter{
		{Title: "Intro", StartTime: 0},
		{Title: "Part One", StartTime: 90*time.Minute + 1500*time.Millisecond},
	})

	if got := c.GetFirst("title"); got != "Book" {
		t.Errorf("title = %q, want Book", got)
	}
	if got := c.Get("chapter001"); len(got) != 1 || got[0] != "00:00:00.000" {
		t.Errorf("CHAPTER001 = %v, want [00:00:00.000]", got)
	}
	if got := c.GetFirst("chapter002"); got != "01:30:01.500" {
		t.Errorf("CHAPTER002 = %q, want 01:30:01.500", got)
	}

	chapters := ParseChapters(c)
	if len(chapters) != 2 || chapters[0].Title != "Intro" || chapters[1].Title != "Part One" {
		t.Errorf("ParseChapters after SetChapters = %+v", chapters)
	}
}

func TestParseChapterTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"00:00:00.000", 0, false},
		{"01:02:03.456", time.Hour + 2*time.Minute + 3456*time.Millisecond, false},
		{"05:23.5", 5*time.Minute + 23500*time.Millisecond, false},
		{"42.25", 42250 * time.Millisecond, false},
		{"00:60:00", 0, true},
		{"1:2:3:4", 0, true},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChapterTimestamp(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseChapterTimestamp(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseChapterTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatChapterTimestamp(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00.000"},
		{time.Hour + 2*time.Minute + 3456*time.Millisecond, "01:02:03.456"},
		{-time.Second, "00:00:00.000"},
	}

	for _, tt := range tests {
		if got := FormatChapterTimestamp(tt.in); got != tt.want {
			t.Errorf("FormatChapterTimestamp(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
