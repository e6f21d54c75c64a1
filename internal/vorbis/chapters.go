package vorbis

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/simonhull/vorbismeta/internal/types"
)

const chapterPrefix = "CHAPTER"

// ParseChapters extracts chapters from CHAPTER comments.
//
// Ogg Vorbis and Opus support chapters via special comments:
//
//	CHAPTERxxx=HH:MM:SS.mmm
//	CHAPTERxxxNAME=Title
//
// Where xxx is a zero-padded chapter number (e.g., 001, 002, 010, 100).
// Keys are matched case-insensitively. Chapters without a valid timestamp
// are dropped. The last chapter has a zero EndTime.
func ParseChapters(c *types.Comments) []types.Chapter {
	type chapterData struct {
		number    int
		timestamp string
		start     time.Duration
		title     string
	}

	chaptersMap := make(map[int]*chapterData)
	get := func(num int) *chapterData {
		if chaptersMap[num] == nil {
			chaptersMap[num] = &chapterData{number: num}
		}
		return chaptersMap[num]
	}

	for key, value := range c.All() {
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if !strings.HasPrefix(key, chapterPrefix) {
			continue
		}

		if strings.HasSuffix(key, "NAME") {
			numStr := strings.TrimSuffix(strings.TrimPrefix(key, chapterPrefix), "NAME")
			num, err := strconv.Atoi(numStr)
			if err != nil {
				continue
			}
			get(num).title = value
			continue
		}

		num, err := strconv.Atoi(strings.TrimPrefix(key, chapterPrefix))
		if err != nil {
			continue
		}
		get(num).timestamp = value
	}

	var chapterList []chapterData
	for _, chap := range chaptersMap {
		start, err := ParseChapterTimestamp(chap.timestamp)
		if err != nil {
			continue
		}
		chap.start = start
		chapterList = append(chapterList, *chap)
	}

	if len(chapterList) == 0 {
		return nil
	}

	slices.SortFunc(chapterList, func(a, b chapterData) int {
		return cmp.Compare(a.number, b.number)
	})

	chapters := make([]types.Chapter, len(chapterList))
	for i, chap := range chapterList {
		var endTime time.Duration
		if i < len(chapterList)-1 {
			endTime = chapterList[i+1].start
		}

		title := chap.title
		if title == "" {
			title = fmt.Sprintf("Chapter %d", chap.number)
		}

		chapters[i] = types.Chapter{
			Index:     i + 1,
			Title:     title,
			StartTime: chap.start,
			EndTime:   endTime,
		}
	}

	return chapters
}

// SetChapters replaces all CHAPTER comments in c with the given chapters,
// numbered from 001 in slice order. EndTime is not stored.
func SetChapters(c *types.Comments, chapters []types.Chapter) {
	for _, key := range c.Names() {
		if isChapterKey(key) {
			c.Clear(key)
		}
	}

	for i, chap := range chapters {
		key := fmt.Sprintf("%s%03d", chapterPrefix, i+1)
		c.Add(key, FormatChapterTimestamp(chap.StartTime))
		if chap.Title != "" {
			c.Add(key+"NAME", chap.Title)
		}
	}
}

func isChapterKey(key string) bool {
	key = strings.ToUpper(key)
	if !strings.HasPrefix(key, chapterPrefix) {
		return false
	}
	num := strings.TrimSuffix(strings.TrimPrefix(key, chapterPrefix), "NAME")
	_, err := strconv.Atoi(num)
	return err == nil
}

// FormatChapterTimestamp formats d as HH:MM:SS.mmm.
func FormatChapterTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}

// ParseChapterTimestamp parses chapter timestamps in various formats:
//   - HH:MM:SS.mmm (hours:minutes:seconds.milliseconds)
//   - MM:SS.mmm (minutes:seconds.milliseconds)
//   - SS.mmm (seconds.milliseconds)
//
// Returns the duration or an error if the format is invalid.
func ParseChapterTimestamp(ts string) (time.Duration, error) {
	parts := strings.Split(ts, ":")

	var hours, minutes int
	var seconds float64
	var err error

	switch len(parts) {
	case 3:
		hours, err = strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("invalid hours in timestamp: %s", ts)
		}
		minutes, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("invalid minutes in timestamp: %s", ts)
		}
		seconds, err = strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid seconds in timestamp: %s", ts)
		}

	case 2:
		minutes, err = strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("invalid minutes in timestamp: %s", ts)
		}
		seconds, err = strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid seconds in timestamp: %s", ts)
		}

	case 1:
		seconds, err = strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid seconds in timestamp: %s", ts)
		}

	default:
		return 0, fmt.Errorf("invalid timestamp format: %s", ts)
	}

	if hours < 0 || minutes < 0 || minutes >= 60 || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("timestamp values out of range: %s", ts)
	}

	totalMillis := int64(hours*3600+minutes*60)*1000 + int64(seconds*1000+0.5)
	return time.Duration(totalMillis) * time.Millisecond, nil
}
