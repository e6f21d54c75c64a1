// Package config loads tag edit files for the vorbistag command.
//
// An edit file is TOML:
//
//	vendor = "my encoder"
//	clear_all = false
//	clear = ["comment"]
//	jobs = 4
//	log_level = "info"
//
//	[[tag]]
//	key = "artist"
//	values = ["Some Guy", "Another Dude"]
//
//	[[chapter]]
//	start = "00:03:10.500"
//	title = "Second Movement"
//
//	[save]
//	backup = ".bak"
//	validate = true
//	preserve_mtime = true
//
// Keys that are absent leave the corresponding setting alone.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/simonhull/vorbismeta/internal/types"
	"github.com/simonhull/vorbismeta/internal/vorbis"
)

// Tag is one key with the values to add under it.
type Tag struct {
	Key    string
	Values []string
}

// Save mirrors the write options of the library.
type Save struct {
	Backup        string
	Validate      bool
	PreserveMTime bool
}

// Edit is a decoded edit file.
type Edit struct {
	Vendor    string
	HasVendor bool // vendor key present; an empty vendor is valid
	ClearAll  bool
	Clear     []string
	Tags      []Tag
	Chapters  []types.Chapter
	Jobs      int
	LogLevel  string
	Save      Save
}

type fileConfig struct {
	Vendor   string        `toml:"vendor"`
	ClearAll bool          `toml:"clear_all"`
	Clear    []string      `toml:"clear"`
	Jobs     int           `toml:"jobs"`
	LogLevel string        `toml:"log_level"`
	Tags     []fileTag     `toml:"tag"`
	Chapters []fileChapter `toml:"chapter"`
	Save     fileSave      `toml:"save"`
}

type fileTag struct {
	Key    string   `toml:"key"`
	Value  string   `toml:"value"`
	Values []string `toml:"values"`
}

type fileChapter struct {
	Start string `toml:"start"`
	Title string `toml:"title"`
}

type fileSave struct {
	Backup        string `toml:"backup"`
	Validate      bool   `toml:"validate"`
	PreserveMTime bool   `toml:"preserve_mtime"`
}

// Load reads and validates the edit file at path.
func Load(path string) (Edit, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Edit{}, fmt.Errorf("load edit config: %w", err)
	}
	return fromFile(raw, meta)
}

// Parse decodes an edit file from TOML text.
func Parse(data string) (Edit, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Edit{}, fmt.Errorf("parse edit config: %w", err)
	}
	return fromFile(raw, meta)
}

func fromFile(raw fileConfig, meta toml.MetaData) (Edit, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Edit{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	var e Edit

	if meta.IsDefined("vendor") {
		e.Vendor = raw.Vendor
		e.HasVendor = true
	}

	e.ClearAll = raw.ClearAll
	e.Clear = normalizeKeys(raw.Clear)

	if meta.IsDefined("jobs") {
		if raw.Jobs < 1 {
			return Edit{}, fmt.Errorf("jobs must be at least 1, got %d", raw.Jobs)
		}
		e.Jobs = raw.Jobs
	}

	e.LogLevel = strings.TrimSpace(raw.LogLevel)

	for i, t := range raw.Tags {
		key := strings.TrimSpace(t.Key)
		if key == "" || strings.Contains(key, "=") {
			return Edit{}, fmt.Errorf("tag %d: invalid key %q", i, t.Key)
		}
		values := t.Values
		if t.Value != "" {
			values = append([]string{t.Value}, values...)
		}
		e.Tags = append(e.Tags, Tag{Key: key, Values: values})
	}

	for i, ch := range raw.Chapters {
		start, err := vorbis.ParseChapterTimestamp(strings.TrimSpace(ch.Start))
		if err != nil {
			return Edit{}, fmt.Errorf("chapter %d: %w", i, err)
		}
		e.Chapters = append(e.Chapters, types.Chapter{
			Index:     i + 1,
			Title:     ch.Title,
			StartTime: start,
		})
	}

	e.Save = Save{
		Backup:        raw.Save.Backup,
		Validate:      raw.Save.Validate,
		PreserveMTime: raw.Save.PreserveMTime,
	}
	return e, nil
}

// Apply performs the edit on c: clear, set vendor, add tags, then
// replace chapters if any were given.
func (e Edit) Apply(c *types.Comments) {
	if e.ClearAll {
		c.ClearAll()
	}
	for _, key := range e.Clear {
		c.Clear(key)
	}
	if e.HasVendor {
		c.SetVendor(e.Vendor)
	}
	for _, t := range e.Tags {
		c.AddAll(t.Key, t.Values...)
	}
	if len(e.Chapters) > 0 {
		vorbis.SetChapters(c, e.Chapters)
	}
}

// Empty reports whether applying e would leave comments unchanged.
func (e Edit) Empty() bool {
	return !e.ClearAll && !e.HasVendor && len(e.Clear) == 0 && len(e.Tags) == 0 && len(e.Chapters) == 0
}

func normalizeKeys(in []string) []string {
	out := make([]string, 0, len(in))
	for _, key := range in {
		v := strings.TrimSpace(key)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
