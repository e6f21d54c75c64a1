package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/simonhull/vorbismeta"
	"github.com/simonhull/vorbismeta/internal/logging"
	"github.com/simonhull/vorbismeta/internal/vorbis"
)

type fileReport struct {
	Path     string               `json:"path"`
	Vendor   string               `json:"vendor"`
	Comments []vorbismeta.Comment `json:"comments"`
	Chapters []vorbismeta.Chapter `json:"chapters,omitempty"`
}

func runShow(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print JSON instead of key=value lines")
	logLevel := fs.String("log-level", "", "log level (trace, debug, info, warn, error, off)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("show: no files given")
	}

	logger := logging.Init("vorbistag", *logLevel, "")
	paths := fs.Args()

	all, err := vorbismeta.ReadMany(context.Background(), paths, vorbismeta.WithLogger(logger))
	if err != nil {
		return err
	}

	reports := make([]fileReport, len(paths))
	for i, c := range all {
		reports[i] = fileReport{
			Path:     paths[i],
			Vendor:   c.Vendor(),
			Comments: c.Entries(),
			Chapters: vorbismeta.Chapters(c),
		}
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		if len(reports) > 1 {
			fmt.Fprintf(stdout, "== %s\n", r.Path)
		}
		fmt.Fprintf(stdout, "vendor: %s\n", r.Vendor)
		for _, e := range r.Comments {
			fmt.Fprintf(stdout, "%s=%s\n", e.Key, e.Value)
		}
		for _, ch := range r.Chapters {
			fmt.Fprintf(stdout, "chapter %d: %s %s\n", ch.Index, vorbis.FormatChapterTimestamp(ch.StartTime), ch.Title)
		}
	}
	return nil
}
