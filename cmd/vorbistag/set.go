package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/simonhull/vorbismeta"
	"github.com/simonhull/vorbismeta/internal/config"
	"github.com/simonhull/vorbismeta/internal/logging"
)

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string {
	return strings.Join(*m, ",")
}

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

type setFlags struct {
	configPath    string
	tags          multiFlag
	clear         multiFlag
	clearAll      bool
	vendor        string
	backup        string
	validate      bool
	preserveMTime bool
	jobs          int
	output        string
	logLevel      string
}

func parseSetFlags(args []string, stderr io.Writer) (*setFlags, []string, map[string]bool, error) {
	f := &setFlags{}
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "TOML edit file")
	fs.Var(&f.tags, "t", "add a comment `key=value` (repeatable)")
	fs.Var(&f.clear, "clear", "remove every comment with this `key` (repeatable)")
	fs.BoolVar(&f.clearAll, "clear-all", false, "remove all comments before adding")
	fs.StringVar(&f.vendor, "vendor", "", "replace the vendor string")
	fs.StringVar(&f.backup, "backup", "", "keep the original file with this suffix")
	fs.BoolVar(&f.validate, "validate", false, "re-read each file after writing")
	fs.BoolVar(&f.preserveMTime, "preserve-mtime", false, "keep modification times")
	fs.IntVar(&f.jobs, "jobs", 0, "files processed concurrently (default: number of CPUs)")
	fs.StringVar(&f.output, "o", "", "write to this path instead of in place (single file only)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, off)")
	if err := fs.Parse(args); err != nil {
		return nil, nil, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return f, fs.Args(), set, nil
}

// buildEdit merges the edit file with command line flags. Flags are
// applied after the file, so -vendor wins and -t adds to [[tag]].
func buildEdit(f *setFlags, set map[string]bool) (config.Edit, error) {
	var edit config.Edit
	if f.configPath != "" {
		var err error
		edit, err = config.Load(f.configPath)
		if err != nil {
			return config.Edit{}, err
		}
	}

	if f.clearAll {
		edit.ClearAll = true
	}
	edit.Clear = append(edit.Clear, f.clear...)
	if set["vendor"] {
		edit.Vendor = f.vendor
		edit.HasVendor = true
	}
	for _, kv := range f.tags {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return config.Edit{}, fmt.Errorf("-t %q: want key=value", kv)
		}
		edit.Tags = append(edit.Tags, config.Tag{Key: key, Values: []string{value}})
	}

	if set["backup"] {
		edit.Save.Backup = f.backup
	}
	if f.validate {
		edit.Save.Validate = true
	}
	if f.preserveMTime {
		edit.Save.PreserveMTime = true
	}
	if set["jobs"] {
		edit.Jobs = f.jobs
	}
	if set["log-level"] {
		edit.LogLevel = f.logLevel
	}
	return edit, nil
}

func saveOptions(edit config.Edit) []vorbismeta.SaveOption {
	var opts []vorbismeta.SaveOption
	if edit.Save.Backup != "" {
		opts = append(opts, vorbismeta.WithBackup(edit.Save.Backup))
	}
	if edit.Save.Validate {
		opts = append(opts, vorbismeta.WithValidation())
	}
	if edit.Save.PreserveMTime {
		opts = append(opts, vorbismeta.WithPreserveModTime())
	}
	if edit.Jobs > 0 {
		opts = append(opts, vorbismeta.WithConcurrency(edit.Jobs))
	}
	return opts
}

func runSet(args []string, stdout, stderr io.Writer) error {
	f, paths, set, err := parseSetFlags(args, stderr)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("set: no files given")
	}
	if f.output != "" && len(paths) != 1 {
		return errors.New("set: -o needs exactly one input file")
	}

	edit, err := buildEdit(f, set)
	if err != nil {
		return err
	}
	if edit.Empty() {
		return errors.New("set: nothing to change")
	}

	logger := logging.Init("vorbistag", f.logLevel, edit.LogLevel)

	jobs := make([]vorbismeta.Job, len(paths))
	for i, p := range paths {
		jobs[i] = vorbismeta.Job{
			Path:   p,
			Output: f.output,
			Edit: func(c *vorbismeta.Comments) error {
				edit.Apply(c)
				return nil
			},
		}
	}

	opts := append(saveOptions(edit), vorbismeta.WithSaveLogger(logger))
	if err := vorbismeta.RewriteMany(context.Background(), jobs, opts...); err != nil {
		return err
	}

	logger.Info().Int("files", len(paths)).Msg("comment headers updated")
	return nil
}
