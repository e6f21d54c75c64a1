package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/simonhull/vorbismeta"
)

func runVersion(w io.Writer) error {
	info := vorbismeta.GetVersionInfo()
	_, err := fmt.Fprintf(w, "vorbistag %s (%s, commit %s, built %s, %s)\ncodecs: %s\n",
		info.Version, info.Module, info.Commit, info.BuildTime, info.GoVersion,
		strings.Join(info.Codecs, ", "))
	return err
}
