// Command vorbistag shows and edits the comment header of Ogg Vorbis and
// Ogg Opus files.
//
// Usage:
//
//	vorbistag show [-json] FILE...
//	vorbistag set [-config edit.toml] [-t key=value]... [-clear key]... [-clear-all]
//	              [-vendor s] [-backup sfx] [-validate] [-preserve-mtime]
//	              [-jobs n] [-o out] FILE...
//	vorbistag version
//
// Every subcommand accepts -log-level. The VORBISMETA_LOG_LEVEL
// environment variable is used when the flag is absent.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "show":
		err = runShow(args[1:], stdout, stderr)
	case "set":
		err = runSet(args[1:], stdout, stderr)
	case "version":
		err = runVersion(stdout)
	case "-h", "-help", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "vorbistag: unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	if err != nil {
		fmt.Fprintf(stderr, "vorbistag: %v\n", err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: vorbistag <command> [flags] FILE...")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  show     print vendor, comments and chapters")
	fmt.Fprintln(w, "  set      edit comments in place or into -o")
	fmt.Fprintln(w, "  version  print version information")
	fmt.Fprintln(w, "\nRun 'vorbistag <command> -h' for command flags.")
}
