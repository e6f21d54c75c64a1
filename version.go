package vorbismeta

import (
	"runtime"
	"runtime/debug"

	"github.com/simonhull/vorbismeta/internal/registry"
)

// Version is the semantic version of the vorbismeta library.
const Version = "0.1.0"

// ModulePath is the import path of the library.
const ModulePath = "github.com/simonhull/vorbismeta"

// VersionInfo describes the library build.
type VersionInfo struct {
	Module    string
	Version   string
	Commit    string // VCS revision, "unknown" outside a VCS build
	BuildTime string
	GoVersion string
	Codecs    []string // comment header dialects, in detection order
}

// GetVersionInfo returns version information for the running binary.
//
// Commit and BuildTime come from the VCS stamp the go tool embeds in
// module builds. A "-dirty" suffix marks a modified working tree.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Module:    ModulePath,
		Version:   Version,
		Commit:    "unknown",
		BuildTime: "unknown",
		GoVersion: runtime.Version(),
		Codecs:    registry.Names(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	dirty := false
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.time":
			info.BuildTime = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty && info.Commit != "unknown" {
		info.Commit += "-dirty"
	}
	return info
}
