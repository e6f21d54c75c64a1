// Package logging builds the console logger used by the command line tools.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLogLevel overrides the configured level when set to a known level.
const EnvLogLevel = "VORBISMETA_LOG_LEVEL"

// DefaultLevel is used when no flag, environment or config level is given.
const DefaultLevel = zerolog.InfoLevel

// New returns a console logger writing to w and installs it as the global
// zerolog logger.
func New(w io.Writer, app string, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(w),
	}
	logger := zerolog.New(output).Level(level).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// Init is New on stderr with the level picked by Resolve.
func Init(app, flagLevel, configLevel string) zerolog.Logger {
	return New(os.Stderr, app, Resolve(flagLevel, configLevel))
}

// Resolve picks the log level. A command line flag wins, then the
// environment variable, then the config file.
func Resolve(flagLevel, configLevel string) zerolog.Level {
	for _, raw := range []string{flagLevel, os.Getenv(EnvLogLevel), configLevel} {
		if lvl, ok := ParseLevel(raw); ok {
			return lvl
		}
	}
	return DefaultLevel
}

// ParseLevel maps a level name to a zerolog level. The boolean is false
// for empty or unknown names.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DefaultLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return DefaultLevel, false
	}
}
