package logging

import (
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// New returns a slog.Logger backed by a charm logger writing to w.
// json selects the JSON formatter; otherwise logfmt-style text is written.
func New(w io.Writer, level slog.Level, json bool) *slog.Logger {
	cl := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           toCharm(level),
	})
	if json {
		cl.SetFormatter(charmlog.JSONFormatter)
	} else {
		cl.SetFormatter(charmlog.TextFormatter)
	}
	return slog.New(cl)
}

// Init creates and sets the package-level default slog logger. Logs go to w,
// which is stderr in the CLI so NDJSON on stdout stays clean.
func Init(w io.Writer, level slog.Level, json bool) *slog.Logger {
	l := New(w, level, json)
	slog.SetDefault(l)
	return l
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func toCharm(level slog.Level) charmlog.Level {
	switch {
	case level <= slog.LevelDebug:
		return charmlog.DebugLevel
	case level <= slog.LevelInfo:
		return charmlog.InfoLevel
	case level <= slog.LevelWarn:
		return charmlog.WarnLevel
	default:
		return charmlog.ErrorLevel
	}
}
