package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a slog.Logger for the given environment and level.
// Production uses JSON handler; otherwise text handler.
// level may be: debug, info, warn, error (default: info).
func NewLogger(environment, level string) *slog.Logger {
	return newLogger(os.Stdout, environment, level)
}

func newLogger(w io.Writer, environment, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
