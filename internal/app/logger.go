package app

import (
	"io"
	"log/slog"
)

// newLogger builds the App's own slog.Logger, leaving the process-wide
// default untouched so instances stay isolated. Unrecognized levels fall
// back to info; any format other than "json" gets the text handler.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
