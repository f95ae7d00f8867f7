package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// newLogger builds an isolated logger for one App. An empty level means info
// and an empty format means text; anything else unrecognised is an error.
func newLogger(levelStr, formatStr string, outW io.Writer) (*slog.Logger, error) {
	level := slog.LevelInfo
	if levelStr != "" {
		if err := level.UnmarshalText([]byte(levelStr)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", levelStr, err)
		}
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(formatStr) {
	case "", "text":
		return slog.New(slog.NewTextHandler(outW, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(outW, opts)), nil
	default:
		return nil, fmt.Errorf("log format %q: must be 'text' or 'json'", formatStr)
	}
}
