package config

import (
	"io"
	"log/slog"

	"github.com/golang-cz/devslog"
)

// NewLogger builds a logger writing to w in the configured format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return NewLogger(c.LogFormat, c.LogLevel, w)
}

// NewLogger builds a logger for format at level.
func NewLogger(format LogFormat, level slog.Level, w io.Writer) *slog.Logger {
	var handler slog.Handler

	switch format {
	case LogFormatDev:
		handler = devslog.NewHandler(w, &devslog.Options{
			HandlerOptions:    &slog.HandlerOptions{Level: level},
			MaxSlicePrintSize: 4,
			SortKeys:          true,
			TimeFormat:        "[04:05]",
			NewLineAfterLog:   true,
			DebugColor:        devslog.Magenta,
			StringerFormatter: true,
		})
	case LogFormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case LogFormatDiscard:
		handler = slog.DiscardHandler
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
