package app

import (
	"log/slog"
	"os"
)

// NewLogger returns the process logger for the given env: JSON at Info in
// prod, text at Debug everywhere else. Every record carries the service name
// so room events stay attributable once logs are aggregated.
func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var handler slog.Handler
	if env == "prod" {
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("service", "planning-poker")
}
