package utils

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: human-readable text locally, JSON in any
// deployed environment so the log collector can parse attributes.
func NewLogger(env string) *slog.Logger {
	var handler slog.Handler
	if env == "development" {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return slog.New(handler)
}
