package logger

import (
	"log/slog"
	"os"
)

// New returns a structured slog logger. Development gets human-readable text
// at debug level; everything else logs JSON at info for ingestion.
func New(environment string) *slog.Logger {
	if environment == "development" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
