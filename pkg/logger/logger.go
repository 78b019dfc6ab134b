package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const serviceName = "underwriting-gateway"

// New constructs a JSON slog logger writing to stdout.
func New() *slog.Logger {
	return NewTo(os.Stdout)
}

// NewTo is New with an explicit sink; the CLI logs to stderr so stdout stays machine readable.
func NewTo(w io.Writer) *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", serviceName)
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
