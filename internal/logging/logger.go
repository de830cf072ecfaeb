// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
)

// Logger is the application-wide structured logger instance.
var Logger = slog.Default()

// InitLoggerTo initializes the global logger writing to w.
// level: "debug", "info", "warn", "error" (defaults to "info")
// format: "json" or "text" (defaults to "text")
func InitLoggerTo(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

func ParseLevel(level string) slog.Level {
	switch level {
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

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Lenient returns v when err is nil. Otherwise it logs err under op and
// returns def.
func Lenient[T any](log *slog.Logger, op string, v T, err error, def T) T {
	if err == nil {
		return v
	}
	log.Error("storage operation failed, using default", "op", op, "error", err)
	return def
}
