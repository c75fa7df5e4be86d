// ==============================================================================================
// FILE: logging/logging.go
// ==============================================================================================
// PACKAGE: logging
// PURPOSE: Structured logging setup for the dust driver.
// ==============================================================================================

package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup creates a configured slog.Logger.
// format: "json" or "text" (defaults to "text" if empty).
// level: one of "debug", "info", "warn", "error" (defaults to "info").
// If w is nil, writes to os.Stderr.
func Setup(format, level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// SetDefault sets up and installs the process-wide default logger.
func SetDefault(format, level string) {
	slog.SetDefault(Setup(format, level, nil))
}

func parseLevel(level string) slog.Level {
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
