// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Configures the default logger for the CLI (stderr) or the TUI (debug log file).

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Init configures the default slog logger.
// level: debug, info, warn, error (default: info)
// format: text, json (default: text)
func Init(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// InitFile sends logs to <configDir>/debug.log so a full screen TUI is not
// disturbed. The returned function closes the file.
func InitFile(configDir, level, format string) (func(), error) {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filepath.Join(configDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	Init(f, level, format)
	return func() { f.Close() }, nil
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
