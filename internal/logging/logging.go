// Package logging provides file-backed structured logging. The TUI owns
// stdout, so log output always goes to a file under the user state dir.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
)

var logger = clog.NewWithOptions(io.Discard, clog.Options{})

// Init opens the log file and configures the package logger. Returns a
// cleanup function that closes the file.
func Init(level string) (func(), error) {
	dir, err := logDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, "agora.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	logger = clog.NewWithOptions(f, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           parseLevel(level),
	})
	logger.SetFormatter(clog.JSONFormatter)

	return func() { _ = f.Close() }, nil
}

// logDir returns the directory for log files, ~/.local/state/agora.
func logDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "agora"), nil
}

// parseLevel converts a config level string to a clog.Level.
func parseLevel(level string) clog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return clog.DebugLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { logger.Debug(msg, args...) }

// Info logs an informational message with optional key-value pairs.
func Info(msg string, args ...any) { logger.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { logger.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { logger.Error(msg, args...) }
