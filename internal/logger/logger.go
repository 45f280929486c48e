// Package logger provides structured diagnostic logging on top of log/slog.
//
// Logs always go to stderr so they never mix with extracted rows on stdout.
// The default level is Warn, which keeps a plain run silent.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the process-wide logger.
var Logger = New(os.Stderr, false)

// New creates a text logger writing to w. Verbose lowers the level to Debug.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Configure replaces the process-wide logger.
func Configure(w io.Writer, verbose bool) {
	Logger = New(w, verbose)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}
