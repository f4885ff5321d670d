// Package logger provides verbose logging for the pagespin CLI.
// When verbose mode is enabled via the --verbose flag, structured debug
// messages are written to stderr to show what the load and export
// pipelines are doing. Nothing is written otherwise.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	sl                = newSlog(os.Stderr)
)

// newSlog builds a text logger without timestamps so output stays stable.
func newSlog(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	sl = newSlog(w)
}

// Slog returns the underlying structured logger, or a discarding logger
// when verbose mode is off.
func Slog() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return sl
}

// Debug logs a formatted message at debug level.
func Debug(format string, args ...any) {
	logf(slog.LevelDebug, format, args...)
}

// Info logs a formatted message at info level.
func Info(format string, args ...any) {
	logf(slog.LevelInfo, format, args...)
}

// Warn logs a formatted message at warn level.
func Warn(format string, args ...any) {
	logf(slog.LevelWarn, format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

func logf(level slog.Level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		sl.Log(context.Background(), level, fmt.Sprintf(format, args...))
	}
}
