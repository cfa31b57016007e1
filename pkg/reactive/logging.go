package reactive

import (
	"log/slog"
	"sync/atomic"
)

// packageLogger holds the logger used for recovered panics, swallowed
// async-update errors, and auto-disable warnings.
var packageLogger atomic.Pointer[slog.Logger]

// SetLogger replaces the package logger. Pass nil to fall back to
// slog.Default(). Safe to call concurrently.
func SetLogger(l *slog.Logger) {
	packageLogger.Store(l)
}

// logger returns the configured logger, defaulting to slog.Default().
func logger() *slog.Logger {
	if l := packageLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
