// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides structured, leveled logging on top of log/slog,
// with an extra Trace level below Debug.
package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// Log levels. Trace sits below slog's Debug.
const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var rootHandler atomic.Pointer[slog.Handler]

func init() {
	h := DiscardHandler()
	rootHandler.Store(&h)
}

// Logger writes key/value pairs to the root handler. Loggers carry their
// context attrs and resolve the handler at write time, so package-level
// loggers derived before SetRootHandler still pick up the configured
// handler.
type Logger struct {
	attrs []slog.Attr
}

// SetRootHandler replaces the handler of the root logger.
func SetRootHandler(h slog.Handler) {
	rootHandler.Store(&h)
}

// Root returns the root logger.
func Root() *Logger {
	return &Logger{}
}

// WithContext derives a logger carrying the given key/value context.
func WithContext(ctx ...any) *Logger {
	return Root().With(ctx...)
}

// With derives a logger carrying extra key/value context.
func (l *Logger) With(ctx ...any) *Logger {
	if len(ctx) == 0 {
		return l
	}
	attrs := make([]slog.Attr, 0, len(l.attrs)+len(ctx)/2)
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, argsToAttrs(ctx)...)
	return &Logger{attrs: attrs}
}

func (l *Logger) write(level slog.Level, msg string, args ...any) {
	h := *rootHandler.Load()
	if !h.Enabled(context.Background(), level) {
		return
	}
	if len(l.attrs) > 0 {
		h = h.WithAttrs(l.attrs)
	}
	r := slog.NewRecord(nowFunc(), level, msg, 0)
	r.Add(args...)
	_ = h.Handle(context.Background(), r)
}

// Trace logs at the trace level.
func (l *Logger) Trace(msg string, args ...any) { l.write(LevelTrace, msg, args...) }

// Debug logs at the debug level.
func (l *Logger) Debug(msg string, args ...any) { l.write(LevelDebug, msg, args...) }

// Info logs at the info level.
func (l *Logger) Info(msg string, args ...any) { l.write(LevelInfo, msg, args...) }

// Warn logs at the warn level.
func (l *Logger) Warn(msg string, args ...any) { l.write(LevelWarn, msg, args...) }

// Error logs at the error level.
func (l *Logger) Error(msg string, args ...any) { l.write(LevelError, msg, args...) }

func argsToAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = "!BADKEY"
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}

// StderrHandler builds a human friendly handler writing to stderr, colored
// when stderr is a terminal.
func StderrHandler(lvl *slog.LevelVar) slog.Handler {
	return NewTerminalHandler(os.Stderr, lvl)
}
