package blit

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/dungeonfog/blit/internal/gpu"
)

// nopHandler drops every record. Enabled reports false, so call sites
// skip attribute evaluation and formatting while logging is off.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger returns the discard-everything logger installed by default.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the active logger behind an atomic pointer; SetLogger
// may race with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger installs the logger used by blit and its internal packages.
// Nothing is logged until it is called; passing nil reinstates the silent
// default. The swap is atomic, so SetLogger can run while other goroutines
// are logging.
//
// blit logs at [slog.LevelDebug] for per-frame diagnostics (upload sizes,
// dirty bounds) and [slog.LevelInfo] for lifecycle events such as device
// attachment.
//
// Example:
//
//	blit.SetLogger(slog.Default())
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gpu.SetLogger(l)
}

// Logger returns the logger most recently installed by SetLogger, or the
// silent default. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
