package gpu

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record without formatting it.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// loggerPtr holds the package logger behind an atomic pointer so that
// SetLogger can run concurrently with logging.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := slog.New(nopHandler{})
	loggerPtr.Store(l)
}

// slogger is the single access point for logging inside internal/gpu.
func slogger() *slog.Logger { return loggerPtr.Load() }

// SetLogger replaces the package logger; blit.SetLogger calls it to share
// the application logger. Nil reinstates the silent default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}
