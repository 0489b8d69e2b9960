package sccl

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/sccl/layout"
)

// nopHandler is a slog.Handler that discards all log records.
// Enabled reports false for every level, so log calls cost a single check.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var current atomic.Pointer[slog.Logger]

func init() { current.Store(newNopLogger()) }

// SetLogger routes sccl diagnostics to l. sccl is silent until this is
// called; SetLogger(nil) makes it silent again. The logger also reaches the
// layout compiler, and every device handed to CreateShader afterwards that
// has a SetLogger(*slog.Logger) method.
//
// What is logged at each level:
//   - [slog.LevelDebug]: per-group layouts with their IDs, pool sizing
//   - [slog.LevelInfo]: a shader was created or destroyed
//   - [slog.LevelWarn]: construction failed and partial objects are released
//   - [slog.LevelError]: an undeclared buffer kind reached the compiler,
//     right before it panics
//
// SetLogger may be called from any goroutine.
//
//	sccl.SetLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	current.Store(l)
	layout.SetLogger(l)
}

// Logger returns the logger set with SetLogger, or a discarding logger.
func Logger() *slog.Logger { return current.Load() }

// loggerSetter is implemented by devices that log.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

func propagateLogger(dev any, l *slog.Logger) {
	if ls, ok := dev.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}
