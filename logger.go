// Package graphite is a declarative render graph backend for WebGPU. It turns
// pipeline, pass, and resource descriptors into concrete GPU objects, caches
// them across frames, and drives per-frame command submission through a
// single-threaded executor.
package graphite

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so SetLogger can be
// called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for graphite and all its sub-packages.
// By default graphite produces no log output. Pass nil to restore the
// silent default.
//
// Levels used:
//   - [slog.LevelDebug]: cache misses, pipeline and bind group builds
//   - [slog.LevelInfo]: lifecycle events (surface configured, device acquired)
//   - [slog.LevelWarn]: recoverable gaps (placeholder uniform buffer created,
//     frame acquisition retried)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages call this to share the same
// logger configuration without introducing import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
