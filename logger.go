package domo

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// loggerPtr stores the active logger. SetLogger may be called from any
// goroutine, the render loop only reads it.
var loggerPtr atomic.Pointer[zap.Logger]

func init() {
	loggerPtr.Store(zap.NewNop())
}

// SetLogger configures the logger used by domo and its sub-packages.
// By default domo produces no log output. Pass nil to restore the silent
// default.
//
// Levels used:
//   - Debug: batch creation, quad migration, per-frame stats in debug mode
//   - Info: asset loads, scene start
//   - Warn: missing atlas regions
//   - Error: shader compile and link failures
//
// Example:
//
//	l, _ := zap.NewDevelopment()
//	domo.SetLogger(l)
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages (glgpu, level) call this to
// share the same configuration.
func Logger() *zap.Logger {
	return loggerPtr.Load()
}
