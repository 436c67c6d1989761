package motion

import (
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/motion/gpu"
)

var (
	silent    = slog.New(slog.DiscardHandler)
	activeLog atomic.Pointer[slog.Logger]
)

func init() { activeLog.Store(silent) }

// SetLogger routes motion's structured logs, including the GPU mirror's,
// to l. nil restores the silent default.
//
// Levels:
//   - [slog.LevelDebug]: position cache builds, buffer growth
//   - [slog.LevelInfo]: adapter selection, pipeline creation
//   - [slog.LevelWarn]: CPU fallback, curves approximated on the GPU,
//     readback timeouts, failing time handlers
//
// Example:
//
//	motion.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	activeLog.Store(l)
	gpu.SetLogger(l)
}

// Logger returns the logger set by SetLogger. Safe for concurrent use.
func Logger() *slog.Logger {
	return activeLog.Load()
}
