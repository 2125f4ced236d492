package zaplog

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger atomic.Pointer[zap.Logger]
	nop    = zap.NewNop()
)

// Logger returns the process-wide logger, or a no-op logger if none has been
// set.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nop
}

func SetLogger(l *zap.Logger) { logger.Store(l) }

// Or returns l if it is non-nil and the process-wide logger otherwise.
func Or(l *zap.Logger) *zap.Logger {
	if l != nil {
		return l
	}
	return Logger()
}
