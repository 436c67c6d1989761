// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"log/slog"
	"sync/atomic"
)

var (
	discardLogger = slog.New(slog.DiscardHandler)
	loggerPtr     atomic.Pointer[slog.Logger]
)

func init() { loggerPtr.Store(discardLogger) }

// slogger returns the logger used by the mirror.
func slogger() *slog.Logger { return loggerPtr.Load() }

// SetLogger sets the mirror logger. nil silences it.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger
	}
	loggerPtr.Store(l)
}
