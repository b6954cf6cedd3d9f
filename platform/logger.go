// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package platform holds the thin, swappable capabilities that the rest of
// the module is built against instead of reaching for process-global state:
// a logger and a clock. On the target embedded kernel these shims would be
// replaced with the kernel's own logging and tick-counter primitives (see
// spec.md §9's note on "global logging / module-scoped loggers"); on a
// standard Go runtime they are backed by real libraries so the tree compiles
// and runs end-to-end.
package platform

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the logging capability injected at construction by every node,
// engine and strip in this module. No package holds a package-level logger;
// callers that don't care can use NopLogger.
type Logger = zerolog.Logger

// NopLogger returns a Logger that discards everything written to it. Safe
// as a zero-value substitute wherever a caller does not want to wire up
// structured logging.
func NopLogger() Logger {
	return zerolog.New(io.Discard)
}

// NewLogger returns a Logger writing leveled, structured events to w.
func NewLogger(w io.Writer) Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
