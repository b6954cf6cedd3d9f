// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nodes

import (
	"code.hybscloud.com/audiograph/block"
	"code.hybscloud.com/audiograph/platform"
)

// LogSink is a terminal node (spec §4.6): it consumes a block, reports
// its peak sample and refcount, and releases it. Step always returns
// nil, terminating the chain it sits at the end of.
type LogSink struct {
	logger platform.Logger
}

// NewLogSink constructs a LogSink reporting through logger.
func NewLogSink(logger platform.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Step implements node.Sequential.
func (l *LogSink) Step(in block.Handle) block.Handle {
	if in == nil {
		return nil
	}

	var peak int32
	for _, s := range in.Samples() {
		if v := abs16(s); v > peak {
			peak = v
		}
	}

	l.logger.Debug().
		Int32("peak", peak).
		Int32("refcount", in.Refcount()).
		Msg("log sink")

	in.Release()
	return nil
}

// Reset is a no-op: LogSink carries no per-instance state.
func (l *LogSink) Reset() {}
