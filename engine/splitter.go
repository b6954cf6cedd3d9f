// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package engine

import (
	"context"

	"code.hybscloud.com/audiograph"
	"code.hybscloud.com/audiograph/block"
	"code.hybscloud.com/audiograph/platform"
	"code.hybscloud.com/audiograph/queue"
)

// MaxOuts is the default bound on a Splitter's fan-out width (spec §6:
// SPLITTER_MAX_OUTS).
const MaxOuts = 16

// Splitter is the framework's 1-in/N-out routing primitive (spec §4.3): it
// shares a single incoming block across every output queue without
// copying, by retaining N-1 additional references before any Put. This is
// what lets downstream nodes diverge (one mutates via MakeWritable, the
// rest stay read-only) while only ever materializing a copy on the
// mutating path — the "copy storm" spec §4.3 warns pool capacity must be
// sized for.
type Splitter struct {
	in     *queue.Queue[block.Handle]
	outs   []*queue.Queue[block.Handle]
	logger platform.Logger
}

// NewSplitter constructs a Splitter reading from in and fanning out to
// outs. Fails with ErrInvalid if outs is empty or exceeds MaxOuts.
func NewSplitter(in *queue.Queue[block.Handle], outs []*queue.Queue[block.Handle], logger platform.Logger) (*Splitter, error) {
	if len(outs) == 0 || len(outs) > MaxOuts {
		return nil, audiograph.ErrInvalid
	}
	cp := make([]*queue.Queue[block.Handle], len(outs))
	copy(cp, outs)
	return &Splitter{in: in, outs: cp, logger: logger}, nil
}

// Step implements node.Concurrent. It takes one block, retains it N-1
// additional times (N = len(outs)) before any Put so that no consumer can
// ever observe the block already freed by a racing sibling, then puts the
// shared handle on every output. If an individual Put fails (its queue is
// momentarily full), the corresponding reference is released instead of
// blocking the splitter's worker — that consumer simply misses this
// block, observable downstream as a dropped cycle rather than a stall.
func (s *Splitter) Step(ctx context.Context) {
	h, err := s.in.TakeContext(ctx)
	if err != nil {
		return
	}

	n := len(s.outs)
	for i := 0; i < n-1; i++ {
		h.Retain()
	}

	for _, out := range s.outs {
		if err := out.Put(h); err != nil {
			s.logger.Debug().Msg("splitter output full, dropping reference")
			h.Release()
		}
	}
}

// Reset is a no-op: Splitter holds no per-instance state beyond its
// fixed queue references.
func (s *Splitter) Reset() {}
