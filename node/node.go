// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package node defines the uniform "process one step" contract shared by
// both execution models (spec §4): a concurrent flavor that pulls from its
// own input queue inside a dedicated worker loop, and a sequential flavor
// that is a pure function of one input block, driven by a channel strip's
// single worker.
//
// A concrete node (see package nodes) typically implements only one of
// these two interfaces, never both — the two execution models are
// disjoint, as spec §3 states for the underlying node record.
package node

import (
	"context"

	"code.hybscloud.com/audiograph/block"
	"code.hybscloud.com/audiograph/queue"
)

// Concurrent is a node driven by the concurrent engine: it owns exactly
// one input queue (and, for routing nodes like a splitter, a bounded list
// of output queues) and runs its Step in a loop inside its own worker. A
// call to Step is expected to Take from the node's input queue, produce
// zero or more output blocks, and dispose of them via PushOutput or
// Release — Step itself never returns a value, mirroring spec §4.3's
// step(self) -> ().
//
// Step must return promptly when ctx is done; the concurrent engine
// treats this as the node's only cooperative cancellation point beyond
// the queue Take it performs internally.
type Concurrent interface {
	Step(ctx context.Context)
	Reset()
}

// Sequential is a node driven by a channel strip or mixer: a pure
// step(in) -> out function with no queue of its own (spec §4.4). Step
// returns a nil Handle to signal that the block was dropped for this
// cycle (e.g. a gate below threshold, or a failed MakeWritable) — the
// strip must not retry the same input against this node; it propagates
// the drop and moves on to the next cycle (spec §9, Open Question 2).
//
// Sequential nodes never propagate errors back through the processing
// path (spec §7): any internal failure (most commonly pool exhaustion
// during MakeWritable) must be absorbed by releasing the input and
// returning nil.
type Sequential interface {
	Step(in block.Handle) block.Handle
	Reset()
}

// PushOutput implements spec §4.3's push_output(self, block): if out is
// non-nil, the block is Put on it; otherwise ownership is discarded via
// Release. A full output queue (Put returning iox.ErrWouldBlock) also
// releases the block rather than blocking the node's worker, since a
// concurrent node's only permitted suspension point is its own input
// queue's Take (spec §5).
func PushOutput(out *queue.Queue[block.Handle], h block.Handle) {
	if h == nil {
		return
	}
	if out == nil {
		h.Release()
		return
	}
	if err := out.Put(h); err != nil {
		h.Release()
	}
}
