// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package strip implements the sequential execution model (spec §4.4,
// §4.5): a channel strip walks an ordered, fixed array of sequential
// nodes inside a single worker with no inter-node context switch, and a
// mixer composes several strips plus an optional master strip in
// lock-step. This is the framework's recommended model for real-time
// paths: it eliminates the per-edge queue handoff the concurrent model
// pays for between nodes that have no independent rate or blocking need.
package strip

import (
	"context"
	"sync"

	"code.hybscloud.com/audiograph"
	"code.hybscloud.com/audiograph/block"
	"code.hybscloud.com/audiograph/engine"
	"code.hybscloud.com/audiograph/node"
	"code.hybscloud.com/audiograph/platform"
	"code.hybscloud.com/audiograph/queue"
)

// MaxNodes is the default bound on a Strip's node list (spec §6:
// STRIP_MAX_NODES).
const MaxNodes = 16

// Priority is the same advisory scheduling metadata as engine.Priority.
type Priority = engine.Priority

// Strip is an ordered, fixed-capacity chain of sequential nodes processed
// by a single worker (spec §3, §4.4). The node array is frozen once
// Start has been called; AddNode after that point fails with
// audiograph.ErrInvalid rather than mutating a running strip.
type Strip struct {
	name  string
	nodes []node.Sequential

	in  *queue.Queue[block.Handle]
	out *queue.Queue[block.Handle]

	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	logger platform.Logger
}

// New constructs an empty Strip named name with an input queue of the
// given capacity. The output queue is unset (a processed block is
// released rather than forwarded) until SetOutput is called.
func New(name string, inputCapacity int, logger platform.Logger) *Strip {
	return &Strip{
		name:   name,
		in:     queue.New[block.Handle](inputCapacity),
		logger: logger,
	}
}

// Name returns the strip's debug name.
func (s *Strip) Name() string { return s.name }

// SetOutput attaches an output queue. A nil output (the default) means a
// processed block is released instead of forwarded.
func (s *Strip) SetOutput(out *queue.Queue[block.Handle]) {
	s.out = out
}

// AddNode appends n to the strip's processing chain. Returns
// audiograph.ErrFull once MaxNodes is reached, and audiograph.ErrInvalid
// if the strip's worker has already been started — the array is frozen
// while the worker runs (spec §3).
func (s *Strip) AddNode(n node.Sequential) error {
	if s.started {
		return audiograph.ErrInvalid
	}
	if len(s.nodes) >= MaxNodes {
		return audiograph.ErrFull
	}
	s.nodes = append(s.nodes, n)
	return nil
}

// Clear empties the node list. Valid only before Start.
func (s *Strip) Clear() error {
	if s.started {
		return audiograph.ErrInvalid
	}
	s.nodes = s.nodes[:0]
	return nil
}

// Len reports the number of nodes currently in the strip.
func (s *Strip) Len() int { return len(s.nodes) }

// ProcessBlock is the sequential kernel (spec §4.4): it visits every node
// in insertion order, feeding each node's output to the next. If any node
// returns nil (the block was dropped — e.g. a gate, or a failed
// MakeWritable), ProcessBlock returns nil immediately; the dropped block
// is not retried against the same node on a later cycle (spec §9, Open
// Question 2). Node order is deterministic and no context switch occurs
// between nodes since they share this single call stack.
func (s *Strip) ProcessBlock(in block.Handle) block.Handle {
	cur := in
	for _, n := range s.nodes {
		cur = n.Step(cur)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// PushInput enqueues a block from an external producer (spec §4.4). It is
// non-blocking; a full input queue causes the block to be released
// rather than block the caller.
func (s *Strip) PushInput(h block.Handle) {
	node.PushOutput(s.in, h)
}

// Start launches the strip's worker: it loops taking from the input
// queue, running ProcessBlock, and pushing the result to the output
// queue (or releasing it if the strip has none or the node chain
// dropped the block). The node list is frozen from this point on,
// including after Stop. The worker runs until ctx is cancelled or Stop is
// called.
func (s *Strip) Start(ctx context.Context, priority Priority) {
	s.started = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Debug().Str("strip", s.name).Int("priority", int(priority)).Msg("strip worker started")
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			h, err := s.in.TakeContext(ctx)
			if err != nil {
				continue
			}
			out := s.ProcessBlock(h)
			node.PushOutput(s.out, out)
		}
	}()
}

// Stop cancels the strip's worker and waits for it to return. Stop on a
// strip that was never started is a no-op.
func (s *Strip) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
}
