// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package engine implements the concurrent execution model (spec §4.3):
// one goroutine per node, each running the node's Step in a loop, with
// edges expressed as queue.Queue values and fan-out handled by Splitter.
//
// "External abort" (spec §5) is expressed with context.Context
// cancellation; a Worker supervises its nodes with
// golang.org/x/sync/errgroup so the first node failure (or ctx
// cancellation) is observable to the caller via Wait.
package engine

import (
	"context"

	"code.hybscloud.com/audiograph/node"
	"code.hybscloud.com/audiograph/platform"
	"golang.org/x/sync/errgroup"
)

// Priority is advisory scheduling metadata carried through to a future
// host-kernel scheduler shim (spec §6: WORKER_PRIORITY_DEFAULT). The Go
// runtime has no per-goroutine priority knob, so on this runtime Priority
// only affects logging/introspection.
type Priority int

// DefaultPriority is used when Options.Priority is left at its zero value.
const DefaultPriority Priority = 0

// Options configures a single worker loop launched by Worker.Start.
type Options struct {
	Priority Priority
	Logger   platform.Logger
}

// Worker supervises a set of concurrent-node loops. Each node started on a
// Worker runs in its own goroutine until the Worker's context is
// cancelled (the "external abort" of spec §5) or the node's Step panics,
// whichever happens first; the loop itself never returns on its own,
// matching spec §4.3's "the loop never terminates until the worker is
// aborted externally."
type Worker struct {
	group *errgroup.Group
	ctx   context.Context
}

// NewWorker creates a Worker whose lifetime is bound to ctx: cancelling
// ctx aborts every node loop started on this Worker. Each node started on
// the Worker logs through its own Options.Logger (spec §5: no package-level
// logger), so Worker itself carries no logger of its own.
func NewWorker(ctx context.Context) *Worker {
	g, gctx := errgroup.WithContext(ctx)
	return &Worker{group: g, ctx: gctx}
}

// Start launches n's Step loop. The loop calls n.Step(ctx) repeatedly
// until the Worker's context is done, per spec §4.3: "the node is
// expected to take from its input queue, produce output block(s), and
// either put them on its output(s) or release them."
func (w *Worker) Start(n node.Concurrent, opts Options) {
	logger := opts.Logger
	w.group.Go(func() error {
		logger.Debug().Int("priority", int(opts.Priority)).Msg("node worker started")
		for {
			select {
			case <-w.ctx.Done():
				logger.Debug().Msg("node worker aborted")
				return w.ctx.Err()
			default:
			}
			n.Step(w.ctx)
		}
	})
}

// Wait blocks until every worker started on this Worker has returned and
// reports the first non-nil error encountered, or the context's
// cancellation error if the Worker was aborted cleanly.
func (w *Worker) Wait() error {
	return w.group.Wait()
}
