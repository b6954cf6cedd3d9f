// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nodes_test

import (
	"testing"

	"code.hybscloud.com/audiograph/block"
	"code.hybscloud.com/audiograph/nodes"
)

func TestGate_DropsBelowThreshold(t *testing.T) {
	pool := block.NewPool(4)
	h, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	h.SetLen(4) // silence, zeroed by Acquire

	g := nodes.NewGate(-40)
	out := g.Step(h)
	if out != nil {
		t.Fatal("expected silence to be dropped")
	}
}

func TestGate_PassesAboveThreshold(t *testing.T) {
	pool := block.NewPool(4)
	h, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	h.SetLen(4)
	copy(h.Samples(), []int16{20000, -20000, 20000, -20000})

	g := nodes.NewGate(-40)
	out := g.Step(h)
	if out == nil {
		t.Fatal("expected loud block to pass through")
	}
	out.Release()
}

func TestGate_DroppedBlockIsNotRetried(t *testing.T) {
	pool := block.NewPool(4)
	h, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	h.SetLen(4)

	g := nodes.NewGate(-40)
	if out := g.Step(h); out != nil {
		t.Fatal("expected drop")
	}

	// The pool must have reclaimed the block rather than leaving it
	// available for the gate to somehow hand back on a later call; there
	// is no retry path in this API at all, by construction.
	stats := pool.Stats()
	if stats.FreeDescriptors != pool.Cap() {
		t.Fatalf("expected dropped block released back to pool, stats=%+v", stats)
	}
}
