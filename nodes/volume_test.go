// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nodes_test

import (
	"math"
	"testing"

	"code.hybscloud.com/audiograph/block"
	"code.hybscloud.com/audiograph/nodes"
)

func TestVolume_ScalesAndClamps(t *testing.T) {
	pool := block.NewPool(4)
	h, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	h.SetLen(3)
	copy(h.Samples(), []int16{1000, -1000, 20000})

	v := nodes.NewVolume(2.0)
	out := v.Step(h)
	if out == nil {
		t.Fatal("expected non-nil output")
	}
	defer out.Release()

	want := []int16{2000, -2000, math.MaxInt16}
	got := out.Samples()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: want %d, got %d", i, want[i], got[i])
		}
	}
}

func TestVolume_EscalatesSharedBlock(t *testing.T) {
	pool := block.NewPool(4)
	h, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	h.SetLen(1)
	h.Samples()[0] = 100
	h.Retain() // refcount 2: simulate a shared handle

	shared := h
	v := nodes.NewVolume(3.0)
	out := v.Step(h)
	defer out.Release()
	defer shared.Release()

	if out == shared {
		t.Fatal("expected MakeWritable to escalate to a distinct handle")
	}
	if shared.Samples()[0] != 100 {
		t.Fatalf("expected original block unmodified, got %d", shared.Samples()[0])
	}
	if out.Samples()[0] != 300 {
		t.Fatalf("expected scaled copy, got %d", out.Samples()[0])
	}
}
