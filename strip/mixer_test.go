// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package strip_test

import (
	"testing"

	"code.hybscloud.com/audiograph/block"
	"code.hybscloud.com/audiograph/platform"
	"code.hybscloud.com/audiograph/strip"
)

type passthrough struct{}

func (passthrough) Step(in block.Handle) block.Handle { return in }
func (passthrough) Reset()                            {}

func TestMixer_SumsChannelsSampleWise(t *testing.T) {
	pool := block.NewPool(16)

	ch1 := strip.New("ch1", 1, platform.NopLogger())
	_ = ch1.AddNode(passthrough{})
	ch2 := strip.New("ch2", 1, platform.NopLogger())
	_ = ch2.AddNode(doubler{})

	m := strip.NewMixer(pool, 1, platform.NopLogger())
	if err := m.AddChannel(ch1); err != nil {
		t.Fatalf("AddChannel: %v", err)
	}
	if err := m.AddChannel(ch2); err != nil {
		t.Fatalf("AddChannel: %v", err)
	}

	in, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	in.SetLen(3)
	copy(in.Samples(), []int16{10, 20, 30})

	out := m.ProcessBlock(in)
	if out == nil {
		t.Fatal("expected non-nil mix output")
	}
	// ch1 passes through (10,20,30); ch2 doubles (20,40,60); sum = (30,60,90).
	want := []int16{30, 60, 90}
	got := out.Samples()[:out.Len()]
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: want %d, got %d", i, want[i], got[i])
		}
	}
	out.Release()
}

func TestMixer_SilentWhenChannelAcquireFails(t *testing.T) {
	// Capacity 2: the input block and the mixer's own accumulator consume
	// both slots, so every channel's per-cycle acquire must fail and
	// contribute silence rather than aborting the mix.
	pool := block.NewPool(2)

	ch := strip.New("ch", 1, platform.NopLogger())
	_ = ch.AddNode(passthrough{})

	m := strip.NewMixer(pool, 1, platform.NopLogger())
	_ = m.AddChannel(ch)

	in, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	in.Release() // return it so ProcessBlock's own acquire can succeed

	in2, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	in2.SetLen(2)
	copy(in2.Samples(), []int16{100, 200})

	out := m.ProcessBlock(in2)
	if out == nil {
		t.Fatal("expected non-nil accumulator even with a silent channel")
	}
	for i, v := range out.Samples()[:out.Len()] {
		if v != 0 {
			t.Fatalf("sample %d: expected silence, got %d", i, v)
		}
	}
	out.Release()
}

func TestMixer_MasterStageRunsAfterSummation(t *testing.T) {
	pool := block.NewPool(16)

	ch := strip.New("ch", 1, platform.NopLogger())
	_ = ch.AddNode(passthrough{})

	master := strip.New("master", 1, platform.NopLogger())
	_ = master.AddNode(doubler{})

	m := strip.NewMixer(pool, 1, platform.NopLogger())
	_ = m.AddChannel(ch)
	m.SetMaster(master)

	in, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	in.SetLen(2)
	copy(in.Samples(), []int16{5, 7})

	out := m.ProcessBlock(in)
	if out == nil {
		t.Fatal("expected non-nil output")
	}
	want := []int16{10, 14}
	got := out.Samples()[:out.Len()]
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: want %d, got %d", i, want[i], got[i])
		}
	}
	out.Release()
}
