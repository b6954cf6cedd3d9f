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

func TestMeter_PassesThroughAndDetectsClipping(t *testing.T) {
	pool := block.NewPool(4)
	h, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	h.SetLen(2)
	copy(h.Samples(), []int16{math.MaxInt16, 0})

	m := nodes.NewMeter(0) // no smoothing: levels reflect this block exactly
	out := m.Step(h)
	defer out.Release()

	if out != h {
		t.Fatal("expected Meter to pass the same handle through unmodified")
	}
	levels := m.Levels()
	if !levels.Clipping {
		t.Fatal("expected clipping to be detected")
	}
	if levels.PeakDB < -0.1 {
		t.Fatalf("expected near-0dB peak, got %v", levels.PeakDB)
	}
}

func TestMeter_ReportsSilenceAtFloor(t *testing.T) {
	pool := block.NewPool(4)
	h, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	h.SetLen(4) // zeroed by Acquire

	m := nodes.NewMeter(0)
	out := m.Step(h)
	defer out.Release()

	levels := m.Levels()
	if levels.Clipping {
		t.Fatal("expected no clipping on silence")
	}
	if levels.RMSDB != -120.0 {
		t.Fatalf("expected RMS at floor, got %v", levels.RMSDB)
	}
}

func TestMeter_Reset(t *testing.T) {
	m := nodes.NewMeter(nodes.DefaultSmoothing)
	m.Reset()
	levels := m.Levels()
	if levels.RMSDB != -120.0 || levels.PeakDB != -120.0 {
		t.Fatalf("expected floor levels after reset, got %+v", levels)
	}
}
