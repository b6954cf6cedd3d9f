// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nodes

import (
	"math"
	"sync"

	"code.hybscloud.com/audiograph/block"
)

// DefaultSmoothing is the default exponential smoothing factor applied to
// both the peak and RMS estimates (spec §4.6: "a configurable factor in
// [0,1)").
const DefaultSmoothing = 0.9

// Levels is a point-in-time snapshot of Meter's smoothed readout.
type Levels struct {
	RMSDB    float64
	PeakDB   float64
	Clipping bool
}

// Meter is a pass-through node (spec §4.6, renamed from the spec's
// "Peak/RMS analyzer" to avoid confusion with the spectrum analyzer
// package): it computes per-block peak and RMS, exponentially smooths
// both, and exposes {rms_db, peak_db, clipping} under a lock. It never
// modifies the block it observes.
type Meter struct {
	mu        sync.Mutex
	smoothing float64
	peak      float64
	rms       float64
	levels    Levels
}

// NewMeter constructs a Meter with the given smoothing factor in [0,1).
func NewMeter(smoothing float64) *Meter {
	return &Meter{smoothing: smoothing}
}

// Step implements node.Sequential. It always returns in unmodified.
func (m *Meter) Step(in block.Handle) block.Handle {
	samples := in.Samples()

	var peak float64
	var sumSq float64
	clipping := false

	for _, s := range samples {
		mag := float64(abs16(s)) / math.MaxInt16
		if mag > peak {
			peak = mag
		}
		sumSq += float64(s) * float64(s)
		if s == math.MaxInt16 || s == math.MinInt16 {
			clipping = true
		}
	}

	rms := 0.0
	if len(samples) > 0 {
		rms = math.Sqrt(sumSq/float64(len(samples))) / math.MaxInt16
	}

	m.mu.Lock()
	a := m.smoothing
	m.peak = a*m.peak + (1-a)*peak
	m.rms = a*m.rms + (1-a)*rms
	m.levels = Levels{
		RMSDB:    linearToDB(m.rms),
		PeakDB:   linearToDB(m.peak),
		Clipping: clipping,
	}
	m.mu.Unlock()

	return in
}

// Levels returns a consistent snapshot of the meter's current readout.
func (m *Meter) Levels() Levels {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels
}

// Reset zeroes the meter's smoothed state.
func (m *Meter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.peak = 0
	m.rms = 0
	m.levels = Levels{RMSDB: floorDB, PeakDB: floorDB}
}
