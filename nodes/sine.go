// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nodes

import (
	"math"

	"code.hybscloud.com/audiograph"
	"code.hybscloud.com/audiograph/block"
)

// DefaultAmplitude is the default sine amplitude as a fraction of full
// 16-bit scale (spec §4.6: "Amplitude is 50% of full 16-bit scale by
// default").
const DefaultAmplitude = 0.5

// Sine is a source node (spec §4.6): it ignores its input block (releasing
// it if non-nil), acquires a fresh block from its own pool, and fills it
// with a sine wave at the configured frequency. Phase advances
// continuously across calls, wrapped modulo 2π, so consecutive blocks
// form one unbroken waveform; Reset returns the phase to zero.
//
// Sine performs pool acquisition on every Step and is therefore unsafe to
// call from an ISR-equivalent callback context (spec §6) — only nodes
// that operate on a caller-supplied, stack-resident descriptor qualify
// for that use.
type Sine struct {
	pool       *block.Pool
	freqHz     float64
	sampleRate float64
	amplitude  float64
	phase      float64
}

// NewSine constructs a Sine generator drawing blocks from pool at the
// given frequency and sample rate, with DefaultAmplitude. Returns
// ErrInvalid if freqHz is not positive (spec §7 construction error
// taxonomy).
func NewSine(pool *block.Pool, freqHz, sampleRate float64) (*Sine, error) {
	if freqHz <= 0 {
		return nil, audiograph.ErrInvalid
	}
	return &Sine{
		pool:       pool,
		freqHz:     freqHz,
		sampleRate: sampleRate,
		amplitude:  DefaultAmplitude,
	}, nil
}

// SetAmplitude overrides the default amplitude fraction (clamped to
// [0,1] by the caller's judgment; out-of-range values are not rejected
// here since they only affect output scale, not correctness).
func (s *Sine) SetAmplitude(amplitude float64) {
	s.amplitude = amplitude
}

// Step implements node.Sequential.
func (s *Sine) Step(in block.Handle) block.Handle {
	if in != nil {
		in.Release()
	}

	h, err := s.pool.Acquire()
	if err != nil {
		return nil
	}

	samples := h.Samples()
	scale := s.amplitude * math.MaxInt16
	angularStep := 2 * math.Pi * s.freqHz / s.sampleRate

	for i := range samples {
		samples[i] = int16(scale * math.Sin(s.phase))
		s.phase += angularStep
	}
	s.phase = math.Mod(s.phase, 2*math.Pi)

	return h
}

// Reset returns the generator's phase to zero (spec §4.6: "After reset
// the phase returns to zero").
func (s *Sine) Reset() {
	s.phase = 0
}
