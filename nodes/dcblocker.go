// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nodes

import (
	"math"

	"code.hybscloud.com/audiograph/block"
)

// DefaultDCBlockerPole is a typical one-pole coefficient for a DC
// blocker at audio sample rates (close to but below 1.0 so the pole
// sits just inside the unit circle).
const DefaultDCBlockerPole = 0.995

// DCBlocker is a supplemented sequential transform (grounded on spec
// §4.6's enumeration, not recovered original source): a minimal one-pole
// high-pass IIR filter, y[n] = x[n] - x[n-1] + a*y[n-1], that removes DC
// offset while retaining one sample of state across blocks. It requires
// MakeWritable and demonstrates a node carrying persistent per-instance
// state beyond the block it processes, the same pattern the spectrum
// analyzer exercises at larger scale.
type DCBlocker struct {
	pole    float64
	prevIn  float64
	prevOut float64
}

// NewDCBlocker constructs a DCBlocker with the given pole coefficient.
func NewDCBlocker(pole float64) *DCBlocker {
	return &DCBlocker{pole: pole}
}

// Step implements node.Sequential.
func (f *DCBlocker) Step(in block.Handle) block.Handle {
	if err := block.MakeWritable(&in); err != nil {
		in.Release()
		return nil
	}

	samples := in.Samples()
	for i, x := range samples {
		xf := float64(x)
		yf := xf - f.prevIn + f.pole*f.prevOut
		f.prevIn = xf
		f.prevOut = yf

		if yf > math.MaxInt16 {
			yf = math.MaxInt16
		} else if yf < math.MinInt16 {
			yf = math.MinInt16
		}
		samples[i] = int16(yf)
	}
	return in
}

// Reset clears the filter's retained sample state.
func (f *DCBlocker) Reset() {
	f.prevIn = 0
	f.prevOut = 0
}
