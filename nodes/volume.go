// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nodes

import (
	"math"

	"code.hybscloud.com/audiograph/block"
)

// Volume is a transform node (spec §4.6): it requires MakeWritable,
// multiplies every sample by a gain factor, and clamps the result to the
// signed 16-bit range.
type Volume struct {
	gain float64
}

// NewVolume constructs a Volume node with the given linear gain factor
// (1.0 is unity gain).
func NewVolume(gain float64) *Volume {
	return &Volume{gain: gain}
}

// SetGain updates the gain factor applied on subsequent steps.
func (v *Volume) SetGain(gain float64) {
	v.gain = gain
}

// Step implements node.Sequential.
func (v *Volume) Step(in block.Handle) block.Handle {
	if err := block.MakeWritable(&in); err != nil {
		in.Release()
		return nil
	}

	samples := in.Samples()
	for i, s := range samples {
		scaled := float64(s) * v.gain
		if scaled > math.MaxInt16 {
			scaled = math.MaxInt16
		} else if scaled < math.MinInt16 {
			scaled = math.MinInt16
		}
		samples[i] = int16(scaled)
	}
	return in
}

// Reset is a no-op: Volume carries no per-instance state beyond its gain.
func (v *Volume) Reset() {}
