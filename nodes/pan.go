// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nodes

import (
	"math"

	"code.hybscloud.com/audiograph/block"
)

// Pan is a supplemented sequential transform (spec §4.6's enumeration,
// not recovered original source): a constant-power pan law degraded to a
// single gain stage, since the framework's block model carries one
// channel of samples and true stereo panning needs a second. Pan treats
// its block as the channel that position -1 points fully toward: at
// position -1 the gain is unity, at position 0 it is the constant-power
// center value 1/sqrt(2), and at position 1 it falls to zero, matching
// the left-channel leg of a real two-channel constant-power pan law.
// This is intentionally a small, honestly limited stand-in, not a full
// panner.
type Pan struct {
	gain float64
}

// NewPan constructs a Pan node at the given position in [-1, 1].
func NewPan(position float64) *Pan {
	angle := (position + 1) * math.Pi / 4
	return &Pan{gain: math.Cos(angle)}
}

// Step implements node.Sequential.
func (p *Pan) Step(in block.Handle) block.Handle {
	if err := block.MakeWritable(&in); err != nil {
		in.Release()
		return nil
	}

	samples := in.Samples()
	for i, s := range samples {
		scaled := float64(s) * p.gain
		if scaled > math.MaxInt16 {
			scaled = math.MaxInt16
		} else if scaled < math.MinInt16 {
			scaled = math.MinInt16
		}
		samples[i] = int16(scaled)
	}
	return in
}

// Reset is a no-op: Pan carries no per-instance state beyond its gain.
func (p *Pan) Reset() {}
