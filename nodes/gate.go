// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nodes

import (
	"math"

	"code.hybscloud.com/audiograph/block"
)

// Gate is a supplemented sequential transform, grounded on spec §4.6's
// own leaf-node enumeration rather than recovered original source: it
// drops the block outright when its per-block RMS falls below a
// configurable threshold, otherwise passes it through unmodified. A
// dropped block is never retried against the gate on a later cycle —
// this is the module's worked example of the "no retry on drop"
// invariant (spec §9, Open Question 2).
type Gate struct {
	thresholdDB float64
}

// NewGate constructs a Gate that drops any block whose RMS level is
// below thresholdDB.
func NewGate(thresholdDB float64) *Gate {
	return &Gate{thresholdDB: thresholdDB}
}

// Step implements node.Sequential.
func (g *Gate) Step(in block.Handle) block.Handle {
	samples := in.Samples()

	var sumSq float64
	for _, s := range samples {
		sumSq += float64(s) * float64(s)
	}
	rms := 0.0
	if len(samples) > 0 {
		rms = math.Sqrt(sumSq/float64(len(samples))) / math.MaxInt16
	}

	if linearToDB(rms) < g.thresholdDB {
		in.Release()
		return nil
	}
	return in
}

// Reset is a no-op: Gate carries no per-instance state beyond its
// threshold.
func (g *Gate) Reset() {}
