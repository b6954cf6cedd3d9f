// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nodes

import "math"

// SumSaturate adds src into dst sample-wise, clamping each result to the
// int16 range instead of wrapping. This is the routing primitive behind
// strip.Mixer's lock-step accumulation (spec §4.5): every channel strip's
// output is folded into the mixer's accumulator with this function, so a
// loud combination of channels clips cleanly instead of wrapping into
// noise. dst and src must be the same length; SumSaturate sums over the
// shorter of the two otherwise.
func SumSaturate(dst, src []int16) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		sum := int32(dst[i]) + int32(src[i])
		if sum > math.MaxInt16 {
			sum = math.MaxInt16
		} else if sum < math.MinInt16 {
			sum = math.MinInt16
		}
		dst[i] = int16(sum)
	}
}
