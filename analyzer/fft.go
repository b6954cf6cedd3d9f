// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package analyzer

import "math"

// fftComplex is a reference iterative radix-2 Cooley-Tukey FFT, computed
// in place over re/im (len(re) must be a power of two, and len(im) ==
// len(re)). No third-party FFT or DSP package appears anywhere in the
// retrieved corpus (see DESIGN.md), and spec §4.7 explicitly allows a
// "platform-optimized or reference" transform, so this is the one
// component built end-to-end on the standard library: bit-reversal
// permutation followed by the standard butterfly passes, using only
// math.Sin/math.Cos for the twiddle factors.
func fftComplex(re, im []float64) {
	n := len(re)
	if n <= 1 {
		return
	}

	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	for length := 2; length <= n; length <<= 1 {
		half := length / 2
		angle := -2 * math.Pi / float64(length)
		wr, wi := math.Cos(angle), math.Sin(angle)

		for start := 0; start < n; start += length {
			curWr, curWi := 1.0, 0.0
			for k := 0; k < half; k++ {
				uRe, uIm := re[start+k], im[start+k]
				lo, hi := start+k, start+k+half

				vRe := re[hi]*curWr - im[hi]*curWi
				vIm := re[hi]*curWi + im[hi]*curWr

				re[lo] = uRe + vRe
				im[lo] = uIm + vIm
				re[hi] = uRe - vRe
				im[hi] = uIm - vIm

				nextWr := curWr*wr - curWi*wi
				nextWi := curWr*wi + curWi*wr
				curWr, curWi = nextWr, nextWi
			}
		}
	}
}
