// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package analyzer

import "math"

// WindowKind selects the analysis window applied before the FFT (spec
// §4.7).
type WindowKind int

const (
	Rectangular WindowKind = iota
	Hann
	Hamming
	Blackman
	FlatTop
)

// flatTop5Term are the standard five-term flat-top window coefficients.
var flatTop5Term = [5]float64{0.21557895, 0.41663158, 0.277263158, 0.083578947, 0.006947368}

// generateWindow computes n window coefficients for kind, then applies
// coherent-gain normalization so that the window preserves RMS power
// (spec §4.7: "multiply all coefficients by sqrt(N / Σw[i]²)").
func generateWindow(kind WindowKind, n int) []float64 {
	w := make([]float64, n)
	denom := float64(n - 1)
	if denom <= 0 {
		denom = 1
	}

	switch kind {
	case Hann:
		for i := range w {
			w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/denom)
		}
	case Hamming:
		for i := range w {
			w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/denom)
		}
	case Blackman:
		for i := range w {
			x := 2 * math.Pi * float64(i) / denom
			w[i] = 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
		}
	case FlatTop:
		a := flatTop5Term
		for i := range w {
			x := 2 * math.Pi * float64(i) / denom
			w[i] = a[0] - a[1]*math.Cos(x) + a[2]*math.Cos(2*x) - a[3]*math.Cos(3*x) + a[4]*math.Cos(4*x)
		}
	default: // Rectangular
		for i := range w {
			w[i] = 1
		}
	}

	normalizeCoherentGain(w)
	return w
}

// normalizeCoherentGain scales w in place so that Σw[i]² == len(w).
func normalizeCoherentGain(w []float64) {
	var sumSq float64
	for _, v := range w {
		sumSq += v * v
	}
	if sumSq == 0 {
		return
	}
	scale := math.Sqrt(float64(len(w)) / sumSq)
	for i := range w {
		w[i] *= scale
	}
}
