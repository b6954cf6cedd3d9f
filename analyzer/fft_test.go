// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package analyzer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFFTComplex_ImpulseProducesFlatSpectrum(t *testing.T) {
	const n = 64
	re := make([]float64, n)
	im := make([]float64, n)
	re[0] = 1

	fftComplex(re, im)

	for k := 0; k < n; k++ {
		mag := math.Sqrt(re[k]*re[k] + im[k]*im[k])
		assert.InDelta(t, 1.0, mag, 1e-9, "impulse FFT should be flat at bin %d", k)
	}
}

func TestFFTComplex_DCInputConcentratesAtBinZero(t *testing.T) {
	const n = 32
	re := make([]float64, n)
	im := make([]float64, n)
	for i := range re {
		re[i] = 1
	}

	fftComplex(re, im)

	assert.InDelta(t, float64(n), re[0], 1e-9, "DC energy should land entirely on bin 0")
	for k := 1; k < n; k++ {
		mag := math.Sqrt(re[k]*re[k] + im[k]*im[k])
		assert.InDelta(t, 0, mag, 1e-9, "non-DC bin %d should be ~0 for constant input", k)
	}
}

func TestFFTComplex_SinglePureTonePeaksAtExpectedBin(t *testing.T) {
	const n = 64
	const k0 = 5
	re := make([]float64, n)
	im := make([]float64, n)
	for i := 0; i < n; i++ {
		re[i] = math.Cos(2 * math.Pi * float64(k0) * float64(i) / float64(n))
	}

	fftComplex(re, im)

	peakBin := -1
	peakMag := 0.0
	for k := 0; k < n/2; k++ {
		mag := math.Sqrt(re[k]*re[k] + im[k]*im[k])
		if mag > peakMag {
			peakMag = mag
			peakBin = k
		}
	}
	if peakBin != k0 {
		t.Fatalf("expected peak at bin %d, got %d", k0, peakBin)
	}
}
