// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateWindow_CoherentGainNormalization(t *testing.T) {
	kinds := []WindowKind{Rectangular, Hann, Hamming, Blackman, FlatTop}
	for _, kind := range kinds {
		w := generateWindow(kind, 256)
		var sumSq float64
		for _, v := range w {
			sumSq += v * v
		}
		assert.InDelta(t, float64(len(w)), sumSq, 1e-6, "window kind %d: Σw² should equal N after normalization", kind)
	}
}

func TestGenerateWindow_RectangularIsFlat(t *testing.T) {
	w := generateWindow(Rectangular, 64)
	for i, v := range w {
		assert.InDelta(t, 1.0, v, 1e-9, "rectangular window should be flat at index %d", i)
	}
}

func TestGenerateWindow_HannTapersToZeroAtEdges(t *testing.T) {
	w := generateWindow(Hann, 128)
	// Before normalization Hann tapers to 0 at both edges; normalization
	// rescales uniformly, so the edges should remain the window's
	// smallest values.
	for i := 1; i < len(w)-1; i++ {
		if w[i] < w[0] || w[i] < w[len(w)-1] {
			t.Fatalf("expected edges to be the minimum, index %d broke the taper", i)
		}
	}
}
