// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nodes_test

import (
	"math"
	"testing"

	"code.hybscloud.com/audiograph/nodes"
)

func TestSumSaturate_AddsAndClamps(t *testing.T) {
	dst := []int16{100, math.MaxInt16, math.MinInt16}
	src := []int16{50, 1, -1}

	nodes.SumSaturate(dst, src)

	want := []int16{150, math.MaxInt16, math.MinInt16}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("index %d: want %d, got %d", i, want[i], dst[i])
		}
	}
}

func TestSumSaturate_ShorterSliceBounds(t *testing.T) {
	dst := []int16{1, 2, 3}
	src := []int16{10, 20}

	nodes.SumSaturate(dst, src)

	if dst[0] != 11 || dst[1] != 22 || dst[2] != 3 {
		t.Fatalf("unexpected result: %v", dst)
	}
}
