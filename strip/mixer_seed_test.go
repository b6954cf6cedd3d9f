// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package strip_test

import (
	"testing"

	"code.hybscloud.com/audiograph/block"
	"code.hybscloud.com/audiograph/nodes"
	"code.hybscloud.com/audiograph/platform"
	"code.hybscloud.com/audiograph/strip"
)

// TestMixer_SilenceAndSineSeedScenario is the module's worked example of
// a two-channel mix: channel 1 is silence, channel 2 is a 440Hz sine at
// 25% volume, and the master stage applies 80% volume. Expected peak of
// the mixed block is approximately INT16_MAX * 0.5 * 0.25 * 0.80 ≈ 3276,
// within 10%.
func TestMixer_SilenceAndSineSeedScenario(t *testing.T) {
	const sampleRate = 48000.0
	pool := block.NewPool(16)

	silentChannel := strip.New("silence", 1, platform.NopLogger())
	// no nodes: passes the (silent) per-channel copy through unmodified

	sineChannel := strip.New("sine440", 1, platform.NopLogger())
	sine, err := nodes.NewSine(pool, 440, sampleRate)
	if err != nil {
		t.Fatalf("NewSine: %v", err)
	}
	_ = sineChannel.AddNode(sine)
	_ = sineChannel.AddNode(nodes.NewVolume(0.25))

	master := strip.New("master", 1, platform.NopLogger())
	_ = master.AddNode(nodes.NewVolume(0.8))

	m := strip.NewMixer(pool, 1, platform.NopLogger())
	_ = m.AddChannel(silentChannel)
	_ = m.AddChannel(sineChannel)
	m.SetMaster(master)

	in, err := pool.Acquire() // zeroed: silence
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	out := m.ProcessBlock(in)
	if out == nil {
		t.Fatal("expected non-nil mixed output")
	}
	defer out.Release()

	var peak int
	for _, s := range out.Samples()[:out.Len()] {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}

	const want = 3276
	const tolerance = 0.10
	lo := int(float64(want) * (1 - tolerance))
	hi := int(float64(want) * (1 + tolerance))
	if peak < lo || peak > hi {
		t.Fatalf("expected peak within [%d, %d], got %d", lo, hi, peak)
	}
}
