// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package engine_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"code.hybscloud.com/audiograph/engine"
	"code.hybscloud.com/audiograph/platform"
)

type countingNode struct {
	calls atomic.Int64
}

func (n *countingNode) Step(ctx context.Context) {
	n.calls.Add(1)
	select {
	case <-ctx.Done():
	case <-time.After(time.Millisecond):
	}
}

func (n *countingNode) Reset() {}

func TestWorker_LoopsUntilAborted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := engine.NewWorker(ctx)

	n := &countingNode{}
	w.Start(n, engine.Options{Priority: engine.DefaultPriority, Logger: platform.NopLogger()})

	time.Sleep(10 * time.Millisecond)
	cancel()

	if err := w.Wait(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if n.calls.Load() < 2 {
		t.Fatalf("expected the node loop to have run more than once, got %d calls", n.calls.Load())
	}
}
