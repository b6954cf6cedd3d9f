// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package strip

import (
	"context"
	"sync"

	"code.hybscloud.com/audiograph"
	"code.hybscloud.com/audiograph/block"
	"code.hybscloud.com/audiograph/node"
	"code.hybscloud.com/audiograph/nodes"
	"code.hybscloud.com/audiograph/platform"
	"code.hybscloud.com/audiograph/queue"
)

// MaxChannels is the default bound on a Mixer's channel list (spec §6:
// MIXER_MAX_CHANNELS).
const MaxChannels = 16

// Mixer composes several channel strips and an optional master strip in
// lock-step (spec §4.5): every iteration, the same input block index is
// copied out to each channel, each channel strip processes its copy
// independently, and the results are saturating-summed into a single
// accumulator before the master strip runs. A Mixer exclusively drives
// its channels' ProcessBlock directly rather than through their own
// Start/Stop workers — the channels attached to a Mixer must not also be
// started independently.
type Mixer struct {
	pool     *block.Pool
	channels []*Strip
	master   *Strip

	in  *queue.Queue[block.Handle]
	out *queue.Queue[block.Handle]

	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger platform.Logger
}

// NewMixer constructs an empty Mixer drawing per-channel working copies
// from pool.
func NewMixer(pool *block.Pool, inputCapacity int, logger platform.Logger) *Mixer {
	return &Mixer{
		pool:   pool,
		in:     queue.New[block.Handle](inputCapacity),
		logger: logger,
	}
}

// SetOutput attaches an output queue for the mixer's own worker loop.
func (m *Mixer) SetOutput(out *queue.Queue[block.Handle]) {
	m.out = out
}

// AddChannel attaches a channel strip. Returns audiograph.ErrFull once
// MaxChannels is reached.
func (m *Mixer) AddChannel(s *Strip) error {
	if len(m.channels) >= MaxChannels {
		return audiograph.ErrFull
	}
	m.channels = append(m.channels, s)
	return nil
}

// SetMaster attaches the optional master strip run after channel
// summation (spec §4.5). A nil master (the default) means the summed
// accumulator is returned unprocessed.
func (m *Mixer) SetMaster(s *Strip) {
	m.master = s
}

// ProcessBlock implements the mixer's lock-step iteration (spec §4.5):
//
//  1. Acquire an accumulator block; on failure, release in and return nil
//     (the whole mixer cycle is silent, not a partial mix).
//  2. For each channel, acquire a working copy of in, run it through the
//     channel's ProcessBlock, and saturating-sum the result into the
//     accumulator. A channel whose acquire fails, or whose node chain
//     drops the block, contributes silence for that cycle rather than
//     aborting the mix.
//  3. Release in and, if a master strip is attached, run the accumulator
//     through it; otherwise return the accumulator directly.
func (m *Mixer) ProcessBlock(in block.Handle) block.Handle {
	acc, err := m.pool.Acquire()
	if err != nil {
		in.Release()
		return nil
	}
	acc.SetLen(in.Len())

	for _, ch := range m.channels {
		chBlk, err := m.pool.Acquire()
		if err != nil {
			continue
		}
		chBlk.SetLen(in.Len())
		copy(chBlk.Samples(), in.Samples())

		result := ch.ProcessBlock(chBlk)
		if result == nil {
			continue
		}
		nodes.SumSaturate(acc.Samples(), result.Samples())
		result.Release()
	}

	in.Release()

	if m.master != nil {
		return m.master.ProcessBlock(acc)
	}
	return acc
}

// PushInput enqueues a block for the mixer's own worker loop.
func (m *Mixer) PushInput(h block.Handle) {
	node.PushOutput(m.in, h)
}

// Start launches the mixer's worker loop: take an input block, run
// ProcessBlock, and push the result to the mixer's output (or release it
// if there is none). The channel and master strips attached to this
// mixer must not be started independently; the mixer's single worker
// drives all of them in lock-step.
func (m *Mixer) Start(ctx context.Context, priority Priority) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.logger.Debug().Int("priority", int(priority)).Int("channels", len(m.channels)).Msg("mixer worker started")
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			h, err := m.in.TakeContext(ctx)
			if err != nil {
				continue
			}
			out := m.ProcessBlock(h)
			node.PushOutput(m.out, out)
		}
	}()
}

// Stop cancels the mixer's worker and waits for it to return. Stop on a
// mixer that was never started is a no-op.
func (m *Mixer) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.wg.Wait()
}
