// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package block implements the framework's block memory subsystem: two
// fixed-capacity free-lists (descriptors and PCM buffers) with O(1)
// acquire/release and atomic reference counting, plus the copy-on-write
// escalation primitive (MakeWritable) that every mutating node depends on.
//
// No block is ever heap-allocated per step; Pool carries its own backing
// arrays for both descriptors and buffers and only ever hands out indices
// into them. Exhaustion is observable (Acquire returns ErrOutOfMemory),
// never a panic — the hot acquire/release path never blocks.
package block

import "code.hybscloud.com/audiograph"

// DefaultCapacity is the default descriptor/buffer pool capacity
// (spec §6: POOL_CAPACITY), sized for >= 4x the longest expected
// fan-out width in a typical pipeline.
const DefaultCapacity = 64

// Pool owns every Descriptor and Buffer in the system. Descriptors and
// buffers are drawn from and returned to Pool exclusively; there is no
// heap fallback on exhaustion.
type Pool struct {
	descs []Descriptor
	bufs  []Buffer

	descFree *freeList
	bufFree  *freeList
}

// PoolStats reports free-list occupancy for observability (spec §7:
// pool undersizing must be observable via counters, not a panic).
type PoolStats struct {
	Capacity      int
	FreeBuffers   int
	FreeDescriptors int
}

// NewPool constructs a Pool with the given capacity, rounded up to the
// next power of two by the underlying free lists. Both the descriptor
// array and the buffer array are pre-allocated once at construction;
// Acquire never allocates afterward.
func NewPool(capacity int) *Pool {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	descFree := newFreeList(capacity)
	bufFree := newFreeList(capacity)
	n := descFree.cap()

	p := &Pool{
		descs:    make([]Descriptor, n),
		bufs:     make([]Buffer, n),
		descFree: descFree,
		bufFree:  bufFree,
	}
	for i := range p.descs {
		p.descs[i].pool = p
		p.descs[i].descIdx = uint32(i)
	}
	return p
}

// Cap returns the pool's effective capacity (after power-of-two rounding).
func (p *Pool) Cap() int {
	return p.descFree.cap()
}

// Stats returns a point-in-time (necessarily approximate under
// concurrent use) snapshot of free-list occupancy.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Capacity:        p.Cap(),
		FreeBuffers:     p.bufFree.len(),
		FreeDescriptors: p.descFree.len(),
	}
}

// Acquire atomically obtains one free descriptor and one free buffer,
// zeroes the buffer, sets the data length to Samples and the refcount to
// 1. Acquire never blocks and is safe to call from any goroutine,
// including inside an ISR-equivalent callback (spec §5).
//
// Descriptor acquisition happens first; if the subsequent buffer
// acquisition fails, the descriptor is returned to its free list before
// ErrOutOfMemory is reported, so a failed Acquire never leaks a slot.
func (p *Pool) Acquire() (Handle, error) {
	descIdx, err := p.descFree.get()
	if err != nil {
		return nil, audiograph.ErrOutOfMemory
	}
	bufIdx, err := p.bufFree.get()
	if err != nil {
		_ = p.descFree.put(descIdx)
		return nil, audiograph.ErrOutOfMemory
	}

	d := &p.descs[descIdx]
	buf := &p.bufs[bufIdx]
	*buf = Buffer{}

	d.buf = buf
	d.bufIdx = bufIdx
	d.dataLen = Samples
	d.refcount.StoreRelease(1)

	return d, nil
}

// free returns d's buffer and descriptor to their respective free lists,
// in that order, per the mirror-image rule described on Descriptor.Release.
// Called only once the refcount has observably reached zero.
func (p *Pool) free(d *Descriptor) {
	_ = p.bufFree.put(d.bufIdx)
	d.buf = nil
	_ = p.descFree.put(d.descIdx)
}
