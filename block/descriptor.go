// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package block

import "code.hybscloud.com/atomix"

// Samples is the number of int16 samples per buffer, the framework-wide
// fixed block size (spec §3: "always equal to the pool's fixed block size
// at creation; may only shrink"). Variable block sizes are a non-goal.
const Samples = 128

// Buffer is a contiguous PCM sample buffer of fixed length Samples, owned
// by at most one Descriptor at a time.
type Buffer [Samples]int16

// Descriptor is a block descriptor: a handle to a PCM buffer plus an
// atomic reference count. Descriptors are created exclusively by
// Pool.Acquire and destroyed only when the refcount transitions from 1 to
// 0 inside Release. A Descriptor is mutable only by its current unique
// owner, i.e. only when Refcount() == 1; every other owner must treat it
// as immutable.
//
// Handle is the spec's name for "a reference to a Descriptor" — in Go
// that reference is simply *Descriptor.
type (
	Descriptor struct {
		buf      *Buffer
		dataLen  int
		refcount atomix.Int32

		pool    *Pool
		descIdx uint32
		bufIdx  uint32
	}

	// Handle is the exported name for a live reference to a Descriptor,
	// matching the vocabulary of spec §3 ("block handle"). It carries no
	// method that can bypass refcount discipline; Release is the only
	// destructor path.
	Handle = *Descriptor
)

// Samples returns the live portion of the underlying buffer, bounded by
// the descriptor's current data length. The returned slice aliases the
// pooled buffer; callers must not retain it past Release, and must not
// mutate it unless Refcount() == 1.
func (d *Descriptor) Samples() []int16 {
	return d.buf[:d.dataLen]
}

// Len returns the number of valid samples in the descriptor's buffer.
func (d *Descriptor) Len() int {
	return d.dataLen
}

// SetLen shrinks the descriptor's valid sample count. Per spec §3, a
// block's data length may only shrink: n must lie in [0, Len()], and
// SetLen panics otherwise.
func (d *Descriptor) SetLen(n int) {
	if n < 0 || n > d.dataLen {
		panic("block: SetLen out of range")
	}
	d.dataLen = n
}

// Refcount returns the descriptor's current reference count. A count of 1
// means the caller holding this handle is the sole owner and may mutate
// the buffer directly; any higher count means the block must be treated
// as immutable (spec §4.1).
func (d *Descriptor) Refcount() int32 {
	return d.refcount.LoadAcquire()
}

// Retain atomically increments the descriptor's reference count. The
// caller must already hold a valid reference; Retain never allocates and
// never fails.
func (d *Descriptor) Retain() {
	d.refcount.AddAcqRel(1)
}

// Release atomically decrements the reference count. If the count was 1
// immediately before this call, the buffer and descriptor are returned to
// their pools, in that order (buffer first, then descriptor — the mirror
// image of Acquire's descriptor-then-buffer order, so a concurrent
// Acquire never observes a descriptor slot freed before its buffer).
// Double-release is a usage error: the design relies on linear handoff of
// ownership, exactly as spec §4.1 specifies.
func (d *Descriptor) Release() {
	prev := d.refcount.AddAcqRel(-1) + 1
	if prev != 1 {
		return
	}
	d.pool.free(d)
}

// MakeWritable ensures the handle pointed to by *h is uniquely owned,
// escalating to a copy if it is currently shared (spec §4.1). If
// refcount == 1, MakeWritable is a zero-copy no-op. Otherwise it acquires
// a fresh block, copies the buffer contents, releases the caller's
// reference to the original block through *h, and replaces *h with the
// new, uniquely-owned block. Fails only when the pool is exhausted, in
// which case *h is left unchanged and still valid.
func MakeWritable(h *Handle) error {
	d := *h
	if d.refcount.LoadAcquire() == 1 {
		return nil
	}

	fresh, err := d.pool.Acquire()
	if err != nil {
		return err
	}
	*fresh.buf = *d.buf
	fresh.dataLen = d.dataLen

	d.Release()
	*h = fresh
	return nil
}
