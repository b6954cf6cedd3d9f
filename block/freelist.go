// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package block

import (
	"math"
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/audiograph/block/internal"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// freeList is a bounded lock-free MPMC queue of slot indices, used by Pool
// to track which descriptor-array or buffer-array slots are currently
// unused. It is the free-list half of a block pool: acquiring a block is a
// freeList.get, releasing one is a freeList.put.
//
// The algorithm is the SCQ-style bounded queue from "A Scalable, Portable,
// and Memory-Efficient Lock-Free FIFO Queue" (Nikolaev, 2019): each slot
// carries a "turn" counter so a consumer can distinguish a slot that is
// empty because this round's producer hasn't arrived yet from one that was
// already reused in a later round, which is what makes plain CAS-on-index
// ring buffers vulnerable to the ABA hazard.
//
// Unlike a generic object pool, freeList only ever stores the slot index
// itself (it is a free list of array positions, not of values) — Pool owns
// the descriptor and buffer arrays directly and indexes into them with the
// value a freeList.get returns.
type freeList struct {
	_ noCopy

	entries []atomic.Uint64

	capacity  uint32
	mask      uint32
	remapM    uint32
	remapN    uint32
	remapMask uint32
	head, tail atomic.Uint32
}

const (
	freeListEmpty    = 1 << 62
	freeListTurnMask = freeListEmpty>>32 - 1
)

// newFreeList builds a freeList over `capacity` slots (rounded up to the
// next power of two, minimum 1) and fills it so every index in
// [0, capacity) starts out free.
func newFreeList(capacity int) *freeList {
	if capacity < 1 || capacity > math.MaxUint32 {
		panic("block: capacity must be between 1 and MaxUint32")
	}
	capacity--
	capacity |= capacity >> 1
	capacity |= capacity >> 2
	capacity |= capacity >> 4
	capacity |= capacity >> 8
	capacity |= capacity >> 16
	capacity++

	remapM := min(internal.CacheLineSize/unsafe.Sizeof(atomic.Uint64{}), uintptr(capacity))
	remapN := max(1, uintptr(capacity)/remapM)
	remapMask := remapN - 1

	fl := &freeList{
		entries:   make([]atomic.Uint64, capacity),
		capacity:  uint32(capacity),
		mask:      uint32(capacity - 1),
		remapM:    uint32(remapM),
		remapN:    uint32(remapN),
		remapMask: uint32(remapMask),
	}
	for i := range fl.entries {
		fl.entries[i].Store(uint64(i))
	}
	fl.tail.Store(fl.capacity)
	return fl
}

// get removes and returns a free slot index. Returns iox.ErrWouldBlock if
// no slot is currently free; get never blocks.
func (fl *freeList) get() (uint32, error) {
	sw := spin.Wait{}
	for {
		h, t := fl.head.Load(), fl.tail.Load()
		hi := fl.remap(h & fl.mask)
		e := fl.entries[hi].Load()

		if h != fl.head.Load() {
			sw.Once()
			continue
		}
		if h == t {
			return 0, iox.ErrWouldBlock
		}

		nextTurn := (h/fl.capacity + 1) & freeListTurnMask
		if e == fl.empty(nextTurn) {
			fl.head.CompareAndSwap(h, h+1)
			sw.Once()
			continue
		}
		ok := fl.entries[hi].CompareAndSwap(e, fl.empty(nextTurn))
		fl.head.CompareAndSwap(h, h+1)
		if ok {
			return uint32(e & uint64(fl.mask)), nil
		}
		sw.Once()
	}
}

// put returns a slot index to the free list. Returns iox.ErrWouldBlock if
// the free list is already full, which indicates a double-release bug in
// the caller since Pool never puts more slots than it owns.
func (fl *freeList) put(index uint32) error {
	e := uint64(index)
	sw := spin.Wait{}
	for {
		h, t := fl.head.Load(), fl.tail.Load()
		if t != fl.tail.Load() {
			sw.Once()
			continue
		}
		if t == h+fl.capacity {
			return iox.ErrWouldBlock
		}
		turn, ti := (t/fl.capacity)&freeListTurnMask, fl.remap(t)
		ok := fl.entries[ti].CompareAndSwap(fl.empty(turn), e)
		fl.tail.CompareAndSwap(t, t+1)
		if ok {
			return nil
		}
		sw.Once()
	}
}

func (fl *freeList) remap(cursor uint32) int {
	p, q := cursor/fl.remapN, cursor&fl.remapMask
	return int(q*fl.remapM + p%fl.remapM)
}

func (fl *freeList) empty(turn uint32) uint64 {
	return freeListEmpty | uint64(turn&freeListTurnMask)
}

// len reports the number of slots currently free, for observability only
// (spec §7: "pool undersizing is observable via counters"). It is
// necessarily approximate under concurrent use.
func (fl *freeList) len() int {
	h, t := fl.head.Load(), fl.tail.Load()
	if t < h {
		return 0
	}
	n := t - h
	if n > fl.capacity {
		n = fl.capacity
	}
	return int(n)
}

// cap returns the total number of slots.
func (fl *freeList) cap() int {
	return int(fl.capacity)
}

// noCopy is a sentinel used to prevent copying of synchronization
// primitives by go vet's copylocks check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
