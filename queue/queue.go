// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package queue implements the framework's edge primitive: a bounded FIFO
// of owning block handles with a non-blocking Put and a blocking Take.
// Exactly one consumer may call Take per queue; multiple producers may call
// Put concurrently (spec §4.2). Ownership of the transferred value moves
// from caller to queue on Put, and from queue to caller on Take.
//
// The ring itself is the same FAA/cycle-counter lock-free MPSC algorithm
// used throughout this codebase's lock-free primitives (see block.freeList
// and the teacher's bounded pool); what queue.Queue adds on top is a
// condition for the single consumer to block on when the ring is empty,
// since spec §4.2 requires Take to block rather than spin.
package queue

import (
	"context"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"

	"code.hybscloud.com/audiograph/platform"
)

type slot[T any] struct {
	cycle atomix.Uint64
	data  T
}

// Queue is a bounded FIFO of owning handles of type T. The zero value is
// not usable; construct with New.
type Queue[T any] struct {
	_ noCopy

	head atomix.Uint64
	tail atomix.Uint64

	buffer   []slot[T]
	capacity uint64
	size     uint64
	mask     uint64

	// notify wakes a blocked Take after a successful Put. Buffered to 1:
	// a Put that finds it already full does not need to send again,
	// since the pending signal already guarantees the next wait wakes up
	// and re-checks the ring.
	notify chan struct{}

	clock platform.Clock
}

// Option configures a Queue at construction.
type Option[T any] func(*Queue[T])

// WithClock overrides the Clock driving Take's timeout path, so a
// consumer's blocking wait is testable without a real sleep. The
// default, used when this option is omitted, is platform.RealClock{}.
func WithClock[T any](clock platform.Clock) Option[T] {
	return func(q *Queue[T]) {
		q.clock = clock
	}
}

// New constructs a Queue with the given capacity, rounded up to the next
// power of two (minimum 2).
func New[T any](capacity int, opts ...Option[T]) *Queue[T] {
	if capacity < 2 {
		capacity = 2
	}
	n := uint64(roundToPow2(capacity))
	size := n * 2

	q := &Queue[T]{
		buffer:   make([]slot[T], size),
		capacity: n,
		size:     size,
		mask:     size - 1,
		notify:   make(chan struct{}, 1),
		clock:    platform.RealClock{},
	}
	for i := uint64(0); i < size; i++ {
		q.buffer[i].cycle.StoreRelaxed(i / n)
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Cap returns the queue's usable capacity.
func (q *Queue[T]) Cap() int {
	return int(q.capacity)
}

// Put enqueues elem, transferring ownership to the queue. Multiple
// producers may call Put concurrently. Put never blocks: it returns
// iox.ErrWouldBlock immediately if the queue is full.
func (q *Queue[T]) Put(elem T) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		head := q.head.LoadRelaxed()
		if tail >= head+q.capacity {
			return iox.ErrWouldBlock
		}

		myTail := q.tail.AddAcqRel(1) - 1
		slot := &q.buffer[myTail&q.mask]
		expectedCycle := myTail / q.capacity

		slotCycle := slot.cycle.LoadAcquire()
		if slotCycle == expectedCycle {
			slot.data = elem
			slot.cycle.StoreRelease(expectedCycle + 1)
			q.wake()
			return nil
		}
		if int64(slotCycle) < int64(expectedCycle) {
			return iox.ErrWouldBlock
		}
		sw.Once()
	}
}

func (q *Queue[T]) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// tryTake is the single-consumer, non-blocking dequeue step shared by
// Take and TakeTimeout.
func (q *Queue[T]) tryTake() (T, bool) {
	head := q.head.LoadRelaxed()
	cycle := head / q.capacity
	slot := &q.buffer[head&q.mask]

	slotCycle := slot.cycle.LoadAcquire()
	if slotCycle != cycle+1 {
		var zero T
		return zero, false
	}

	elem := slot.data
	var zero T
	slot.data = zero
	nextEnqCycle := (head + q.size) / q.capacity
	slot.cycle.StoreRelease(nextEnqCycle)
	q.head.StoreRelaxed(head + 1)
	return elem, true
}

// Take blocks the calling goroutine until an item is available or timeout
// elapses, whichever comes first (spec §4.2). A non-positive timeout
// polls exactly once without blocking. Exactly one goroutine may call
// Take (or TakeContext) on a given Queue at a time; calling it
// concurrently from multiple goroutines is a usage error, enforced only
// by convention as in the rest of this codebase's queues.
func (q *Queue[T]) Take(timeout time.Duration) (T, error) {
	if v, ok := q.tryTake(); ok {
		return v, nil
	}
	if timeout <= 0 {
		var zero T
		return zero, iox.ErrWouldBlock
	}

	deadline := q.clock.After(timeout)
	for {
		select {
		case <-q.notify:
			if v, ok := q.tryTake(); ok {
				return v, nil
			}
		case <-deadline:
			var zero T
			return zero, iox.ErrWouldBlock
		}
	}
}

// TakeContext blocks until an item is available or ctx is done, whichever
// comes first. This is the "external abort" suspension point described in
// spec §5: a worker parked in TakeContext unblocks as soon as its
// supervising context is cancelled.
func (q *Queue[T]) TakeContext(ctx context.Context) (T, error) {
	if v, ok := q.tryTake(); ok {
		return v, nil
	}
	for {
		select {
		case <-q.notify:
			if v, ok := q.tryTake(); ok {
				return v, nil
			}
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

func roundToPow2(n int) int {
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}

// noCopy is a sentinel used to prevent copying of synchronization
// primitives by go vet's copylocks check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
