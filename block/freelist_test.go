// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package block

import (
	"errors"
	"sync"
	"testing"

	"code.hybscloud.com/iox"
)

func TestFreeList_BasicGetPut(t *testing.T) {
	fl := newFreeList(16)

	var got []uint32
	for range fl.cap() {
		idx, err := fl.get()
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		got = append(got, idx)
	}

	if _, err := fl.get(); !errors.Is(err, iox.ErrWouldBlock) {
		t.Fatalf("expected ErrWouldBlock on empty free list, got %v", err)
	}

	for _, idx := range got {
		if err := fl.put(idx); err != nil {
			t.Fatalf("put(%d): %v", idx, err)
		}
	}

	if fl.len() != fl.cap() {
		t.Fatalf("expected free list to return to full, got len=%d cap=%d", fl.len(), fl.cap())
	}
}

func TestFreeList_RoundsCapacityToPowerOfTwo(t *testing.T) {
	fl := newFreeList(5)
	if fl.cap() != 8 {
		t.Fatalf("expected capacity 8, got %d", fl.cap())
	}
}

func TestFreeList_ConcurrentGetPut(t *testing.T) {
	const capacity = 64
	const workers = 8
	const iterations = 2000

	fl := newFreeList(capacity)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				idx, err := fl.get()
				if err != nil {
					continue
				}
				if err := fl.put(idx); err != nil {
					t.Errorf("put(%d): %v", idx, err)
				}
			}
		}()
	}
	wg.Wait()

	if fl.len() != capacity {
		t.Fatalf("expected free list to settle back to capacity %d, got %d", capacity, fl.len())
	}
}
