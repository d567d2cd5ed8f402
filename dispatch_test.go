package fvsim

import (
	"sync/atomic"
	"testing"
)

func TestDispatcherCoversEveryIndex(t *testing.T) {
	d := NewDispatcher(4)
	defer d.Close()

	const n = 1000
	seen := make([]int32, n)
	d.Dispatch(n, func(i int) {
		atomic.AddInt32(&seen[i], 1)
	})
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d dispatched %d times, want 1", i, c)
		}
	}
}

func TestDispatcherEmptyRange(t *testing.T) {
	d := NewDispatcher(2)
	defer d.Close()
	d.Dispatch(0, func(i int) { t.Fatalf("fn called for empty range") })
}

func TestDispatcherMoreWorkersThanItems(t *testing.T) {
	d := NewDispatcher(16)
	defer d.Close()
	var count int32
	d.Dispatch(3, func(i int) { atomic.AddInt32(&count, 1) })
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}
