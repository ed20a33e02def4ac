package parallel

import "sync"

// chunk identifies one claimed unit of work: its index in the interval
// partition and the raw (unaligned) start of its sub-interval.
type chunk struct {
	index    uint64
	rawStart uint64
}

// dispatcher is a self-scheduling work queue: a shared cursor over the
// chunk indices, claimed dynamically by whichever worker is free. No
// work is pre-assigned, so fast workers immediately pick up more and
// the chunk count can exceed the worker count for load balance.
//
// The lock is held only for the read-and-increment, never while a chunk
// is sieved, so the contention window is O(1) per claim.
type dispatcher struct {
	mu       sync.Mutex
	base     uint64 // interval start
	distance uint64 // chunk distance
	total    uint64 // number of chunks
	next     uint64 // next unclaimed index
}

func newDispatcher(base, distance, total uint64) *dispatcher {
	return &dispatcher{base: base, distance: distance, total: total}
}

// claim returns the next unclaimed chunk, or ok == false when none
// remain. Every index in [0, total) is handed out exactly once.
func (d *dispatcher) claim() (chunk, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.next >= d.total {
		return chunk{}, false
	}
	c := chunk{index: d.next, rawStart: d.base + d.next*d.distance}
	d.next++
	return c, true
}
