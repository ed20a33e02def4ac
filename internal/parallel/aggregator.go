package parallel

import (
	"sync"
	"time"

	"github.com/miho/primesieve/internal/sieve"
)

// aggregator merges per-worker count vectors into the run totals and
// tracks the run's wall-clock time. Merging is element-wise addition,
// commutative and associative, so the totals are independent of the
// order in which workers finish.
type aggregator struct {
	mu        sync.Mutex
	counts    sieve.Counts
	startedAt time.Time
	elapsed   time.Duration
}

// reset zeroes the counters and elapsed time. It is idempotent and safe
// to call after a failed run.
func (a *aggregator) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counts = sieve.Counts{}
	a.startedAt = time.Time{}
	a.elapsed = 0
}

// start marks the beginning of the wall-clock measurement.
func (a *aggregator) start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.startedAt = time.Now()
}

// merge adds a worker's final count vector into the totals. Workers
// call this exactly once, after their last chunk.
func (a *aggregator) merge(c sieve.Counts) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counts.Add(c)
}

// finalize captures the elapsed wall-clock duration from start to the
// point all workers have joined.
func (a *aggregator) finalize() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.startedAt.IsZero() {
		a.elapsed = time.Since(a.startedAt)
	}
}

// snapshot returns the current totals and elapsed time.
func (a *aggregator) snapshot() (sieve.Counts, time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counts, a.elapsed
}
