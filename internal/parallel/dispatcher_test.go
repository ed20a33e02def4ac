package parallel

import (
	"sync"
	"testing"
)

func TestDispatcher_SequentialClaims(t *testing.T) {
	d := newDispatcher(100, 50, 3)

	for i := uint64(0); i < 3; i++ {
		c, ok := d.claim()
		if !ok {
			t.Fatalf("claim %d: no work left", i)
		}
		if c.index != i {
			t.Errorf("claim %d: index = %d", i, c.index)
		}
		if want := 100 + i*50; c.rawStart != want {
			t.Errorf("claim %d: rawStart = %d, want %d", i, c.rawStart, want)
		}
	}

	if _, ok := d.claim(); ok {
		t.Error("claim after exhaustion must report no work")
	}
	if _, ok := d.claim(); ok {
		t.Error("repeated claim after exhaustion must keep reporting no work")
	}
}

func TestDispatcher_ZeroChunks(t *testing.T) {
	d := newDispatcher(0, 10, 0)
	if _, ok := d.claim(); ok {
		t.Error("dispatcher with zero chunks must have no work")
	}
}

// TestDispatcher_ConcurrentClaimsAreExact hammers the cursor from many
// goroutines and verifies the core contract: every index is claimed by
// exactly one worker, none skipped, none duplicated.
func TestDispatcher_ConcurrentClaimsAreExact(t *testing.T) {
	const (
		workers = 16
		total   = 10000
	)
	d := newDispatcher(7, 31, total)

	var (
		mu      sync.Mutex
		claimed = make(map[uint64]uint64, total)
	)
	barrier := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			<-barrier
			for {
				c, ok := d.claim()
				if !ok {
					return
				}
				mu.Lock()
				if prev, dup := claimed[c.index]; dup {
					t.Errorf("index %d claimed twice (rawStart %d and %d)", c.index, prev, c.rawStart)
				}
				claimed[c.index] = c.rawStart
				mu.Unlock()
			}
		}()
	}

	close(barrier)
	wg.Wait()

	if len(claimed) != total {
		t.Fatalf("claimed %d chunks, want %d", len(claimed), total)
	}
	for i := uint64(0); i < total; i++ {
		rawStart, ok := claimed[i]
		if !ok {
			t.Errorf("index %d was never claimed", i)
			continue
		}
		if want := 7 + i*31; rawStart != want {
			t.Errorf("index %d: rawStart = %d, want %d", i, rawStart, want)
		}
	}
}
