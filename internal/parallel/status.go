package parallel

import "sync"

// progressTracker is the shared sieving-status state. Updates are
// best-effort: the non-blocking path drops an update rather than make
// worker goroutines queue on a lock that only feeds a UI metric. The
// reported processed count is monotonically non-decreasing either way;
// a lost update delays progress, it never rewinds it.
type progressTracker struct {
	mu        sync.Mutex
	processed uint64
	total     uint64
	percent   float64
}

// reset re-arms the tracker for a run over the given total work.
func (p *progressTracker) reset(total uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed = 0
	p.total = total
	p.percent = 0
}

// update adds delta to the processed count and recomputes the
// percentage. With wait == false the update is skipped (returning
// ok == false) when the lock is contended. publish, if non-nil, is
// invoked with the new percentage while the lock is held, so published
// values are seen in non-decreasing order.
func (p *progressTracker) update(delta uint64, wait bool, publish func(percent float64)) (float64, bool) {
	if wait {
		p.mu.Lock()
	} else if !p.mu.TryLock() {
		return 0, false
	}
	defer p.mu.Unlock()

	p.processed += delta
	if p.total == 0 {
		p.percent = 100
	} else {
		p.percent = min(float64(p.processed)/float64(p.total)*100, 100)
	}
	if publish != nil {
		publish(p.percent)
	}
	return p.percent, true
}

// value returns the last computed percentage. It blocks briefly if an
// update is in flight.
func (p *progressTracker) value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.percent
}
