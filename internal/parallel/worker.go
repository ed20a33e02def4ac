package parallel

import (
	"time"

	"github.com/miho/primesieve/internal/sieve"
	"github.com/miho/primesieve/internal/util"
)

// worker is the loop run by each pool goroutine: claim a chunk, align
// its boundaries, sieve it with a private engine, accumulate into a
// private count vector. Only the final merge touches shared state, so
// no lock is held during the expensive sieving itself.
func (s *Sieve) worker(d *dispatcher) error {
	eng := s.newEngine(s.onSegment)
	var local sieve.Counts

	for {
		c, ok := d.claim()
		if !ok {
			break
		}
		s.recorder.ChunkClaimed()

		chunkStop := alignBoundary(util.CheckedAdd(c.rawStart, d.distance), s.stop)
		chunkStart := c.rawStart
		if c.index > 0 {
			// Start strictly past the previous chunk's aligned
			// boundary so no candidate is tested twice.
			boundary := alignBoundary(c.rawStart, s.stop)
			if boundary >= chunkStop {
				// The interval ends at or before this
				// chunk's aligned start; nothing left.
				continue
			}
			chunkStart = boundary + 1
		}

		begin := time.Now()
		counts, err := eng.Sieve(chunkStart, chunkStop)
		if err != nil {
			return err
		}
		s.recorder.ChunkSieved(time.Since(begin).Seconds())
		local.Add(counts)
	}

	s.agg.merge(local)
	return nil
}
