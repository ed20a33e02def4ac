package parallel

import (
	"runtime"

	"github.com/miho/primesieve/internal/util"
)

// Tuning constants for the work-distribution policy. The values are
// empirically tuned; their roles are what matters: a floor below which
// per-chunk setup cost dominates, a ceiling on chunk size, and a
// sqrt(stop)-scaled sweet spot that amortizes segment setup well.
const (
	// MinThreadDistance is the smallest distance a chunk may span.
	// Sieve setup cost scales with sqrt(stop), so chunks below this
	// size cost more to start than they save.
	MinThreadDistance uint64 = 10_000_000

	// MaxThreadDistance caps the chunk distance so progress updates
	// and dynamic load balancing stay responsive on huge intervals.
	MaxThreadDistance uint64 = 20_000_000_000

	// BalancedDistanceFactor scales sqrt(stop) to the chunk distance
	// believed to amortize per-segment setup cost best.
	BalancedDistanceFactor uint64 = 1000

	// MinChunksPerThread is the smallest acceptable ratio of chunks
	// to workers. Below it, stragglers dominate and the dynamic
	// claiming cannot balance the load.
	MinChunksPerThread uint64 = 5

	// wheelPeriod is the modulo-30 wheel cycle of the sieve. Chunk
	// distances are rounded up to a multiple of it so raw chunk
	// boundaries land on cycle boundaries before fine alignment.
	wheelPeriod uint64 = 30
)

// MaxThreads returns the hardware concurrency, never less than 1.
func MaxThreads() int {
	if n := runtime.NumCPU(); n > 1 {
		return n
	}
	return 1
}

// SetNumThreads sets the configured worker count. Out-of-range values
// (zero, negative, beyond the hardware concurrency) are silently
// clamped, never rejected.
func (s *Sieve) SetNumThreads(threads int) {
	s.numThreads = util.Clamp(1, threads, MaxThreads())
}

// NumThreads returns the configured worker count.
func (s *Sieve) NumThreads() int {
	return s.numThreads
}

// Distance returns the number of integers in [start, stop], zero for an
// empty interval, saturating at the maximum uint64.
func (s *Sieve) Distance() uint64 {
	if s.start > s.stop {
		return 0
	}
	return util.CheckedAdd(s.stop-s.start, 1)
}

// IdealNumThreads returns the worker count actually worth running for
// the configured interval: small intervals get fewer workers than
// configured because the fixed per-worker overhead (sieve tables sized
// by sqrt(stop)) would outweigh the benefit.
func (s *Sieve) IdealNumThreads() int {
	if s.start > s.stop {
		return 1
	}
	threshold := max(MinThreadDistance, util.Isqrt(s.stop)/5)
	threads := s.Distance() / threshold
	return int(util.Clamp(1, threads, uint64(s.numThreads)))
}

// threadDistance returns the chunk distance giving a good dynamic load
// balance for the given worker count. The result is a multiple of the
// wheel period.
func (s *Sieve) threadDistance(threads int) uint64 {
	dist := s.Distance()
	unbalanced := dist / uint64(threads)
	balanced := util.Isqrt(s.stop) * BalancedDistanceFactor
	fastest := min(balanced, unbalanced)
	threadDist := util.Clamp(MinThreadDistance, fastest, MaxThreadDistance)

	// With too few chunks per worker, stragglers dominate; fall back
	// to an even split so every worker gets enough chunks to steal.
	if chunks := dist / threadDist; chunks < uint64(threads)*MinChunksPerThread {
		threadDist = max(MinThreadDistance, unbalanced)
	}

	return util.CheckedAdd(threadDist, wheelPeriod-threadDist%wheelPeriod)
}
