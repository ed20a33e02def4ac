package parallel

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/miho/primesieve/internal/errors"
	"github.com/miho/primesieve/internal/host"
	"github.com/miho/primesieve/internal/sieve"
)

// recordingEngine is a fake engine that records every sub-interval it
// is asked to sieve and reports the interval width as the "primes"
// count. Summed over all chunks, the width count equals the full
// interval distance exactly when the partition has no gap, no overlap
// and no double count.
type recordingEngine struct {
	mu        *sync.Mutex
	intervals *[][2]uint64
}

func (e recordingEngine) Sieve(start, stop uint64) (sieve.Counts, error) {
	if start > stop {
		return sieve.Counts{}, nil
	}
	e.mu.Lock()
	*e.intervals = append(*e.intervals, [2]uint64{start, stop})
	e.mu.Unlock()
	return sieve.Counts{sieve.Primes: stop - start + 1}, nil
}

// newRecordingFactory returns an EngineFactory handing every worker a
// view onto the same shared interval log.
func newRecordingFactory() (EngineFactory, *sync.Mutex, *[][2]uint64) {
	mu := &sync.Mutex{}
	intervals := &[][2]uint64{}
	factory := func(func(uint64)) Engine {
		return recordingEngine{mu: mu, intervals: intervals}
	}
	return factory, mu, intervals
}

// failingEngine always fails; used to verify error propagation.
type failingEngine struct{ err error }

func (e failingEngine) Sieve(uint64, uint64) (sieve.Counts, error) {
	return sieve.Counts{}, e.err
}

// TestRunParallel_PartitionIsExact is the central distribution
// property: for arbitrary intervals and worker counts, the chunks
// handed to engines tile [start, stop] exactly — contiguous, disjoint,
// complete — and the merged width count equals the interval distance.
func TestRunParallel_PartitionIsExact(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("chunks tile the interval exactly", prop.ForAll(
		func(start, length uint64, threads int) bool {
			stop := start + length
			factory, mu, intervals := newRecordingFactory()
			s := New(start, stop, WithEngineFactory(factory), WithThreads(threads))
			s.reset()
			if _, err := s.runParallel(max(threads, 2)); err != nil {
				return false
			}
			s.agg.finalize()

			if got := s.Counts()[sieve.Primes]; got != s.Distance() {
				t.Logf("merged width %d != distance %d for [%d, %d] x%d",
					got, s.Distance(), start, stop, threads)
				return false
			}

			mu.Lock()
			parts := append([][2]uint64(nil), *intervals...)
			mu.Unlock()
			sort.Slice(parts, func(i, j int) bool { return parts[i][0] < parts[j][0] })

			expectedNext := start
			for _, p := range parts {
				if p[0] != expectedNext {
					t.Logf("gap or overlap at %d (expected %d)", p[0], expectedNext)
					return false
				}
				expectedNext = p[1] + 1
			}
			return expectedNext == stop+1
		},
		gen.UInt64Range(0, 1<<40),
		gen.UInt64Range(0, 1<<42),
		gen.IntRange(2, 16),
	))

	properties.TestingRun(t)
}

// TestRun_ParallelMatchesSequential runs the real segmented engine over
// the same interval with one worker and with several, across uneven
// splits, and requires identical six-category counts.
func TestRun_ParallelMatchesSequential(t *testing.T) {
	if testing.Short() {
		t.Skip("sieving 2*10^7 twice takes a while")
	}

	const stop = 20_000_000
	reference, err := sieve.New(sieve.Options{Flags: sieve.CountAll}).Sieve(0, stop)
	if err != nil {
		t.Fatal(err)
	}

	for _, threads := range []int{2, 3, 4, 8} {
		s := New(0, stop, WithFlags(sieve.CountAll), WithThreads(threads))
		s.reset()
		if _, err := s.runParallel(threads); err != nil {
			t.Fatalf("runParallel(%d): %v", threads, err)
		}
		s.agg.finalize()
		if got := s.Counts(); got != reference {
			t.Errorf("threads=%d: counts = %v, want %v", threads, got, reference)
		}
	}
}

func TestRun_KnownPrimeCount(t *testing.T) {
	s := New(0, 1_000_000)
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := s.Counts()[sieve.Primes]; got != 78498 {
		t.Errorf("primes below 10^6 = %d, want 78498", got)
	}
	if s.Elapsed() <= 0 {
		t.Error("Elapsed() should be positive after a run")
	}
}

// TestRun_Idempotent verifies reset semantics: running the same
// instance twice yields identical counters, not accumulated ones.
func TestRun_Idempotent(t *testing.T) {
	s := New(0, 100_000, WithFlags(sieve.CountAll))
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := s.Counts()
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if second := s.Counts(); second != first {
		t.Errorf("second run counts = %v, want %v", second, first)
	}
}

func TestRun_EmptyInterval(t *testing.T) {
	called := false
	factory := func(func(uint64)) Engine {
		called = true
		return failingEngine{err: errors.New("must not be reached")}
	}
	s := New(100, 10, WithEngineFactory(factory))
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("empty interval must not fail: %v", err)
	}
	if !s.Counts().IsZero() {
		t.Errorf("empty interval counts = %v, want all zero", s.Counts())
	}
	if called {
		t.Error("no engine may be built for an empty interval")
	}
}

func TestRun_EngineErrorPropagates(t *testing.T) {
	cause := errors.New("resource exhausted")
	factory := func(func(uint64)) Engine {
		return failingEngine{err: cause}
	}
	s := New(0, 1_000_000_000_000, WithEngineFactory(factory))
	err := s.Run(context.Background())
	if err == nil {
		t.Fatal("engine failure must propagate out of Run")
	}
	if !errors.Is(err, cause) {
		t.Errorf("error chain lost the cause: %v", err)
	}
	var sieveErr apperrors.SieveError
	if !errors.As(err, &sieveErr) {
		t.Errorf("error is not a SieveError: %v", err)
	}
}

func TestFromHost_AppliesConfig(t *testing.T) {
	shm := host.NewSharedMemory(host.Config{
		Start:     10,
		Stop:      1000,
		SieveSize: 4096,
		Flags:     sieve.CountTwins,
		Threads:   100000, // silently clamped
	})
	s := FromHost(shm)
	if s.Start() != 10 || s.Stop() != 1000 {
		t.Errorf("interval = [%d, %d], want [10, 1000]", s.Start(), s.Stop())
	}
	if s.NumThreads() < 1 || s.NumThreads() > MaxThreads() {
		t.Errorf("NumThreads() = %d, outside [1, %d]", s.NumThreads(), MaxThreads())
	}
	if s.flags != sieve.CountTwins {
		t.Errorf("flags = %v, want CountTwins", s.flags)
	}
}

func TestRun_PublishesToHost(t *testing.T) {
	shm := host.NewSharedMemory(host.Config{Start: 0, Stop: 1_000_000, Flags: sieve.CountAll})
	s := FromHost(shm)
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	counts, seconds := shm.Results()
	if counts != s.Counts() {
		t.Errorf("host counts = %v, want %v", counts, s.Counts())
	}
	if seconds <= 0 {
		t.Error("host seconds should be positive")
	}
	if status := shm.Status(); status < 0 || status > 100 {
		t.Errorf("host status = %v, outside [0, 100]", status)
	}
}

// TestRunAttributes_FullUint64Range verifies interval bounds survive
// the trip into trace attributes without sign truncation.
func TestRunAttributes_FullUint64Range(t *testing.T) {
	attrs := runAttributes(math.MaxUint64, math.MaxUint64, 4)

	if got := attrs[0].Value.AsString(); got != "18446744073709551615" {
		t.Errorf("sieve.start attribute = %q, want %q", got, "18446744073709551615")
	}
	if got := attrs[1].Value.AsString(); got != "18446744073709551615" {
		t.Errorf("sieve.stop attribute = %q, want %q", got, "18446744073709551615")
	}
	if got := attrs[2].Value.AsInt64(); got != 4 {
		t.Errorf("sieve.threads attribute = %d, want 4", got)
	}
}

func TestAggregator_MergeIsCommutative(t *testing.T) {
	parts := []sieve.Counts{
		{5, 1, 0, 0, 0, 0},
		{10, 2, 1, 0, 0, 0},
		{7, 0, 0, 1, 1, 0},
	}

	var forward, backward aggregator
	for _, p := range parts {
		forward.merge(p)
	}
	for i := len(parts) - 1; i >= 0; i-- {
		backward.merge(parts[i])
	}

	f, _ := forward.snapshot()
	b, _ := backward.snapshot()
	if f != b {
		t.Errorf("merge order changed the totals: %v vs %v", f, b)
	}
}
