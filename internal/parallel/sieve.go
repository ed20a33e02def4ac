package parallel

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/miho/primesieve/internal/errors"
	"github.com/miho/primesieve/internal/host"
	"github.com/miho/primesieve/internal/logging"
	"github.com/miho/primesieve/internal/metrics"
	"github.com/miho/primesieve/internal/sieve"
)

const tracerName = "github.com/miho/primesieve/internal/parallel"

// Engine is the sequential sieve a worker runs on one chunk at a time.
// One independent instance is created per worker goroutine, so an
// Engine does not need to be safe for concurrent use.
type Engine interface {
	Sieve(start, stop uint64) (sieve.Counts, error)
}

// EngineFactory builds one Engine per worker. onSegment is the
// per-segment progress hook the engine should invoke with the number of
// integers it just processed.
type EngineFactory func(onSegment func(processed uint64)) Engine

// Option configures a Sieve.
type Option func(*Sieve)

// WithFlags selects the categories to count.
func WithFlags(f sieve.Flags) Option {
	return func(s *Sieve) { s.flags = f }
}

// WithSegmentSize sets the engine segment size (0 = engine default).
// The value is passed through to the engine, not interpreted here.
func WithSegmentSize(n uint64) Option {
	return func(s *Sieve) { s.segmentSize = n }
}

// WithThreads sets the configured worker count, clamped into
// [1, MaxThreads].
func WithThreads(n int) Option {
	return func(s *Sieve) { s.SetNumThreads(n) }
}

// WithHost attaches the optional host collaborator that receives
// incremental status and final results.
func WithHost(c host.Collaborator) Option {
	return func(s *Sieve) { s.host = c }
}

// WithLogger attaches a structured logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Sieve) { s.logger = l }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Sieve) { s.recorder = r }
}

// WithEngineFactory replaces the default segmented-sieve engine.
func WithEngineFactory(f EngineFactory) Option {
	return func(s *Sieve) { s.newEngine = f }
}

// Sieve counts primes and prime k-tuplets within [start, stop] using a
// pool of worker goroutines. All state is instance-scoped; independent
// Sieve values can run concurrently.
type Sieve struct {
	start       uint64
	stop        uint64
	segmentSize uint64
	flags       sieve.Flags
	numThreads  int

	host      host.Collaborator
	logger    logging.Logger
	recorder  metrics.Recorder
	newEngine EngineFactory

	agg    aggregator
	status progressTracker
}

// New creates a Sieve for [start, stop]. An inverted interval
// (start > stop) is valid and yields all-zero counts. By default all
// hardware threads are configured and only plain primes are counted.
func New(start, stop uint64, opts ...Option) *Sieve {
	s := &Sieve{
		start:      start,
		stop:       stop,
		flags:      sieve.CountPrimes,
		numThreads: MaxThreads(),
		logger:     logging.NopLogger{},
		recorder:   metrics.NopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newEngine == nil {
		s.newEngine = s.defaultEngine
	}
	return s
}

// FromHost creates a Sieve from the configuration a host collaborator
// supplies and attaches the collaborator for status/result publishing.
// Explicit options are applied afterwards and take precedence.
func FromHost(c host.Collaborator, opts ...Option) *Sieve {
	cfg := c.Config()
	base := []Option{
		WithSegmentSize(cfg.SieveSize),
		WithThreads(cfg.Threads),
		WithHost(c),
	}
	if cfg.Flags != 0 {
		base = append(base, WithFlags(cfg.Flags))
	}
	return New(cfg.Start, cfg.Stop, append(base, opts...)...)
}

func (s *Sieve) defaultEngine(onSegment func(uint64)) Engine {
	return sieve.New(sieve.Options{
		SegmentSize: s.segmentSize,
		Flags:       s.flags,
		OnSegment:   onSegment,
	})
}

// Start returns the interval start.
func (s *Sieve) Start() uint64 { return s.start }

// Stop returns the interval stop.
func (s *Sieve) Stop() uint64 { return s.stop }

// Counts returns the aggregated per-category totals of the last run.
func (s *Sieve) Counts() sieve.Counts {
	counts, _ := s.agg.snapshot()
	return counts
}

// Elapsed returns the wall-clock duration of the last run.
func (s *Sieve) Elapsed() time.Duration {
	_, elapsed := s.agg.snapshot()
	return elapsed
}

// Status returns the current completion percentage (0..100).
func (s *Sieve) Status() float64 {
	return s.status.value()
}

// UpdateStatus adds processed integers to the progress counter and, if
// a host collaborator is attached, publishes the new percentage to it.
// With wait == false the call returns false immediately when another
// updater holds the progress lock; the lost update is routine, not an
// error. With wait == true the call blocks until the lock is acquired.
func (s *Sieve) UpdateStatus(processed uint64, wait bool) bool {
	var publish func(float64)
	if s.host != nil {
		publish = s.host.PublishStatus
	}
	_, ok := s.status.update(processed, wait, publish)
	return ok
}

func (s *Sieve) onSegment(processed uint64) {
	s.UpdateStatus(processed, false)
}

// reset prepares the instance for a run: totals, elapsed time and
// progress all return to zero. Idempotent, safe after a failed run.
func (s *Sieve) reset() {
	s.agg.reset()
	s.status.reset(s.Distance())
}

// Run sieves [start, stop] and blocks until all workers have joined.
// The aggregated counts and elapsed time are then available via Counts
// and Elapsed and, if a host collaborator is attached, have been
// published to it. Once started, a run always sieves every chunk to
// completion; cancellation is not offered at this layer. An engine
// failure stops the run and propagates as an apperrors.SieveError.
func (s *Sieve) Run(ctx context.Context) error {
	s.reset()

	if s.start > s.stop {
		return nil
	}

	threads := s.IdealNumThreads()
	_, span := otel.Tracer(tracerName).Start(ctx, "primesieve.run",
		trace.WithAttributes(runAttributes(s.start, s.stop, threads)...))
	defer span.End()

	s.agg.start()
	var err error
	if threads == 1 {
		err = s.runSequential()
	} else {
		threads, err = s.runParallel(threads)
	}
	s.agg.finalize()

	if err != nil {
		err = apperrors.SieveError{Cause: err}
		span.RecordError(err)
		return err
	}

	counts, elapsed := s.agg.snapshot()
	s.recorder.RunCompleted(counts[sieve.Primes], elapsed.Seconds())
	if s.host != nil {
		s.host.PublishResults(counts, elapsed.Seconds())
	}
	s.logger.Info("sieve run complete",
		logging.Uint64("start", s.start),
		logging.Uint64("stop", s.stop),
		logging.Int("threads", threads),
		logging.Uint64("primes", counts[sieve.Primes]),
		logging.Duration("elapsed", elapsed),
	)
	return nil
}

// runAttributes builds the trace attributes of a run. The interval
// bounds are formatted as strings: values above MaxInt64 are valid here
// but do not fit otel's signed integer attributes.
func runAttributes(start, stop uint64, threads int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("sieve.start", strconv.FormatUint(start, 10)),
		attribute.String("sieve.stop", strconv.FormatUint(stop, 10)),
		attribute.Int("sieve.threads", threads),
	}
}

// runSequential sieves the whole interval with a single engine. Used
// when the planner decides parallelism is not worth its overhead.
func (s *Sieve) runSequential() error {
	eng := s.newEngine(s.onSegment)
	counts, err := eng.Sieve(s.start, s.stop)
	if err != nil {
		return err
	}
	s.agg.merge(counts)
	return nil
}

// runParallel partitions the interval into chunks and runs a worker
// pool over them. It returns the worker count actually started, which
// may be lower than planned when there are fewer chunks than workers.
func (s *Sieve) runParallel(threads int) (int, error) {
	threadDist := s.threadDistance(threads)
	chunks := (s.stop-s.start)/threadDist + 1
	if uint64(threads) > chunks {
		threads = int(chunks)
	}

	s.logger.Debug("sieve plan",
		logging.Int("threads", threads),
		logging.Uint64("chunks", chunks),
		logging.Uint64("chunk_distance", threadDist),
	)

	d := newDispatcher(s.start, threadDist, chunks)
	g := new(errgroup.Group)
	for t := 0; t < threads; t++ {
		g.Go(func() error {
			return s.worker(d)
		})
	}
	return threads, g.Wait()
}
