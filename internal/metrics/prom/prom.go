// Package prom exports sieve metrics to Prometheus.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/miho/primesieve/internal/metrics"
)

// Adapter implements metrics.Recorder and exports Prometheus
// counters/histograms. Safe for concurrent use; all Prometheus metric
// types are goroutine-safe.
type Adapter struct {
	chunksClaimed prometheus.Counter
	chunkSeconds  prometheus.Histogram
	primesTotal   prometheus.Counter
	runSeconds    prometheus.Histogram
}

// New constructs a Prometheus metrics adapter.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns:          Prometheus namespace
//   - constLabels: static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		chunksClaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   "sieve",
			Name:        "chunks_claimed_total",
			Help:        "Chunks claimed by worker goroutines",
			ConstLabels: constLabels,
		}),
		chunkSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   ns,
			Subsystem:   "sieve",
			Name:        "chunk_duration_seconds",
			Help:        "Wall-clock duration of individual chunks",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		primesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   "sieve",
			Name:        "primes_counted_total",
			Help:        "Primes counted across completed runs",
			ConstLabels: constLabels,
		}),
		runSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   ns,
			Subsystem:   "sieve",
			Name:        "run_duration_seconds",
			Help:        "Wall-clock duration of top-level sieve runs",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
	}
	reg.MustRegister(a.chunksClaimed, a.chunkSeconds, a.primesTotal, a.runSeconds)
	return a
}

// ChunkClaimed increments the claimed-chunk counter.
func (a *Adapter) ChunkClaimed() { a.chunksClaimed.Inc() }

// ChunkSieved records the duration of a finished chunk.
func (a *Adapter) ChunkSieved(seconds float64) { a.chunkSeconds.Observe(seconds) }

// RunCompleted records the outcome of a finished run.
func (a *Adapter) RunCompleted(primes uint64, seconds float64) {
	a.primesTotal.Add(float64(primes))
	a.runSeconds.Observe(seconds)
}

// Ensure Adapter implements metrics.Recorder at compile time.
var _ metrics.Recorder = (*Adapter)(nil)
