// Package metrics defines the observability hooks of a sieve run.
// A NopRecorder is used by default; the prom subpackage exports the
// same hooks as Prometheus metrics.
package metrics

import "runtime"

// Recorder receives sieve-level observability events. Implementations
// must be safe for concurrent use: chunk events fire from worker
// goroutines.
type Recorder interface {
	// ChunkClaimed fires when a worker claims a chunk from the
	// dispatcher.
	ChunkClaimed()

	// ChunkSieved fires when a worker finishes a chunk, with the
	// chunk's wall-clock duration in seconds.
	ChunkSieved(seconds float64)

	// RunCompleted fires once per top-level sieve invocation with
	// the total primes counted and the elapsed seconds.
	RunCompleted(primes uint64, seconds float64)
}

// NopRecorder is a drop-in Recorder implementation that does nothing.
// It is safe for concurrent use and intended as the default when no
// observability backend is configured.
type NopRecorder struct{}

func (NopRecorder) ChunkClaimed()                {}
func (NopRecorder) ChunkSieved(float64)          {}
func (NopRecorder) RunCompleted(uint64, float64) {}

// Ensure NopRecorder implements the Recorder interface at compile time.
var _ Recorder = NopRecorder{}

// MemorySnapshot holds a point-in-time memory reading, reported by the
// CLI in verbose mode after a run.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
}

// ReadMemory reads current runtime memory statistics.
func ReadMemory() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
	}
}
