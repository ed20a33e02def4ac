// Package host models the collaborator a sieve run reports to, such as
// a supervising GUI process. The transport (shared memory, IPC, ...) is
// outside this module's concern; the collaborator is an injected
// observer that supplies initial configuration and receives incremental
// status and final results.
package host

import (
	"sync"

	"github.com/miho/primesieve/internal/sieve"
)

// Config is the initial sieve configuration a collaborator supplies.
type Config struct {
	Start     uint64
	Stop      uint64
	SieveSize uint64
	Flags     sieve.Flags
	Threads   int
}

// Collaborator receives sieve progress and results. Implementations
// must be safe for concurrent use: PublishStatus may be called from
// many worker goroutines while a supervising process reads.
type Collaborator interface {
	// Config returns the sieve configuration requested by the host.
	Config() Config

	// PublishStatus receives the current completion percentage
	// (0..100). Updates are best-effort and may be sparse.
	PublishStatus(percent float64)

	// PublishResults receives the final per-category counts and the
	// elapsed wall-clock seconds, once, after all workers joined.
	PublishResults(counts sieve.Counts, seconds float64)
}

// SharedMemory is an in-process Collaborator backed by a mutex-guarded
// struct, mirroring the layout a shared-memory host protocol would use:
// configuration in, counts/seconds/status out.
type SharedMemory struct {
	mu      sync.Mutex
	cfg     Config
	counts  sieve.Counts
	seconds float64
	status  float64
}

// NewSharedMemory creates a SharedMemory collaborator with the given
// initial configuration.
func NewSharedMemory(cfg Config) *SharedMemory {
	return &SharedMemory{cfg: cfg}
}

// Config returns the host-requested sieve configuration.
func (s *SharedMemory) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// PublishStatus stores the latest completion percentage.
func (s *SharedMemory) PublishStatus(percent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = percent
}

// PublishResults stores the final counts and elapsed seconds.
func (s *SharedMemory) PublishResults(counts sieve.Counts, seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = counts
	s.seconds = seconds
}

// Status returns the most recently published completion percentage.
func (s *SharedMemory) Status() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Results returns the most recently published counts and seconds.
func (s *SharedMemory) Results() (sieve.Counts, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts, s.seconds
}

// Nop is a Collaborator that ignores everything. It is the behavioral
// equivalent of running without an attached host.
type Nop struct{}

func (Nop) Config() Config                       { return Config{} }
func (Nop) PublishStatus(float64)                {}
func (Nop) PublishResults(sieve.Counts, float64) {}

// Ensure both implementations satisfy Collaborator at compile time.
var (
	_ Collaborator = (*SharedMemory)(nil)
	_ Collaborator = Nop{}
)
