// Package sysmon provides system-wide CPU and memory usage sampling,
// used by the CLI to report resource utilization of a sieve run.
package sysmon

import (
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// Summary aggregates the samples taken over a Sampler's lifetime.
type Summary struct {
	CPUAvg  float64
	CPUPeak float64
	MemPeak float64
	Samples int
}

// Sampler periodically samples system usage in the background while a
// sieve run is in flight. Start it before the run, Stop it after.
type Sampler struct {
	interval time.Duration

	mu      sync.Mutex
	cpuSum  float64
	cpuPeak float64
	memPeak float64
	samples int

	stop chan struct{}
	done chan struct{}
}

// NewSampler creates a Sampler with the given sampling interval.
// Intervals below 50ms are raised to 50ms; CPU deltas over shorter
// windows are too noisy to be useful.
func NewSampler(interval time.Duration) *Sampler {
	if interval < 50*time.Millisecond {
		interval = 50 * time.Millisecond
	}
	return &Sampler{
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins background sampling. It must be called at most once.
func (s *Sampler) Start() {
	// Prime the CPU delta so the first real sample has a window.
	Sample()
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.record(Sample())
			}
		}
	}()
}

func (s *Sampler) record(sample Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples++
	s.cpuSum += sample.CPUPercent
	if sample.CPUPercent > s.cpuPeak {
		s.cpuPeak = sample.CPUPercent
	}
	if sample.MemPercent > s.memPeak {
		s.memPeak = sample.MemPercent
	}
}

// Stop ends sampling and returns the aggregated summary. It must be
// called exactly once, after Start.
func (s *Sampler) Stop() Summary {
	close(s.stop)
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	summary := Summary{
		CPUPeak: s.cpuPeak,
		MemPeak: s.memPeak,
		Samples: s.samples,
	}
	if s.samples > 0 {
		summary.CPUAvg = s.cpuSum / float64(s.samples)
	}
	return summary
}
