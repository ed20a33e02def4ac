package config

import "runtime"

// Segment size resolution chain (highest priority first):
//  1. CLI flag (-sieve-size)
//  2. Environment variable (PRIMESIEVE_SIEVE_SIZE)
//  3. Hardware estimation (this file)

// ApplyAdaptiveDefaults fills in configuration values that are still at
// their zero default with hardware-derived estimates, preserving any
// user-specified overrides.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.SieveSize == 0 {
		cfg.SieveSize = EstimateSegmentSize()
	}
	return cfg
}

// EstimateSegmentSize provides a heuristic segment size without
// benchmarking. Segments should stay cache-resident: machines with
// many cores typically share less last-level cache per core, so the
// per-worker segment shrinks as the core count grows.
func EstimateSegmentSize() uint64 {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 2:
		return 1 << 20 // Few workers, plenty of cache each
	case numCPU <= 8:
		return 1 << 18 // Default for common desktop core counts
	case numCPU <= 32:
		return 1 << 17
	default:
		return 1 << 16 // Many workers sharing the cache
	}
}
