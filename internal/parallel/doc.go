// Package parallel distributes a [start, stop] sieving interval across
// worker goroutines and merges their per-category counts into exact
// aggregate totals.
//
// The package owns the work-distribution policy only: how many workers
// to run, how to split the interval into chunks whose boundaries never
// cut through a prime k-tuplet, how chunks are claimed dynamically for
// load balance, and how partial results and progress are combined. The
// primality testing itself is delegated to an Engine, one independent
// instance per worker.
//
// All mutable state of a run (chunk cursor, aggregated counts, status)
// is scoped to a single Sieve instance, so independent runs never
// interfere.
package parallel
