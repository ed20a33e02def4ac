// Package sieve implements a sequential segmented sieve of Eratosthenes
// that counts primes and prime k-tuplets (twin primes, prime triplets,
// quadruplets, quintuplets and sextuplets) within a [start, stop]
// interval of uint64.
//
// A k-tuplet is counted when all of its members lie inside the interval.
// The engine is cheap to instantiate, holds no global state and is safe
// to run one instance per goroutine.
package sieve

import (
	"github.com/miho/primesieve/internal/util"
)

// DefaultSegmentSize is the number of integers sieved per segment when
// no explicit sieve size is configured. Segments should fit the CPU
// cache; see config.EstimateSegmentSize for the adaptive choice.
const DefaultSegmentSize = 1 << 18

// maxTupletSpan is the largest offset within any counted constellation
// (the sextuplet p+16). Each segment is extended by this much so a
// tuplet starting near the segment end is still fully visible.
const maxTupletSpan = 16

// constellations lists the admissible prime constellations per category.
// Triplets and quintuplets each have two patterns of minimal diameter;
// the patterns are mutually exclusive for p > 3 (one of p, p+2, p+4 is
// always divisible by 3), so summing over patterns never double-counts.
var constellations = [NumCategories][][]uint64{
	Twins:       {{0, 2}},
	Triplets:    {{0, 2, 6}, {0, 4, 6}},
	Quadruplets: {{0, 2, 6, 8}},
	Quintuplets: {{0, 2, 6, 8, 12}, {0, 4, 6, 10, 12}},
	Sextuplets:  {{0, 4, 6, 10, 12, 16}},
}

// Options configures an Engine.
type Options struct {
	// SegmentSize is the number of integers sieved per segment.
	// Zero selects DefaultSegmentSize.
	SegmentSize uint64

	// Flags selects the categories to count. Zero selects CountPrimes.
	Flags Flags

	// OnSegment, if non-nil, is invoked after each finished segment
	// with the number of integers just processed. It is used to feed
	// best-effort progress reporting and must tolerate being called
	// from the goroutine running Sieve.
	OnSegment func(processed uint64)
}

// Engine is a sequential segmented sieve. It is not safe for concurrent
// use; create one Engine per goroutine instead.
type Engine struct {
	segmentSize uint64
	flags       Flags
	onSegment   func(uint64)
}

// New creates an Engine with the given options.
func New(opts Options) *Engine {
	segmentSize := opts.SegmentSize
	if segmentSize == 0 {
		segmentSize = DefaultSegmentSize
	}
	flags := opts.Flags
	if flags == 0 {
		flags = CountPrimes
	}
	return &Engine{
		segmentSize: segmentSize,
		flags:       flags,
		onSegment:   opts.OnSegment,
	}
}

// Flags returns the category selection of the engine.
func (e *Engine) Flags() Flags {
	return e.flags
}

// Sieve counts the enabled categories within [start, stop] and returns
// the per-category totals. An empty interval (start > stop) yields
// all-zero counts. The error return satisfies callers that treat the
// engine as a fallible collaborator; this implementation cannot fail.
func (e *Engine) Sieve(start, stop uint64) (Counts, error) {
	var counts Counts
	if start > stop {
		return counts, nil
	}

	base := basePrimes(util.Isqrt(stop))

	for low := start; ; {
		high := util.CheckedAdd(low, e.segmentSize-1)
		if high > stop {
			high = stop
		}
		// Extend the sieved window so tuplets starting in
		// [low, high] are fully decidable.
		extHigh := min(util.CheckedAdd(high, maxTupletSpan), stop)

		seg := sieveSegment(low, extHigh, base)
		e.countSegment(&counts, seg, low, high, stop)

		if e.onSegment != nil {
			e.onSegment(high - low + 1)
		}
		if high == stop {
			break
		}
		low = high + 1
	}

	return counts, nil
}

// countSegment scans the primality window seg (covering low..low+len-1)
// and counts primes and tuplets whose first member lies in [low, high].
// Tuplet members beyond stop are treated as outside the interval.
func (e *Engine) countSegment(counts *Counts, seg []bool, low, high, stop uint64) {
	countTuplets := e.flags.CountsTuplets()
	for i := uint64(0); i <= high-low; i++ {
		if !seg[i] {
			continue
		}
		if e.flags.Counts(Primes) {
			counts[Primes]++
		}
		if !countTuplets {
			continue
		}
		for cat := Twins; cat < NumCategories; cat++ {
			if !e.flags.Counts(cat) {
				continue
			}
			for _, pattern := range constellations[cat] {
				if tupletAt(seg, low, stop, i, pattern) {
					counts[cat]++
				}
			}
		}
	}
}

// tupletAt reports whether the constellation given by pattern starts at
// seg index i with every member prime and <= stop.
func tupletAt(seg []bool, low, stop, i uint64, pattern []uint64) bool {
	for _, off := range pattern[1:] {
		pos := low + i + off
		if pos > stop {
			return false
		}
		if !seg[i+off] {
			return false
		}
	}
	return true
}

// sieveSegment returns the primality of every integer in [low, high]:
// the returned slice s satisfies s[n-low] == true iff n is prime.
// base must contain all primes <= isqrt(high).
func sieveSegment(low, high uint64, base []uint64) []bool {
	seg := make([]bool, high-low+1)
	for i := range seg {
		seg[i] = true
	}
	// 0 and 1 are not prime.
	for n := low; n < 2 && n <= high; n++ {
		seg[n-low] = false
	}

	for _, q := range base {
		first := q * q
		if first > high {
			break
		}
		if first < low {
			first = low
			if rem := low % q; rem != 0 {
				// The next multiple may lie beyond the segment,
				// or past MaxUint64 entirely; low + gap must not
				// be allowed to wrap.
				gap := q - rem
				if gap > high-low {
					continue
				}
				first = low + gap
			}
		}
		for m := first; m <= high; m += q {
			seg[m-low] = false
			// Guard against uint64 wraparound near the top
			// of the representable range.
			if high-m < q {
				break
			}
		}
	}
	return seg
}

// basePrimes returns all primes <= limit using a simple sieve.
func basePrimes(limit uint64) []uint64 {
	if limit < 2 {
		return nil
	}
	composite := make([]bool, limit+1)
	var primes []uint64
	for i := uint64(2); i <= limit; i++ {
		if composite[i] {
			continue
		}
		primes = append(primes, i)
		for j := i * i; j <= limit; j += i {
			composite[j] = true
		}
	}
	return primes
}
