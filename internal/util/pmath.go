// Package util provides small integer math helpers shared by the sieve
// engine and the parallel scheduler.
package util

import (
	"cmp"
	"math"
)

// Isqrt returns the integer square root of n, i.e. the largest r
// such that r*r <= n. It is exact for the full uint64 range, which
// math.Sqrt alone is not (float64 has only 53 bits of mantissa).
func Isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	r := uint64(math.Sqrt(float64(n)))

	// Correct the float rounding error, at most off by one in
	// either direction.
	if r > math.MaxUint32 {
		r = math.MaxUint32
	}
	for r*r > n {
		r--
	}
	for r < math.MaxUint32 && (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// CheckedAdd returns a+b, saturating at math.MaxUint64 instead of
// wrapping around. Silent wraparound in boundary arithmetic would
// corrupt sieve counts, so all boundary additions go through here.
func CheckedAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

// Clamp returns x limited to the inclusive range [lo, hi].
func Clamp[T cmp.Ordered](lo, x, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
