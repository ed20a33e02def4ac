package sieve

// Flags select which categories the engine counts. The bit positions
// match the category indices in counts.go.
type Flags uint32

const (
	CountPrimes Flags = 1 << iota
	CountTwins
	CountTriplets
	CountQuadruplets
	CountQuintuplets
	CountSextuplets

	// CountAll enables every category.
	CountAll = CountPrimes | CountTwins | CountTriplets |
		CountQuadruplets | CountQuintuplets | CountSextuplets
)

// Counts reports whether the category with the given index is enabled.
func (f Flags) Counts(category int) bool {
	return f&(1<<uint(category)) != 0
}

// CountsTuplets reports whether any k-tuplet category (everything past
// plain primes) is enabled.
func (f Flags) CountsTuplets() bool {
	return f&(CountAll&^CountPrimes) != 0
}
