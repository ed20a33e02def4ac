package sieve

// Count categories, in wire order. The same order is used by the host
// collaborator and by the CLI output.
const (
	Primes = iota
	Twins
	Triplets
	Quadruplets
	Quintuplets
	Sextuplets
	NumCategories
)

// categoryNames maps category indices to display names.
var categoryNames = [NumCategories]string{
	"primes",
	"twin primes",
	"prime triplets",
	"prime quadruplets",
	"prime quintuplets",
	"prime sextuplets",
}

// CategoryName returns the human-readable name of a count category.
func CategoryName(category int) string {
	if category < 0 || category >= NumCategories {
		return "unknown"
	}
	return categoryNames[category]
}

// Counts holds one counter per prime/k-tuplet category. A zero value is
// ready to use. Accumulation is element-wise and commutative, so partial
// counts from independent sub-intervals can be merged in any order.
type Counts [NumCategories]uint64

// Add accumulates other into c element-wise.
func (c *Counts) Add(other Counts) {
	for i := range c {
		c[i] += other[i]
	}
}

// IsZero reports whether every counter is zero.
func (c Counts) IsZero() bool {
	for _, v := range c {
		if v != 0 {
			return false
		}
	}
	return true
}
