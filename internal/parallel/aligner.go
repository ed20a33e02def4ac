package parallel

import "github.com/miho/primesieve/internal/util"

// alignOffset places aligned boundaries at least this far past the raw
// candidate, at modulo (30 + 2). No counted prime constellation spans
// more than 16, and no prime can sit within 4 above a (mod 30 == 2)
// boundary, so a tuplet is always fully contained in a single chunk.
const alignOffset = 32

// alignBoundary snaps the raw chunk boundary n to a safe split point:
// n+32 (saturating) capped at stop; if that reaches stop, the boundary
// is stop itself, otherwise it is pulled back onto the (mod 30 == 2)
// residue class.
func alignBoundary(n, stop uint64) uint64 {
	n32 := util.CheckedAdd(n, alignOffset)
	if n32 >= stop {
		return stop
	}
	return n32 - n%wheelPeriod
}
