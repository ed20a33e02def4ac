// Package format provides display formatting helpers for durations and
// large counts.
package format

import (
	"fmt"
	"strconv"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display. It shows
// microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation
// otherwise. This provides a more human-readable output for short runs.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatCount renders a counter with thousands separators
// (50847534 -> "50,847,534") so large prime counts stay readable.
func FormatCount(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}
	// Insert a comma before every group of three digits from the right.
	var out []byte
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	out = append(out, s[:lead]...)
	for i := lead; i < len(s); i += 3 {
		out = append(out, ',')
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// FormatRate renders an integers-per-second throughput with a unit
// suffix, e.g. "123.4 M/s".
func FormatRate(count uint64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "n/a"
	}
	rate := float64(count) / elapsed.Seconds()
	switch {
	case rate >= 1e9:
		return fmt.Sprintf("%.1f G/s", rate/1e9)
	case rate >= 1e6:
		return fmt.Sprintf("%.1f M/s", rate/1e6)
	case rate >= 1e3:
		return fmt.Sprintf("%.1f k/s", rate/1e3)
	default:
		return fmt.Sprintf("%.0f /s", rate)
	}
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(n uint64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
