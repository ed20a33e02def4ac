package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/miho/primesieve/internal/format"
	"github.com/miho/primesieve/internal/metrics"
	"github.com/miho/primesieve/internal/sieve"
	"github.com/miho/primesieve/internal/sysmon"
	"github.com/miho/primesieve/internal/ui"
)

// DisplayResults prints the counts for every enabled category as a
// formatted table, followed by timing and throughput. Uses manual
// padding to correctly handle ANSI color codes.
func DisplayResults(out io.Writer, start, stop uint64, flags sieve.Flags, counts sieve.Counts, elapsed time.Duration) {
	fmt.Fprintf(out, "\n%sSieved%s [%s, %s]\n",
		ui.ColorBold(), ui.ColorReset(),
		format.FormatCount(start), format.FormatCount(stop))

	// Find column widths before printing any row.
	maxNameLen := len("Category")
	maxCountLen := len("Count")
	for c := 0; c < sieve.NumCategories; c++ {
		if !flags.Counts(c) {
			continue
		}
		if n := len(sieve.CategoryName(c)); n > maxNameLen {
			maxNameLen = n
		}
		if n := len(format.FormatCount(counts[c])); n > maxCountLen {
			maxCountLen = n
		}
	}

	fmt.Fprintf(out, "%sCategory%s%s   %sCount%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-len("Category")),
		ui.ColorUnderline(), ui.ColorReset())

	for c := 0; c < sieve.NumCategories; c++ {
		if !flags.Counts(c) {
			continue
		}
		name := sieve.CategoryName(c)
		count := format.FormatCount(counts[c])
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s\n",
			ui.ColorPrimary(), name, ui.ColorReset(), padRight("", maxNameLen-len(name)),
			ui.ColorSuccess(), padRight("", maxCountLen-len(count)), count, ui.ColorReset())
	}

	fmt.Fprintf(out, "\nElapsed: %s%s%s",
		ui.ColorWarning(), format.FormatExecutionDuration(elapsed), ui.ColorReset())
	if flags.Counts(sieve.Primes) {
		fmt.Fprintf(out, "   Throughput: %s%s%s",
			ui.ColorWarning(), format.FormatRate(stop-start, elapsed), ui.ColorReset())
	}
	fmt.Fprintln(out)
}

// DisplayQuietResults prints one count per line with no decoration,
// in category order, for scripting.
func DisplayQuietResults(out io.Writer, flags sieve.Flags, counts sieve.Counts) {
	for c := 0; c < sieve.NumCategories; c++ {
		if flags.Counts(c) {
			fmt.Fprintf(out, "%d\n", counts[c])
		}
	}
}

// DisplayResourceUsage prints the verbose post-run resource report:
// sampled system usage over the run plus a process heap snapshot.
func DisplayResourceUsage(out io.Writer, sum sysmon.Summary, mem metrics.MemorySnapshot) {
	fmt.Fprintf(out, "\n%s--- Resource Usage ---%s\n", ui.ColorSecondary(), ui.ColorReset())
	if sum.Samples > 0 {
		fmt.Fprintf(out, "CPU: %.1f%% avg, %.1f%% peak (%d samples)\n",
			sum.CPUAvg, sum.CPUPeak, sum.Samples)
		fmt.Fprintf(out, "System memory: %.1f%% peak\n", sum.MemPeak)
	}
	fmt.Fprintf(out, "Heap: %s alloc, %s sys, %d GC cycles\n",
		format.FormatBytes(mem.HeapAlloc),
		format.FormatBytes(mem.Sys),
		mem.NumGC)
}

// DisplayError prints an error message to out in the error color.
func DisplayError(out io.Writer, err error) {
	fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorError(), err, ui.ColorReset())
}

// padRight returns s followed by enough spaces to add length characters.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}
