package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts the behavior of a terminal spinner, decoupling
// DisplayProgress from a specific implementation for testing.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner wraps spinner.Spinner to implement the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	// Same interval as ProgressRefreshRate to synchronize redraws.
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with a progress bar while a sieve run
// is in flight. It polls status for the current completion percentage
// (0 to 100) until done is closed, then draws the final 100% bar.
// The caller's WaitGroup is released when the display has been cleaned up.
func DisplayProgress(wg *sync.WaitGroup, status func() float64, done <-chan struct{}, out io.Writer) {
	defer wg.Done()

	sp := newSpinner(spinner.WithWriter(out))
	sp.UpdateSuffix(fmt.Sprintf(" Sieving... %s", progressBar(0, ProgressBarWidth)))
	sp.Start()
	defer sp.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			sp.UpdateSuffix(fmt.Sprintf(" Sieving... %s", progressBar(100, ProgressBarWidth)))
			return
		case <-ticker.C:
			sp.UpdateSuffix(fmt.Sprintf(" Sieving... %s", progressBar(status(), ProgressBarWidth)))
		}
	}
}

// progressBar renders a textual bar for a percentage in [0, 100].
func progressBar(percent float64, length int) string {
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	count := int(percent / 100 * float64(length))
	var builder strings.Builder
	builder.Grow(length + 8)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	fmt.Fprintf(&builder, " %5.1f%%", percent)
	return builder.String()
}
