package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"
)

// fakeSpinner records spinner interactions without touching the terminal.
type fakeSpinner struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	suffixes []string
}

func (f *fakeSpinner) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
}

func (f *fakeSpinner) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeSpinner) UpdateSuffix(suffix string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suffixes = append(f.suffixes, suffix)
}

func TestDisplayProgress_StopsWhenDone(t *testing.T) {
	fake := &fakeSpinner{}
	orig := newSpinner
	newSpinner = func(...spinner.Option) Spinner { return fake }
	defer func() { newSpinner = orig }()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, func() float64 { return 42.0 }, done, &bytes.Buffer{})

	time.Sleep(2 * ProgressRefreshRate)
	close(done)
	wg.Wait()

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if !fake.started {
		t.Error("spinner was not started")
	}
	if !fake.stopped {
		t.Error("spinner was not stopped")
	}
	if len(fake.suffixes) == 0 {
		t.Fatal("no suffix updates recorded")
	}
	last := fake.suffixes[len(fake.suffixes)-1]
	if !strings.Contains(last, "100.0%") {
		t.Errorf("final suffix = %q, want it to show 100.0%%", last)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		filled  int
	}{
		{"empty", 0, 0},
		{"half", 50, 5},
		{"full", 100, 10},
		{"over 100 clamps", 150, 10},
		{"negative clamps", -5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := progressBar(tt.percent, 10)
			if got := strings.Count(bar, "█"); got != tt.filled {
				t.Errorf("filled cells = %d, want %d (bar %q)", got, tt.filled, bar)
			}
			if got := strings.Count(bar, "░"); got != 10-tt.filled {
				t.Errorf("empty cells = %d, want %d (bar %q)", got, 10-tt.filled, bar)
			}
		})
	}
}
