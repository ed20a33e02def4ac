package config

import (
	"errors"
	"io"
	"testing"

	apperrors "github.com/miho/primesieve/internal/errors"
	"github.com/miho/primesieve/internal/sieve"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig("primesieve", nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Start != 0 || cfg.Stop != 1_000_000_000 {
		t.Errorf("default interval = [%d, %d]", cfg.Start, cfg.Stop)
	}
	if cfg.Flags != sieve.CountPrimes {
		t.Errorf("default flags = %v, want CountPrimes", cfg.Flags)
	}
}

func TestParseConfig_Flags(t *testing.T) {
	cfg, err := ParseConfig("primesieve", []string{
		"-start", "100",
		"-stop", "200",
		"-threads", "3",
		"-count", "twins,triplets",
		"-quiet",
	}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Start != 100 || cfg.Stop != 200 {
		t.Errorf("interval = [%d, %d], want [100, 200]", cfg.Start, cfg.Stop)
	}
	if cfg.Threads != 3 {
		t.Errorf("Threads = %d, want 3", cfg.Threads)
	}
	if cfg.Flags != sieve.CountTwins|sieve.CountTriplets {
		t.Errorf("Flags = %v", cfg.Flags)
	}
	if !cfg.Quiet {
		t.Error("Quiet not set")
	}
}

func TestParseConfig_InvertedIntervalIsValid(t *testing.T) {
	// start > stop is an empty interval, not a configuration error.
	cfg, err := ParseConfig("primesieve", []string{"-start", "100", "-stop", "10"}, io.Discard)
	if err != nil {
		t.Fatalf("inverted interval must parse: %v", err)
	}
	if cfg.Start != 100 || cfg.Stop != 10 {
		t.Errorf("interval = [%d, %d]", cfg.Start, cfg.Stop)
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"STOP", "5000")
	t.Setenv(EnvPrefix+"THREADS", "7")
	t.Setenv(EnvPrefix+"QUIET", "yes")

	t.Run("env applies when flag absent", func(t *testing.T) {
		cfg, err := ParseConfig("primesieve", nil, io.Discard)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Stop != 5000 {
			t.Errorf("Stop = %d, want 5000 from env", cfg.Stop)
		}
		if cfg.Threads != 7 {
			t.Errorf("Threads = %d, want 7 from env", cfg.Threads)
		}
		if !cfg.Quiet {
			t.Error("Quiet not taken from env")
		}
	})

	t.Run("explicit flag wins over env", func(t *testing.T) {
		cfg, err := ParseConfig("primesieve", []string{"-stop", "123"}, io.Discard)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Stop != 123 {
			t.Errorf("Stop = %d, want flag value 123", cfg.Stop)
		}
	})
}

func TestParseCategories(t *testing.T) {
	tests := []struct {
		in      string
		want    sieve.Flags
		wantErr bool
	}{
		{"primes", sieve.CountPrimes, false},
		{"all", sieve.CountAll, false},
		{"twins, sextuplets", sieve.CountTwins | sieve.CountSextuplets, false},
		{"", sieve.CountPrimes, false}, // empty list falls back to primes
		{"PRIMES", sieve.CountPrimes, false},
		{"bogus", 0, true},
		{"primes,bogus", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCategories(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCategories(%q): expected error", tt.in)
				continue
			}
			var configErr apperrors.ConfigError
			if !errors.As(err, &configErr) {
				t.Errorf("ParseCategories(%q): error is not a ConfigError: %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCategories(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategories(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestApplyAdaptiveDefaults(t *testing.T) {
	t.Run("fills zero sieve size", func(t *testing.T) {
		cfg := ApplyAdaptiveDefaults(AppConfig{})
		if cfg.SieveSize == 0 {
			t.Error("SieveSize left at zero")
		}
	})

	t.Run("preserves explicit sieve size", func(t *testing.T) {
		cfg := ApplyAdaptiveDefaults(AppConfig{SieveSize: 4096})
		if cfg.SieveSize != 4096 {
			t.Errorf("SieveSize = %d, want 4096", cfg.SieveSize)
		}
	})
}

func TestEstimateSegmentSize_InRange(t *testing.T) {
	size := EstimateSegmentSize()
	if size < 1<<16 || size > 1<<20 {
		t.Errorf("EstimateSegmentSize() = %d, outside expected range", size)
	}
}
