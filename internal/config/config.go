// Package config parses and validates the application configuration.
// Priority: CLI flags > environment variables > defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/miho/primesieve/internal/errors"
	"github.com/miho/primesieve/internal/sieve"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "PRIMESIEVE_"

// AppConfig holds the full application configuration.
type AppConfig struct {
	// Start is the lower interval bound.
	Start uint64
	// Stop is the upper interval bound. Start > Stop is a valid empty
	// interval, not an error.
	Stop uint64
	// Threads is the requested worker count. Any value is accepted;
	// the planner clamps it into [1, hardware concurrency].
	Threads int
	// SieveSize is the engine segment size in integers (0 = adaptive).
	SieveSize uint64
	// Count selects the categories to count ("primes", "twins",
	// "triplets", "quadruplets", "quintuplets", "sextuplets", "all",
	// comma separated).
	Count string
	// Flags is the parsed form of Count.
	Flags sieve.Flags
	// Quiet suppresses the progress display.
	Quiet bool
	// Verbose enables debug logging and resource reporting.
	Verbose bool
	// MetricsAddr, if non-empty, serves Prometheus metrics on the
	// given address during the run.
	MetricsAddr string
}

// ParseConfig parses command-line arguments into an AppConfig, applying
// environment overrides for flags not set explicitly.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{
		Stop:    1_000_000_000,
		Threads: 0, // clamped to 1 by the planner; 0 means "all cores" below
		Count:   "primes",
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.Uint64Var(&cfg.Start, "start", cfg.Start, "lower interval bound")
	fs.Uint64Var(&cfg.Stop, "stop", cfg.Stop, "upper interval bound")
	fs.IntVar(&cfg.Threads, "threads", cfg.Threads, "worker threads (0 = all cores; out-of-range values are clamped)")
	fs.Uint64Var(&cfg.SieveSize, "sieve-size", cfg.SieveSize, "sieve segment size in integers (0 = adaptive)")
	fs.StringVar(&cfg.Count, "count", cfg.Count, "categories to count: primes,twins,triplets,quadruplets,quintuplets,sextuplets or all")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "suppress progress output")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "shorthand for -quiet")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "verbose logging and resource reporting")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "shorthand for -verbose")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address during the run")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&cfg, fs)

	flags, err := ParseCategories(cfg.Count)
	if err != nil {
		return AppConfig{}, err
	}
	cfg.Flags = flags

	return cfg, nil
}

// ParseCategories converts the comma-separated category list into
// sieve flags. Unknown category names are configuration errors.
func ParseCategories(list string) (sieve.Flags, error) {
	var flags sieve.Flags
	for _, name := range strings.Split(list, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
			continue
		case "primes":
			flags |= sieve.CountPrimes
		case "twins":
			flags |= sieve.CountTwins
		case "triplets":
			flags |= sieve.CountTriplets
		case "quadruplets":
			flags |= sieve.CountQuadruplets
		case "quintuplets":
			flags |= sieve.CountQuintuplets
		case "sextuplets":
			flags |= sieve.CountSextuplets
		case "all":
			flags |= sieve.CountAll
		default:
			return 0, apperrors.NewConfigError("unknown count category %q", strings.TrimSpace(name))
		}
	}
	if flags == 0 {
		flags = sieve.CountPrimes
	}
	return flags, nil
}

// Describe returns a one-line summary of the configured run, used by
// verbose logging.
func (c AppConfig) Describe() string {
	return fmt.Sprintf("[%d, %d] count=%s threads=%d sieve-size=%d", c.Start, c.Stop, c.Count, c.Threads, c.SieveSize)
}
