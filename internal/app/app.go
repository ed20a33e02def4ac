// Package app wires configuration, logging, metrics and the parallel
// sieve into the primesieve command-line application.
package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/miho/primesieve/internal/cli"
	"github.com/miho/primesieve/internal/config"
	apperrors "github.com/miho/primesieve/internal/errors"
	"github.com/miho/primesieve/internal/logging"
	"github.com/miho/primesieve/internal/metrics"
	"github.com/miho/primesieve/internal/metrics/prom"
	"github.com/miho/primesieve/internal/parallel"
	"github.com/miho/primesieve/internal/server"
	"github.com/miho/primesieve/internal/sysmon"
	"github.com/miho/primesieve/internal/ui"
)

const samplerInterval = 250 * time.Millisecond

// Application represents the primesieve application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	sieveOpts []parallel.Option
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSieveOptions appends extra options passed to the parallel sieve.
// Used by tests to substitute the engine.
func WithSieveOptions(opts ...parallel.Option) AppOption {
	return func(a *Application) { a.sieveOpts = append(a.sieveOpts, opts...) }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "primesieve"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = config.ApplyAdaptiveDefaults(cfg)
	return app, nil
}

// Run executes a sieve run according to the parsed configuration and
// returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(false)
	logger := a.newLogger()

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	recorder, srv := a.setupMetrics(logger)
	if srv != nil {
		srv.Start()
		defer func() {
			if err := srv.Shutdown(context.Background()); err != nil {
				logger.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	sieveOpts := append(a.sieveOptions(),
		parallel.WithLogger(logger),
		parallel.WithRecorder(recorder),
	)
	sieveOpts = append(sieveOpts, a.sieveOpts...)
	ps := parallel.New(a.Config.Start, a.Config.Stop, sieveOpts...)

	logger.Debug("starting run", logging.String("config", a.Config.Describe()))

	var sampler *sysmon.Sampler
	if a.Config.Verbose {
		sampler = sysmon.NewSampler(samplerInterval)
		sampler.Start()
	}

	var wg sync.WaitGroup
	done := make(chan struct{})
	if !a.Config.Quiet {
		wg.Add(1)
		go cli.DisplayProgress(&wg, ps.Status, done, out)
	}

	err := ps.Run(ctx)
	close(done)
	wg.Wait()

	var usage sysmon.Summary
	if sampler != nil {
		usage = sampler.Stop()
	}

	if err != nil {
		cli.DisplayError(a.ErrWriter, err)
		return apperrors.ExitCode(err)
	}

	if a.Config.Quiet {
		cli.DisplayQuietResults(out, a.Config.Flags, ps.Counts())
	} else {
		cli.DisplayResults(out, ps.Start(), ps.Stop(), a.Config.Flags, ps.Counts(), ps.Elapsed())
	}
	if a.Config.Verbose {
		cli.DisplayResourceUsage(out, usage, metrics.ReadMemory())
	}

	return apperrors.ExitSuccess
}

// sieveOptions translates the parsed configuration into sieve options.
// Threads == 0 keeps the all-cores default; any other value, negative
// included, goes through the planner's clamp into [1, MaxThreads].
func (a *Application) sieveOptions() []parallel.Option {
	opts := []parallel.Option{parallel.WithFlags(a.Config.Flags)}
	if a.Config.SieveSize > 0 {
		opts = append(opts, parallel.WithSegmentSize(a.Config.SieveSize))
	}
	if a.Config.Threads != 0 {
		opts = append(opts, parallel.WithThreads(a.Config.Threads))
	}
	return opts
}

// newLogger builds the run logger. Verbose enables debug level; quiet
// raises the bar to warnings so script output stays clean.
func (a *Application) newLogger() logging.Logger {
	level := zerolog.InfoLevel
	switch {
	case a.Config.Verbose:
		level = zerolog.DebugLevel
	case a.Config.Quiet:
		level = zerolog.WarnLevel
	}
	return logging.New(a.ErrWriter, level)
}

// setupMetrics returns the chunk recorder and, when a metrics address
// is configured, the HTTP server exposing it.
func (a *Application) setupMetrics(logger logging.Logger) (metrics.Recorder, *server.Server) {
	if a.Config.MetricsAddr == "" {
		return metrics.NopRecorder{}, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return prom.New(reg, "primesieve", nil), server.New(a.Config.MetricsAddr, reg, logger)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
