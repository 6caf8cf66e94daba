// cmd/reachscan/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/mfreeman451/reachscan/pkg/config"
	"github.com/mfreeman451/reachscan/pkg/lifecycle"
	"github.com/mfreeman451/reachscan/pkg/logger"
	"github.com/mfreeman451/reachscan/pkg/output"
	"github.com/mfreeman451/reachscan/pkg/scan"
	"github.com/mfreeman451/reachscan/pkg/sweeper"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	cfg, err := config.LoadScanConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return exitUsage
	}

	opts.apply(cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return exitUsage
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true, Output: stderr})
	if err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return exitUsage
	}

	ctx := context.Background()

	var store *sweeper.SQLiteStore

	if cfg.DBPath != "" {
		store, err = sweeper.NewSQLiteStore(cfg.DBPath, logger.Component(log, "store"))
		if err != nil {
			log.Error().Err(err).Str("path", cfg.DBPath).Msg("Failed to open history database")
			return exitFailure
		}

		defer func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("Error closing history database")
			}
		}()

		if opts.prune > 0 {
			if err := store.PruneResults(ctx, opts.prune); err != nil {
				log.Error().Err(err).Msg("Failed to prune history")
			}
		}
	}

	a := newApp(cfg, store, stdin, stdout, log)

	if opts.history {
		if err := a.history(ctx); err != nil {
			fmt.Fprintf(stderr, "History unavailable: %v\n", err)
			return exitFailure
		}

		return exitOK
	}

	interactive := cfg.StartIP == "" || cfg.EndIP == ""

	interrupts := lifecycle.NewInterrupts(
		lifecycle.WithInterruptLogger(logger.Component(log, "lifecycle")),
		lifecycle.WithIdleHandler(func(os.Signal) {
			fmt.Fprintln(stdout, "\n\nScan cancelled by user.")
			os.Exit(exitOK)
		}),
	)
	defer interrupts.Stop()

	a.scope = interrupts.Scope

	if interactive {
		err = a.interactive(ctx)
	} else {
		err = a.scanOnce(ctx, cfg.ToRequest())
	}

	return exitCode(stderr, err)
}

func newApp(cfg *config.ScanConfig, store *sweeper.SQLiteStore, stdin io.Reader, stdout io.Writer, log logger.Logger) *app {
	opts := []sweeper.Option{sweeper.WithLogger(logger.Component(log, "sweeper"))}

	a := &app{
		cfg:     cfg,
		in:      bufio.NewReader(stdin),
		out:     stdout,
		scope:   context.WithCancel,
		console: output.ConsoleOptions{Progress: !color.NoColor, NoColor: color.NoColor},
		logger:  log,
		now:     time.Now,
	}

	// a nil *SQLiteStore must not end up in the Store interface
	if store != nil {
		a.store = store
		opts = append(opts, sweeper.WithStore(store))
	}

	prober := scan.NewTCPProber(scan.WithProberLogger(logger.Component(log, "prober")))
	a.coordinator = sweeper.NewCoordinator(prober, newResolver(cfg), opts...)

	return a
}

func newResolver(cfg *config.ScanConfig) scan.Resolver {
	if !cfg.Resolve() {
		return nil
	}

	timeout := time.Duration(cfg.ResolveTimeout)

	if cfg.Nameserver != "" {
		return scan.NewDNSResolver(cfg.Nameserver, timeout)
	}

	return scan.NewSystemResolver(timeout)
}

func exitCode(stderr io.Writer, err error) int {
	switch {
	case err == nil:
		return exitOK
	case isInputError(err):
		fmt.Fprintf(stderr, "Input error: %v\n", err)
		return exitUsage
	default:
		fmt.Fprintf(stderr, "Scan failed: %v\n", err)
		return exitFailure
	}
}
