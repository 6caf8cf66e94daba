package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mfreeman451/reachscan/pkg/config"
	"github.com/mfreeman451/reachscan/pkg/logger"
	"github.com/mfreeman451/reachscan/pkg/models"
	"github.com/mfreeman451/reachscan/pkg/output"
	"github.com/mfreeman451/reachscan/pkg/scan"
	"github.com/mfreeman451/reachscan/pkg/sweeper"
)

var (
	errInvalidInput = errors.New("invalid input")
	errNoStore      = errors.New("no history database configured")
)

type scopeFunc func(context.Context) (context.Context, context.CancelFunc)

// app drives scans from prompts or from the configured range.
type app struct {
	cfg         *config.ScanConfig
	in          *bufio.Reader
	out         io.Writer
	coordinator *sweeper.Coordinator
	store       sweeper.Store
	scope       scopeFunc
	console     output.ConsoleOptions
	logger      logger.Logger
	now         func() time.Time
}

func (a *app) interactive(ctx context.Context) error {
	fmt.Fprintln(a.out, "=== reachscan ===")
	fmt.Fprintln(a.out, "Note: You can press Ctrl+C at any time to stop the current scan")

	for {
		req, ok, err := a.promptRequest()
		if !ok {
			fmt.Fprintln(a.out, "No IP entered. Exiting.")
			return nil
		}

		if err == nil {
			err = a.scanOnce(ctx, req)
		}

		if err != nil {
			if !isInputError(err) {
				return err
			}

			fmt.Fprintf(a.out, "Input error: %v\n", err)

			continue
		}

		if !a.askAgain() {
			fmt.Fprintln(a.out, "Thank you for using reachscan. Goodbye!")
			return nil
		}
	}
}

// promptRequest asks for the scan parameters. ok is false when the user
// left an address empty or input ended.
func (a *app) promptRequest() (*models.ScanRequest, bool, error) {
	start, ok := a.ask("\nEnter Start IP (e.g. 192.168.1.1): ")
	if !ok || start == "" {
		return nil, false, nil
	}

	end, ok := a.ask("Enter End IP (e.g. 192.168.1.10): ")
	if !ok || end == "" {
		return nil, false, nil
	}

	cfg := *a.cfg
	cfg.StartIP = start
	cfg.EndIP = end

	portText, _ := a.ask(fmt.Sprintf("Enter Port [Default %d]: ", a.cfg.Port))
	timeoutText, _ := a.ask(fmt.Sprintf("Enter Timeout in seconds [Default %.1f]: ",
		time.Duration(a.cfg.Timeout).Seconds()))

	if portText != "" {
		port, err := strconv.Atoi(portText)
		if err != nil {
			return nil, true, fmt.Errorf("%w: port %q is not a number", errInvalidInput, portText)
		}

		cfg.Port = port
	}

	if timeoutText != "" {
		seconds, err := strconv.ParseFloat(timeoutText, 64)
		if err != nil {
			return nil, true, fmt.Errorf("%w: timeout %q is not a number", errInvalidInput, timeoutText)
		}

		cfg.Timeout = config.Seconds(seconds)
	}

	if err := cfg.Validate(); err != nil {
		return nil, true, fmt.Errorf("%w: %w", errInvalidInput, err)
	}

	return cfg.ToRequest(), true, nil
}

func (a *app) askAgain() bool {
	for {
		answer, ok := a.ask("\nDo you want to scan again? (y/n): ")
		if !ok {
			return false
		}

		switch strings.ToLower(answer) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}

		fmt.Fprintln(a.out, "Please enter 'y' for yes or 'n' for no.")
	}
}

// ask prints prompt and reads one trimmed line. ok is false once input is
// exhausted and nothing was read.
func (a *app) ask(prompt string) (string, bool) {
	fmt.Fprint(a.out, prompt)

	line, err := a.in.ReadString('\n')
	line = strings.TrimSpace(line)

	if err != nil && line == "" {
		return "", false
	}

	return line, true
}

// scanOnce runs one scan, reports it and exports the results. A cancelled
// scan still reports and exports what completed.
func (a *app) scanOnce(ctx context.Context, req *models.ScanRequest) error {
	rng, err := scan.NewRange(req.StartIP, req.EndIP)
	if err != nil {
		return err
	}

	scanCtx, release := a.scope(ctx)
	defer release()

	reporter := output.NewConsoleReporter(a.out, rng.Len(), a.console)
	reporter.Banner(req, rng.Len())

	report, err := a.coordinator.Run(scanCtx, req, reporter)
	if err != nil {
		return err
	}

	models.SortByAddress(report.Results)
	reporter.OnlineHosts(report.Results)

	if len(report.Results) == 0 {
		return nil
	}

	path, err := output.SaveCSV(a.cfg.OutputDir, report.Results, a.now())
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to export results")
		reporter.Failed(err)

		return nil
	}

	reporter.Saved(path)

	return nil
}

// history prints the latest stored summary and the open hosts on record.
func (a *app) history(ctx context.Context) error {
	if a.store == nil {
		return errNoStore
	}

	summary, err := a.store.GetLatestSummary(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Last scan: %s (%.2f seconds)\n",
		summary.StartedAt.Local().Format(time.DateTime), summary.Elapsed.Seconds())
	fmt.Fprintf(a.out, "Completed: %d of %d | open: %d, closed: %d, unreachable: %d\n",
		summary.Completed, summary.Planned, summary.Count(models.StatusOpen),
		summary.Count(models.StatusClosed), summary.Count(models.StatusUnreachable))

	if summary.Cancelled {
		fmt.Fprintln(a.out, "The scan was stopped before it finished.")
	}

	open, err := a.store.GetResults(ctx, &models.ResultFilter{Status: models.StatusOpen})
	if err != nil {
		return err
	}

	models.SortByAddress(open)

	for _, r := range open {
		name := r.Hostname
		if name == "" {
			name = "-"
		}

		fmt.Fprintf(a.out, "%s:%d  %s  last seen %s\n", r.Address, r.Port, name, r.CompletedAt.Local().Format(time.DateTime))
	}

	return nil
}

func isInputError(err error) bool {
	return errors.Is(err, errInvalidInput) ||
		errors.Is(err, scan.ErrInvalidRange) ||
		errors.Is(err, scan.ErrInvalidPort) ||
		errors.Is(err, scan.ErrInvalidTimeout)
}
