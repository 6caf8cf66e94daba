/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sweeper

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/mfreeman451/reachscan/pkg/logger"
	"github.com/mfreeman451/reachscan/pkg/models"
	"github.com/mfreeman451/reachscan/pkg/scan"
)

const (
	DefaultPort        = 80
	DefaultTimeout     = time.Second
	DefaultConcurrency = 50

	storeOperationTimeout = 5 * time.Second
	// upper bound on the up-front allocation for collected results
	maxPreallocResults = 1 << 16
)

// Coordinator runs one probe task per address of a range with bounded
// parallelism. It holds no state between runs.
type Coordinator struct {
	prober   scan.Prober
	resolver scan.Resolver
	store    Store
	logger   logger.Logger
	now      func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithStore persists every result and the final summary of each run.
func WithStore(store Store) Option {
	return func(c *Coordinator) {
		c.store = store
	}
}

func WithLogger(l logger.Logger) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// WithClock overrides the time source used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// NewCoordinator builds a Coordinator. A nil resolver disables hostname
// lookups regardless of the request.
func NewCoordinator(prober scan.Prober, resolver scan.Resolver, opts ...Option) *Coordinator {
	c := &Coordinator{
		prober:   prober,
		resolver: resolver,
		logger:   logger.Nop(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Execution is a scan in progress.
type Execution struct {
	Range     *scan.Range
	Request   models.ScanRequest
	StartedAt time.Time

	results    chan models.ScanResult
	dispatched atomic.Int64
	cancelled  atomic.Bool
}

// Results streams each result as soon as its task finishes. The channel is
// closed once every dispatched task has reported; the caller must drain it.
func (e *Execution) Results() <-chan models.ScanResult {
	return e.results
}

// Dispatched is the number of tasks handed to workers so far. It is final
// once Results is closed.
func (e *Execution) Dispatched() int {
	return int(e.dispatched.Load())
}

// Cancelled reports whether dispatch stopped early because the context was
// cancelled. It is final once Results is closed.
func (e *Execution) Cancelled() bool {
	return e.cancelled.Load()
}

// Start validates req and begins dispatching. An invalid range or parameter
// fails here, before any task runs. Cancelling ctx stops further dispatch;
// tasks already running finish within their own timeout and are still
// delivered.
func (c *Coordinator) Start(ctx context.Context, req *models.ScanRequest) (*Execution, error) {
	rng, err := scan.NewRange(req.StartIP, req.EndIP)
	if err != nil {
		return nil, err
	}

	params, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}

	concurrency := params.Concurrency
	if uint64(concurrency) > rng.Len() {
		concurrency = int(rng.Len())
	}

	exec := &Execution{
		Range:     rng,
		Request:   params,
		StartedAt: c.now(),
		results:   make(chan models.ScanResult, concurrency),
	}

	c.logger.Info().
		Str("range", rng.String()).
		Uint64("addresses", rng.Len()).
		Int("port", params.Port).
		Dur("timeout", params.Timeout).
		Int("concurrency", params.Concurrency).
		Msg("Starting scan")

	go c.dispatch(ctx, exec, int64(concurrency))

	return exec, nil
}

func normalizeRequest(req *models.ScanRequest) (models.ScanRequest, error) {
	params := *req

	if params.Port == 0 {
		params.Port = DefaultPort
	}

	if !scan.ValidPort(params.Port) {
		return params, fmt.Errorf("%w: %w: %d", errInvalidRequest, scan.ErrInvalidPort, params.Port)
	}

	switch {
	case params.Timeout == 0:
		params.Timeout = DefaultTimeout
	case params.Timeout < 0:
		return params, fmt.Errorf("%w: %w: %v", errInvalidRequest, scan.ErrInvalidTimeout, params.Timeout)
	}

	if params.Concurrency <= 0 {
		params.Concurrency = DefaultConcurrency
	}

	if params.ResolveTimeout <= 0 {
		params.ResolveTimeout = scan.DefaultResolveTimeout
	}

	return params, nil
}

func (c *Coordinator) dispatch(ctx context.Context, exec *Execution, slots int64) {
	var wg sync.WaitGroup

	sem := semaphore.NewWeighted(slots)
	// in-flight tasks are never cut short by cancellation
	taskCtx := context.WithoutCancel(ctx)

	defer func() {
		wg.Wait()
		close(exec.results)
	}()

	it := exec.Range.Iter()
	for addr, ok := it.Next(); ok; addr, ok = it.Next() {
		if err := sem.Acquire(ctx, 1); err != nil {
			c.stopDispatch(exec)
			return
		}

		// Acquire may succeed on an already cancelled context.
		if ctx.Err() != nil {
			sem.Release(1)
			c.stopDispatch(exec)

			return
		}

		task := models.ProbeTask{
			Address: addr,
			Port:    exec.Request.Port,
			Timeout: exec.Request.Timeout,
		}

		exec.dispatched.Add(1)
		wg.Add(1)

		go func() {
			defer wg.Done()
			defer sem.Release(1)

			exec.results <- c.execute(taskCtx, task, &exec.Request)
		}()
	}
}

func (c *Coordinator) stopDispatch(exec *Execution) {
	exec.cancelled.Store(true)

	c.logger.Info().
		Int("dispatched", exec.Dispatched()).
		Uint64("planned", exec.Range.Len()).
		Msg("Scan cancelled, no further tasks will be dispatched")
}

// execute runs a single task to its terminal result.
func (c *Coordinator) execute(ctx context.Context, task models.ProbeTask, req *models.ScanRequest) models.ScanResult {
	result := models.ScanResult{
		Address: task.Address,
		Port:    task.Port,
	}

	outcome, err := c.prober.Probe(ctx, task)

	switch {
	case err != nil:
		c.logger.Warn().Err(err).Str("host", task.Address.String()).Msg("Probe rejected task")

		result.Status = models.StatusUnreachable
		result.Error = err.Error()
	case outcome.Status == models.StatusOpen:
		rtt := max(outcome.RTT, 0)

		result.Status = models.StatusOpen
		result.RTT = &rtt
	case outcome.Status == models.StatusClosed, outcome.Status == models.StatusUnreachable:
		result.Status = outcome.Status
		if outcome.Err != nil {
			result.Error = outcome.Err.Error()
		}
	default:
		result.Status = models.StatusUnreachable
		result.Error = fmt.Sprintf("prober returned unknown status %q", outcome.Status)
	}

	if result.Status == models.StatusOpen && req.ResolveHostnames && c.resolver != nil {
		c.resolveHostname(ctx, &result, req.ResolveTimeout)
	}

	result.CompletedAt = c.now().UTC()

	return result
}

// resolveHostname fills in the hostname of an open result. A failed lookup
// only leaves a note; the status is never changed.
func (c *Coordinator) resolveHostname(ctx context.Context, result *models.ScanResult, timeout time.Duration) {
	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name, err := c.resolver.Resolve(lookupCtx, result.Address)
	if err != nil {
		c.logger.Debug().Err(err).Str("host", result.Address.String()).Msg("Hostname lookup failed")

		result.Error = "hostname lookup failed: " + err.Error()

		return
	}

	result.Hostname = name
}

// Run drives a scan to completion. Results are folded into the summary,
// saved to the store if one is configured, and handed to each observer as
// they arrive. A cancelled run returns the partial report and no error.
func (c *Coordinator) Run(ctx context.Context, req *models.ScanRequest, observers ...Observer) (*models.ScanReport, error) {
	exec, err := c.Start(ctx, req)
	if err != nil {
		return nil, err
	}

	processor := NewSummaryProcessor(exec.Range.Len(), exec.StartedAt)
	results := make([]models.ScanResult, 0, min(exec.Range.Len(), maxPreallocResults))
	storeCtx := context.WithoutCancel(ctx)

	for result := range exec.Results() {
		if err := processor.Process(&result); err != nil {
			c.logger.Error().Err(err).Str("host", result.Address.String()).Msg("Discarding result")
			continue
		}

		results = append(results, result)
		c.saveResult(storeCtx, &result)

		for _, o := range observers {
			o.OnResult(&result)
		}
	}

	summary := processor.Summary(exec.Dispatched(), exec.Cancelled(), c.now())
	c.saveSummary(storeCtx, &summary)

	for _, o := range observers {
		o.OnComplete(&summary)
	}

	c.logger.Info().
		Int("completed", summary.Completed).
		Int("open", summary.Count(models.StatusOpen)).
		Int("closed", summary.Count(models.StatusClosed)).
		Int("unreachable", summary.Count(models.StatusUnreachable)).
		Bool("cancelled", summary.Cancelled).
		Dur("elapsed", summary.Elapsed).
		Msg("Scan finished")

	return &models.ScanReport{Summary: summary, Results: results}, nil
}

func (c *Coordinator) saveResult(ctx context.Context, result *models.ScanResult) {
	if c.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, storeOperationTimeout)
	defer cancel()

	if err := c.store.SaveResult(ctx, result); err != nil {
		c.logger.Error().Err(err).Str("host", result.Address.String()).Msg("Failed to store result")
	}
}

func (c *Coordinator) saveSummary(ctx context.Context, summary *models.ScanSummary) {
	if c.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, storeOperationTimeout)
	defer cancel()

	if err := c.store.SaveSummary(ctx, summary); err != nil {
		c.logger.Error().Err(err).Msg("Failed to store summary")
	}
}
