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
	"fmt"
	"net/netip"
	"sync"
	"time"

	"github.com/mfreeman451/reachscan/pkg/models"
)

type resultKey struct {
	addr netip.Addr
	port int
}

// SummaryProcessor folds results into a ScanSummary. It is safe for
// concurrent use and rejects a second result for the same address and port.
type SummaryProcessor struct {
	mu            sync.RWMutex
	planned       uint64
	startedAt     time.Time
	completed     int
	statusCounts  map[models.Status]int
	withHostnames int
	seen          map[resultKey]struct{}
}

func NewSummaryProcessor(planned uint64, startedAt time.Time) *SummaryProcessor {
	return &SummaryProcessor{
		planned:      planned,
		startedAt:    startedAt,
		statusCounts: newStatusCounts(),
		seen:         make(map[resultKey]struct{}),
	}
}

func newStatusCounts() map[models.Status]int {
	counts := make(map[models.Status]int, len(models.Statuses))
	for _, s := range models.Statuses {
		counts[s] = 0
	}

	return counts
}

func (p *SummaryProcessor) Process(result *models.ScanResult) error {
	if err := CheckResult(result); err != nil {
		return err
	}

	key := resultKey{addr: result.Address, port: result.Port}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, dup := p.seen[key]; dup {
		return fmt.Errorf("%w: %s:%d", errDuplicateResult, result.Address, result.Port)
	}

	p.seen[key] = struct{}{}
	p.completed++
	p.statusCounts[result.Status]++

	if result.Hostname != "" {
		p.withHostnames++
	}

	return nil
}

func (p *SummaryProcessor) Summary(submitted int, cancelled bool, now time.Time) models.ScanSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	counts := make(map[models.Status]int, len(p.statusCounts))
	for s, n := range p.statusCounts {
		counts[s] = n
	}

	elapsed := now.Sub(p.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	return models.ScanSummary{
		Planned:       p.planned,
		Submitted:     submitted,
		Completed:     p.completed,
		StatusCounts:  counts,
		WithHostnames: p.withHostnames,
		StartedAt:     p.startedAt,
		Elapsed:       elapsed,
		Cancelled:     cancelled,
	}
}

func (p *SummaryProcessor) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.completed = 0
	p.withHostnames = 0
	p.statusCounts = newStatusCounts()
	p.seen = make(map[resultKey]struct{})
}

// CheckResult verifies the field invariants of a result: a known status,
// an RTT exactly when open, and a hostname only when open.
func CheckResult(result *models.ScanResult) error {
	switch result.Status {
	case models.StatusOpen:
		if result.RTT == nil || *result.RTT < 0 {
			return fmt.Errorf("%w: open result for %s without a valid rtt", errInvalidResult, result.Address)
		}
	case models.StatusClosed, models.StatusUnreachable:
		if result.RTT != nil {
			return fmt.Errorf("%w: %s result for %s carries an rtt", errInvalidResult, result.Status, result.Address)
		}

		if result.Hostname != "" {
			return fmt.Errorf("%w: %s result for %s carries a hostname", errInvalidResult, result.Status, result.Address)
		}
	default:
		return fmt.Errorf("%w: unknown status %q", errInvalidResult, result.Status)
	}

	return nil
}
