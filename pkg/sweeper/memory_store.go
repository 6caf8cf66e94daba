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
	"sync"
	"time"

	"github.com/mfreeman451/reachscan/pkg/models"
)

// InMemoryStore implements Store for the lifetime of the process.
type InMemoryStore struct {
	mu        sync.RWMutex
	results   []models.ScanResult
	index     map[resultKey]int
	summaries []models.ScanSummary
}

// filterCheck is a type for individual filter checks.
type filterCheck func(*models.ScanResult, *models.ResultFilter) bool

// NewInMemoryStore creates a new in-memory store for scan results.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		results: make([]models.ScanResult, 0),
		index:   make(map[resultKey]int),
	}
}

func (s *InMemoryStore) SaveResult(_ context.Context, result *models.ScanResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := resultKey{addr: result.Address, port: result.Port}

	if i, ok := s.index[key]; ok {
		s.results[i] = *result
		return nil
	}

	s.index[key] = len(s.results)
	s.results = append(s.results, *result)

	return nil
}

func (s *InMemoryStore) GetResults(_ context.Context, filter *models.ResultFilter) ([]models.ScanResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]models.ScanResult, 0, len(s.results))

	for i := range s.results {
		if matchesFilter(&s.results[i], filter) {
			filtered = append(filtered, s.results[i])
		}
	}

	return filtered, nil
}

func (s *InMemoryStore) SaveSummary(_ context.Context, summary *models.ScanSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summaries = append(s.summaries, *summary)

	return nil
}

func (s *InMemoryStore) GetLatestSummary(_ context.Context) (*models.ScanSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.summaries) == 0 {
		return nil, errNoSummary
	}

	latest := s.summaries[len(s.summaries)-1]

	return &latest, nil
}

func (s *InMemoryStore) PruneResults(_ context.Context, age time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-age)
	kept := make([]models.ScanResult, 0, len(s.results))
	index := make(map[resultKey]int, len(s.index))

	for _, result := range s.results {
		if result.CompletedAt.After(cutoff) {
			index[resultKey{addr: result.Address, port: result.Port}] = len(kept)
			kept = append(kept, result)
		}
	}

	s.results = kept
	s.index = index

	return nil
}

// matchesFilter checks if a result matches all filter criteria.
func matchesFilter(result *models.ScanResult, filter *models.ResultFilter) bool {
	if filter == nil {
		return true
	}

	checks := []filterCheck{
		checkTimeRange,
		checkAddress,
		checkPort,
		checkStatus,
	}

	for _, check := range checks {
		if !check(result, filter) {
			return false
		}
	}

	return true
}

func checkTimeRange(result *models.ScanResult, filter *models.ResultFilter) bool {
	if !filter.StartTime.IsZero() && result.CompletedAt.Before(filter.StartTime) {
		return false
	}

	if !filter.EndTime.IsZero() && result.CompletedAt.After(filter.EndTime) {
		return false
	}

	return true
}

func checkAddress(result *models.ScanResult, filter *models.ResultFilter) bool {
	return !filter.Address.IsValid() || result.Address == filter.Address
}

func checkPort(result *models.ScanResult, filter *models.ResultFilter) bool {
	return filter.Port == 0 || result.Port == filter.Port
}

func checkStatus(result *models.ScanResult, filter *models.ResultFilter) bool {
	return filter.Status == "" || result.Status == filter.Status
}
