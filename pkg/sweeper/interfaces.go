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
	"time"

	"github.com/mfreeman451/reachscan/pkg/models"
)

//go:generate mockgen -destination=mock_sweeper.go -package=sweeper github.com/mfreeman451/reachscan/pkg/sweeper Store,Observer

// Store defines storage operations for scan results.
type Store interface {
	// SaveResult persists a single scan result, replacing any earlier
	// result for the same address and port.
	SaveResult(context.Context, *models.ScanResult) error
	// GetResults retrieves results matching the filter
	GetResults(context.Context, *models.ResultFilter) ([]models.ScanResult, error)
	// SaveSummary records the summary of a finished run
	SaveSummary(context.Context, *models.ScanSummary) error
	// GetLatestSummary returns the most recently saved summary
	GetLatestSummary(context.Context) (*models.ScanSummary, error)
	// PruneResults removes results older than given duration
	PruneResults(context.Context, time.Duration) error
}

// Observer consumes a run incrementally. OnResult is called once per
// completed result, from a single goroutine, before OnComplete.
type Observer interface {
	OnResult(*models.ScanResult)
	OnComplete(*models.ScanSummary)
}

// ResultProcessor defines how to process and aggregate scan results.
type ResultProcessor interface {
	// Process takes a ScanResult and updates internal state
	Process(*models.ScanResult) error
	// Summary returns the aggregate of everything processed so far
	Summary(submitted int, cancelled bool, now time.Time) models.ScanSummary
	// Reset clears the processor's state
	Reset()
}
