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

import "errors"

var (
	errDuplicateResult = errors.New("duplicate result")
	errInvalidResult   = errors.New("invalid result")
	errNoSummary       = errors.New("no summary recorded")
	errInvalidRequest  = errors.New("invalid scan request")
	errSaveResult      = errors.New("failed to save result")
	errSaveSummary     = errors.New("failed to save summary")
	errGetResults      = errors.New("error getting results")
	errPruneResults    = errors.New("error pruning results")
	errScanRow         = errors.New("failed to scan row")
	errQueryResults    = errors.New("failed to query results")
	errBeginTx         = errors.New("failed to begin transaction")
	errOpenDB          = errors.New("failed to open database")
	errInitSchema      = errors.New("failed to initialize schema")
)
