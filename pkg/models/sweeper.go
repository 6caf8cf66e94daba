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

package models

import (
	"net/netip"
	"slices"
	"time"
)

// Status is the classification of a single reachability probe.
type Status string

const (
	StatusOpen        Status = "open"
	StatusClosed      Status = "closed"
	StatusUnreachable Status = "unreachable"
)

// Statuses lists every classification in reporting order.
var Statuses = []Status{StatusOpen, StatusClosed, StatusUnreachable}

// ProbeTask is one unit of work: connect to Address:Port within Timeout.
type ProbeTask struct {
	Address netip.Addr
	Port    int
	Timeout time.Duration
}

// ProbeOutcome is what a prober reports for a task. RTT is only meaningful
// when Status is StatusOpen; Err carries transport failures that are neither
// a refusal nor a timeout.
type ProbeOutcome struct {
	Status Status
	RTT    time.Duration
	Err    error
}

// ScanRequest holds the parameters of one scan run.
type ScanRequest struct {
	StartIP          string
	EndIP            string
	Port             int
	Timeout          time.Duration
	Concurrency      int
	ResolveHostnames bool
	ResolveTimeout   time.Duration
}

// ScanResult is the terminal record for one address.
type ScanResult struct {
	Address     netip.Addr     `json:"ip"`
	Hostname    string         `json:"hostname,omitempty"`
	Port        int            `json:"port"`
	Status      Status         `json:"status"`
	RTT         *time.Duration `json:"rtt,omitempty"`
	CompletedAt time.Time      `json:"timestamp"`
	Error       string         `json:"error,omitempty"`
}

// HasRTT reports whether a round trip time was recorded.
func (r *ScanResult) HasRTT() bool {
	return r.RTT != nil
}

// ScanSummary aggregates the results produced by one run.
type ScanSummary struct {
	Planned       uint64         `json:"planned"`
	Submitted     int            `json:"submitted"`
	Completed     int            `json:"completed"`
	StatusCounts  map[Status]int `json:"status_counts"`
	WithHostnames int            `json:"with_hostnames"`
	StartedAt     time.Time      `json:"started_at"`
	Elapsed       time.Duration  `json:"elapsed"`
	Cancelled     bool           `json:"cancelled"`
}

// Count returns the number of completed results with the given status.
func (s *ScanSummary) Count(status Status) int {
	return s.StatusCounts[status]
}

// Partial reports whether the run stopped before every planned address completed.
func (s *ScanSummary) Partial() bool {
	return s.Cancelled || uint64(s.Completed) < s.Planned
}

// ScanReport is the terminal output of a run.
type ScanReport struct {
	Summary ScanSummary
	Results []ScanResult
}

// ResultFilter defines criteria for retrieving stored results.
type ResultFilter struct {
	Address   netip.Addr
	Port      int
	Status    Status
	StartTime time.Time
	EndTime   time.Time
}

// SortByAddress orders results by ascending address, then port.
func SortByAddress(results []ScanResult) {
	slices.SortFunc(results, func(a, b ScanResult) int {
		if c := a.Address.Compare(b.Address); c != 0 {
			return c
		}

		return a.Port - b.Port
	})
}
