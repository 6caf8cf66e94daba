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

package scan

import (
	"context"
	"net/netip"

	"github.com/mfreeman451/reachscan/pkg/models"
)

//go:generate mockgen -destination=mock_scan.go -package=scan github.com/mfreeman451/reachscan/pkg/scan Prober,Resolver

// Prober checks whether one address accepts connections on one port.
type Prober interface {
	// Probe classifies the task. Refusals, timeouts and transport failures
	// are reported through the outcome; the error is reserved for tasks that
	// violate preconditions.
	Probe(ctx context.Context, task models.ProbeTask) (models.ProbeOutcome, error)
}

// Resolver maps an address back to a hostname.
type Resolver interface {
	// Resolve returns the primary name for addr, without a trailing dot.
	Resolve(ctx context.Context, addr netip.Addr) (string, error)
}
