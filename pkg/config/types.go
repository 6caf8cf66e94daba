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

package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mfreeman451/reachscan/pkg/models"
)

const (
	DefaultPort           = 80
	DefaultTimeout        = Duration(time.Second)
	DefaultConcurrency    = 50
	DefaultResolveTimeout = Duration(2 * time.Second)
	DefaultOutputDir      = "."
	DefaultLogLevel       = "info"
)

type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Seconds converts a user supplied number of seconds, such as 1.5.
func Seconds(s float64) Duration {
	return Duration(s * float64(time.Second))
}

// ScanConfig represents the configuration of the reachscan CLI.
type ScanConfig struct {
	StartIP          string   `json:"start_ip"`
	EndIP            string   `json:"end_ip"`
	Port             int      `json:"port"`
	Timeout          Duration `json:"timeout"`
	Concurrency      int      `json:"concurrency"`
	ResolveHostnames *bool    `json:"resolve_hostnames,omitempty"`
	ResolveTimeout   Duration `json:"resolve_timeout"`
	Nameserver       string   `json:"nameserver,omitempty"` // e.g., 192.168.1.1:53; system resolver when empty
	OutputDir        string   `json:"output_dir"`
	DBPath           string   `json:"db_path,omitempty"` // scan history is not kept when empty
	LogLevel         string   `json:"log_level"`
}

// ApplyDefaults fills every unset field.
func (c *ScanConfig) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}

	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}

	if c.ResolveHostnames == nil {
		resolve := true
		c.ResolveHostnames = &resolve
	}

	if c.ResolveTimeout == 0 {
		c.ResolveTimeout = DefaultResolveTimeout
	}

	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}

	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate checks the scan parameters. The address range is checked when
// the scan starts since it may still be prompted for.
func (c *ScanConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", errInvalidPort, c.Port)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("%w: %s", errInvalidTimeout, time.Duration(c.Timeout))
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("%w: %d", errInvalidConcurrency, c.Concurrency)
	}

	if c.ResolveTimeout < 0 {
		return fmt.Errorf("%w: resolve_timeout %s", errInvalidTimeout, time.Duration(c.ResolveTimeout))
	}

	return nil
}

// Resolve reports whether hostname lookups are enabled.
func (c *ScanConfig) Resolve() bool {
	return c.ResolveHostnames == nil || *c.ResolveHostnames
}

// ToRequest builds the scan request for the configured range.
func (c *ScanConfig) ToRequest() *models.ScanRequest {
	return &models.ScanRequest{
		StartIP:          c.StartIP,
		EndIP:            c.EndIP,
		Port:             c.Port,
		Timeout:          time.Duration(c.Timeout),
		Concurrency:      c.Concurrency,
		ResolveHostnames: c.Resolve(),
		ResolveTimeout:   time.Duration(c.ResolveTimeout),
	}
}
