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

package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mfreeman451/reachscan/pkg/models"
)

const csvFileLayout = "20060102_150405"

// CSVHeader is the column order of every exported file.
var CSVHeader = []string{"ip", "hostname", "port", "status", "rtt_ms", "timestamp", "error"}

// CSVFileName returns the export file name for a scan finished at now.
func CSVFileName(now time.Time) string {
	return "scan_results_" + now.Format(csvFileLayout) + ".csv"
}

// WriteCSV writes a header followed by one row per result, in the order
// given. Absent hostname, rtt and error fields are left empty.
func WriteCSV(w io.Writer, results []models.ScanResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("%w: %w", errWriteCSV, err)
	}

	for i := range results {
		if err := cw.Write(csvRecord(&results[i])); err != nil {
			return fmt.Errorf("%w: %w", errWriteCSV, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", errWriteCSV, err)
	}

	return nil
}

func csvRecord(r *models.ScanResult) []string {
	rtt := ""
	if r.RTT != nil {
		rtt = strconv.FormatFloat(float64(*r.RTT)/float64(time.Millisecond), 'f', 2, 64)
	}

	timestamp := ""
	if !r.CompletedAt.IsZero() {
		timestamp = r.CompletedAt.UTC().Format(time.RFC3339)
	}

	return []string{
		r.Address.String(),
		r.Hostname,
		strconv.Itoa(r.Port),
		string(r.Status),
		rtt,
		timestamp,
		r.Error,
	}
}

// SaveCSV writes results to a timestamped file in dir and returns its path.
func SaveCSV(dir string, results []models.ScanResult, now time.Time) (string, error) {
	var buf bytes.Buffer

	if err := WriteCSV(&buf, results); err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}

	path := filepath.Join(dir, CSVFileName(now))

	if err := WriteAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}

	return path, nil
}
