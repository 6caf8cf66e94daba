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
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/mfreeman451/reachscan/pkg/models"
)

// ConsoleOptions controls how a ConsoleReporter renders.
type ConsoleOptions struct {
	// Progress draws a progress bar while results arrive.
	Progress bool
	NoColor  bool
}

// ConsoleReporter prints open hosts as they are found and a summary
// when the run ends.
type ConsoleReporter struct {
	mu  sync.Mutex
	w   io.Writer
	bar *progressbar.ProgressBar

	found   *color.Color
	heading *color.Color
	notice  *color.Color
	failure *color.Color
}

func NewConsoleReporter(w io.Writer, total uint64, opts ConsoleOptions) *ConsoleReporter {
	r := &ConsoleReporter{
		w:       w,
		found:   color.New(color.FgGreen),
		heading: color.New(color.FgCyan, color.Bold),
		notice:  color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}

	if opts.NoColor {
		r.found.DisableColor()
		r.heading.DisableColor()
		r.notice.DisableColor()
		r.failure.DisableColor()
	}

	if opts.Progress {
		r.bar = progressbar.NewOptions64(int64(total),
			progressbar.OptionSetWriter(w),
			progressbar.OptionEnableColorCodes(!opts.NoColor),
			progressbar.OptionShowBytes(false),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetDescription("[cyan][scanning][reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	}

	return r
}

// Banner prints the scan parameters before the first result.
func (r *ConsoleReporter) Banner(req *models.ScanRequest, total uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.heading.Fprintf(r.w, "Scanning %d IP addresses on port %d...\n", total, req.Port)
	fmt.Fprintf(r.w, "Concurrency: %d | Timeout: %s\n", req.Concurrency, req.Timeout)
	fmt.Fprintln(r.w, "Press Ctrl+C to stop the scan")
}

func (r *ConsoleReporter) OnResult(result *models.ScanResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if result.Status == models.StatusOpen {
		if r.bar != nil {
			_ = r.bar.Clear()
		}

		line := fmt.Sprintf("[+] %s:%d open", result.Address, result.Port)
		if result.RTT != nil {
			line += fmt.Sprintf(" (%.2f ms)", float64(*result.RTT)/1e6)
		}

		if result.Hostname != "" {
			line += " " + result.Hostname
		}

		r.found.Fprintln(r.w, line)
	}

	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}

func (r *ConsoleReporter) OnComplete(summary *models.ScanSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		if summary.Cancelled {
			_ = r.bar.Clear()
		} else {
			_ = r.bar.Finish()
		}

		fmt.Fprintln(r.w)
	}

	if summary.Cancelled {
		r.notice.Fprintln(r.w, "Scan stopped by user!")
		r.notice.Fprintf(r.w, "Partial scan completed: %d IPs scanned in %.2f seconds\n",
			summary.Completed, summary.Elapsed.Seconds())

		return
	}

	r.heading.Fprintln(r.w, "\n=== Scan Summary ===")
	fmt.Fprintf(r.w, "Total IPs Scanned: %d\n", summary.Completed)
	fmt.Fprintf(r.w, "Open Hosts Found: %d\n", summary.Count(models.StatusOpen))
	fmt.Fprintf(r.w, "Open Hosts With Hostnames: %d\n", summary.WithHostnames)
	fmt.Fprintf(r.w, "Time Elapsed: %.2f seconds\n", summary.Elapsed.Seconds())
}

// OnlineHosts prints every open result that resolved to a hostname.
func (r *ConsoleReporter) OnlineHosts(results []models.ScanResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var named []*models.ScanResult

	for i := range results {
		if results[i].Status == models.StatusOpen && results[i].Hostname != "" {
			named = append(named, &results[i])
		}
	}

	if len(named) == 0 {
		fmt.Fprintln(r.w, "\nNo online hosts with hostnames found.")
		return
	}

	r.heading.Fprintln(r.w, "\nOnline IP Addresses and Hostnames:")

	for _, res := range named {
		fmt.Fprintf(r.w, "%s - %s\n", res.Address, res.Hostname)
	}
}

func (r *ConsoleReporter) Saved(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.w, "Results saved to: %s\n", path)
}

func (r *ConsoleReporter) Failed(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failure.Fprintf(r.w, "[-] %v\n", err)
}
