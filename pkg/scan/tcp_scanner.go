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
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/mfreeman451/reachscan/pkg/logger"
	"github.com/mfreeman451/reachscan/pkg/models"
)

const maxPort = 65535

// DialFunc opens a connection; it matches (*net.Dialer).DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// TCPProber performs full TCP connect probes.
type TCPProber struct {
	dial   DialFunc
	logger logger.Logger
}

// TCPProberOption configures a TCPProber.
type TCPProberOption func(*TCPProber)

// WithDialFunc replaces the dialer used for connection attempts.
func WithDialFunc(dial DialFunc) TCPProberOption {
	return func(p *TCPProber) {
		p.dial = dial
	}
}

// WithProberLogger sets the logger for per-probe debug output.
func WithProberLogger(l logger.Logger) TCPProberOption {
	return func(p *TCPProber) {
		p.logger = l
	}
}

func NewTCPProber(opts ...TCPProberOption) *TCPProber {
	d := &net.Dialer{
		KeepAlive: -1, // probes never exchange data
	}

	p := &TCPProber{
		dial:   d.DialContext,
		logger: logger.Nop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Probe attempts a TCP connection to task.Address:task.Port, bounded by
// task.Timeout. An established connection is closed immediately.
func (p *TCPProber) Probe(ctx context.Context, task models.ProbeTask) (models.ProbeOutcome, error) {
	if err := validateTask(task); err != nil {
		return models.ProbeOutcome{}, err
	}

	connCtx, cancel := context.WithTimeout(ctx, task.Timeout)
	defer cancel()

	addr := net.JoinHostPort(task.Address.String(), strconv.Itoa(task.Port))

	start := time.Now()
	conn, err := p.dial(connCtx, "tcp", addr)
	rtt := time.Since(start)

	if err != nil {
		status, cause := classifyDialError(err)

		p.logger.Debug().
			Str("host", task.Address.String()).
			Int("port", task.Port).
			Str("status", string(status)).
			AnErr("cause", cause).
			Msg("Probe failed to connect")

		return models.ProbeOutcome{Status: status, Err: cause}, nil
	}

	if err := conn.Close(); err != nil {
		p.logger.Debug().Err(err).Str("host", task.Address.String()).Msg("Error closing connection")
	}

	p.logger.Debug().
		Str("host", task.Address.String()).
		Int("port", task.Port).
		Dur("rtt", rtt).
		Msg("Probe connected")

	return models.ProbeOutcome{Status: models.StatusOpen, RTT: rtt}, nil
}

func validateTask(task models.ProbeTask) error {
	if !task.Address.Is4() {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, task.Address)
	}

	if !ValidPort(task.Port) {
		return fmt.Errorf("%w: %d", ErrInvalidPort, task.Port)
	}

	if task.Timeout <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTimeout, task.Timeout)
	}

	return nil
}

// classifyDialError maps a dial failure onto a status. Refusals and
// timeouts are expected answers and carry no error.
func classifyDialError(err error) (models.Status, error) {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return models.StatusClosed, nil
	case isTimeout(err):
		return models.StatusUnreachable, nil
	default:
		return models.StatusUnreachable, err
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

// ValidPort reports whether port is a usable TCP port number.
func ValidPort(port int) bool {
	return port >= 1 && port <= maxPort
}
