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

package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mfreeman451/reachscan/pkg/logger"
)

// Interrupts turns SIGINT and SIGTERM into cancellation of the scan that
// is currently running. A signal that arrives while no scan is running is
// handed to the idle handler instead.
type Interrupts struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	onIdle func(os.Signal)

	sigs       chan os.Signal
	done       chan struct{}
	stopOnce   sync.Once
	stopNotify func()
	logger     logger.Logger
}

// InterruptOption configures Interrupts.
type InterruptOption func(*Interrupts)

// WithIdleHandler sets the function called for a signal received between scans.
func WithIdleHandler(fn func(os.Signal)) InterruptOption {
	return func(i *Interrupts) {
		i.onIdle = fn
	}
}

func WithInterruptLogger(l logger.Logger) InterruptOption {
	return func(i *Interrupts) {
		i.logger = l
	}
}

// NewInterrupts starts listening for SIGINT and SIGTERM. Call Stop to
// restore the default signal behaviour.
func NewInterrupts(opts ...InterruptOption) *Interrupts {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	i := newInterrupts(sigs, opts...)
	i.stopNotify = func() { signal.Stop(sigs) }

	return i
}

func newInterrupts(sigs chan os.Signal, opts ...InterruptOption) *Interrupts {
	i := &Interrupts{
		sigs:   sigs,
		done:   make(chan struct{}),
		logger: logger.Nop(),
	}

	for _, opt := range opts {
		opt(i)
	}

	go i.run()

	return i
}

func (i *Interrupts) run() {
	for {
		select {
		case sig := <-i.sigs:
			i.deliver(sig)
		case <-i.done:
			return
		}
	}
}

func (i *Interrupts) deliver(sig os.Signal) {
	i.mu.Lock()
	cancel := i.cancel
	i.cancel = nil
	i.mu.Unlock()

	if cancel != nil {
		i.logger.Info().Str("signal", sig.String()).Msg("Received signal, stopping scan")
		cancel()

		return
	}

	i.logger.Debug().Str("signal", sig.String()).Msg("Received signal with no scan running")

	if i.onIdle != nil {
		i.onIdle(sig)
	}
}

// Scope returns a context that is cancelled by the next signal. The release
// function must be called when the scan ends; it also cancels the context.
func (i *Interrupts) Scope(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	i.mu.Lock()
	i.cancel = cancel
	i.mu.Unlock()

	release := func() {
		i.mu.Lock()
		i.cancel = nil
		i.mu.Unlock()

		cancel()
	}

	return ctx, release
}

func (i *Interrupts) Stop() {
	i.stopOnce.Do(func() {
		if i.stopNotify != nil {
			i.stopNotify()
		}

		close(i.done)
	})
}
