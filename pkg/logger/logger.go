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

// Package logger provides the structured logger shared by reachscan packages.
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var errInvalidLevel = errors.New("invalid log level")

// Logger is the leveled, structured logging surface used across the module.
// *zerolog.Logger satisfies it.
type Logger interface {
	Trace() *zerolog.Event
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
	With() zerolog.Context
}

// Config controls logger construction.
type Config struct {
	Level  string    `json:"level"`
	Pretty bool      `json:"pretty"`
	Output io.Writer `json:"-"`
}

// New builds a Logger from cfg. An empty level means "info" and a nil
// output means stderr.
func New(cfg Config) (Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).Level(level).With().Timestamp().Logger()

	return &l, nil
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	l := zerolog.Nop()

	return &l
}

// ParseLevel maps a level name onto a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}

	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w %q: %w", errInvalidLevel, name, err)
	}

	return level, nil
}

// Component returns a child logger tagged with a component name.
func Component(l Logger, name string) Logger {
	child := l.With().Str("component", name).Logger()

	return &child
}
