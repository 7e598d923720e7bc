// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package membytes

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the minimal structured-logging surface the engine needs: chunk
// acquisition, file growth and release events are worth a line in
// production, everything else is too hot a path to log. It is satisfied
// directly by *zerolog.Logger so callers can pass their own pre-configured
// logger in through WithLogger.
type Logger interface {
	Info() *zerolog.Event
	Debug() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
}

// noopLogger is the default: silent unless the caller opts in.
type noopLogger struct{}

func (noopLogger) Info() *zerolog.Event  { return disabledEvent }
func (noopLogger) Debug() *zerolog.Event { return disabledEvent }
func (noopLogger) Warn() *zerolog.Event  { return disabledEvent }
func (noopLogger) Error() *zerolog.Event { return disabledEvent }

var disabledEvent = zerolog.Nop().Info()

// zlogger adapts a *zerolog.Logger to Logger; it is what NewDefaultLogger
// returns, wired to stderr with a timestamp on every line for progress
// reporting on long-running operations.
type zlogger struct{ zerolog.Logger }

func (z zlogger) Info() *zerolog.Event  { return z.Logger.Info() }
func (z zlogger) Debug() *zerolog.Event { return z.Logger.Debug() }
func (z zlogger) Warn() *zerolog.Event  { return z.Logger.Warn() }
func (z zlogger) Error() *zerolog.Event { return z.Logger.Error() }

// NewDefaultLogger returns a console-friendly zerolog-backed Logger writing
// to stderr, for callers who want visibility without building their own
// zerolog.Logger.
func NewDefaultLogger(level zerolog.Level) Logger {
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
	return zlogger{l}
}
