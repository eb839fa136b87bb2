// Package cli implements the mmac command-line interface.
//
// The CLI is built with cobra. Every command loads the TOML configuration
// first (see internal/config); flags given on the command line override the
// configured values.
//
// # Commands
//
//   - solve: run the iterated local search on one instance
//   - bench: run many seeds of one instance concurrently and aggregate them
//   - verify: recompute the objective of a solution file from scratch
//   - render: draw an ordered instance as DOT or SVG
//   - best: show or forget the cached best known solution of an instance
//   - cache: inspect or clear the file cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// enables the solver's own debug output. Loggers are passed through
// context.Context so progress reporters can pick them up.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with timestamps formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration. It is meant for a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Solved r50.txt (10.002s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.elapsed().Round(time.Millisecond))
}

func (p *progress) elapsed() time.Duration {
	return time.Since(p.start)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
