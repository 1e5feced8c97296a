// Package cli implements the waypoints command-line interface.
//
// Every command works on the waypoint document held by the configured store
// (a local JSON file by default). Commands that change the library load the
// document, apply the change and write the document back.
//
// # Commands
//
//   - demo: walk through load, save, restore, add, update and remove
//   - list, show: inspect the library
//   - add, update, remove: change it
//   - export, save, restore: move documents between the store and files
//   - serve: expose the library over HTTP
//   - browse: pick a waypoint interactively
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports every store access and library change. Loggers are passed
// through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waypoints/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Loaded 3 waypoints (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks writes store accesses and library changes to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnLoad(_ context.Context, store string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("store load failed", "store", store, "duration", d.Round(time.Microsecond), "error", err)
		return
	}
	h.logger.Debug("store load", "store", store, "bytes", size, "duration", d.Round(time.Microsecond))
}

func (h logHooks) OnSave(_ context.Context, store string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("store save failed", "store", store, "duration", d.Round(time.Microsecond), "error", err)
		return
	}
	h.logger.Debug("store save", "store", store, "bytes", size, "duration", d.Round(time.Microsecond))
}

func (h logHooks) OnChange(c observability.Change) {
	h.logger.Debug("library change", "op", c.Op, "name", c.Name, "count", c.Count)
}

// changeFanout forwards library changes to several hooks in order.
type changeFanout []observability.LibraryHooks

func (f changeFanout) OnChange(c observability.Change) {
	for _, h := range f {
		h.OnChange(c)
	}
}
