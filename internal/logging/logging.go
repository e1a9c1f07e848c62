// Package logging provides the pipeline's progress logger: a slog.Handler
// that prints one human-readable line per event, prefixed with the pipeline
// stage it came from. Output is meant for humans watching a run, not for
// programmatic consumption.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// StageHandler is a custom slog.Handler for pipeline progress output.
type StageHandler struct {
	writer io.Writer
	level  slog.Level
	stage  string
	mu     *sync.Mutex
}

// NewStageHandler creates a handler writing to w at the given level.
func NewStageHandler(w io.Writer, level slog.Level) *StageHandler {
	return &StageHandler{
		writer: w,
		level:  level,
		mu:     &sync.Mutex{},
	}
}

// New returns a logger for pipeline progress. Verbose enables debug lines.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewStageHandler(w, level))
}

func (h *StageHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *StageHandler) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	if h.stage != "" {
		msg = "[" + h.stage + "] " + msg
	}

	if r.NumAttrs() > 0 {
		var attrs []string
		r.Attrs(func(a slog.Attr) bool {
			attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
			return true
		})
		msg = msg + ": " + strings.Join(attrs, " ")
	}

	if r.Level >= slog.LevelError {
		msg = "ERROR " + msg
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.writer, msg)
	return err
}

func (h *StageHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

// WithGroup scopes subsequent records to a pipeline stage.
func (h *StageHandler) WithGroup(name string) slog.Handler {
	stage := name
	if h.stage != "" {
		stage = h.stage + "." + name
	}
	return &StageHandler{
		writer: h.writer,
		level:  h.level,
		stage:  stage,
		mu:     h.mu,
	}
}
