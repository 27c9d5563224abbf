// Package logger wraps log/slog with a small custom handler, grounded on
// github.com/rcornwell/S370's util/logger: a single-line
// "time level message attrs..." format, optionally echoed to stderr above
// a configurable level regardless of where the primary output goes.
//
// It is used for round lifecycle logging only (warrior loading, round
// setup failures, round start/stop) — never for per-cycle simulation data,
// which is the event.Sink's job.
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Handler is a slog.Handler that renders records as a single space-joined
// line and optionally tees anything at or above echoLevel to a second
// writer (typically os.Stderr).
type Handler struct {
	out       io.Writer
	echo      io.Writer
	echoLevel slog.Level
	mu        *sync.Mutex
	h         slog.Handler
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{out: h.out, echo: h.echo, echoLevel: h.echoLevel, mu: h.mu, h: h.h.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{out: h.out, echo: h.echo, echoLevel: h.echoLevel, mu: h.mu, h: h.h.WithGroup(name)}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	parts := []string{r.Time.Format("2006/01/02 15:04:05"), r.Level.String() + ":", r.Message}
	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			parts = append(parts, a.String())
			return true
		})
	}
	line := []byte(strings.Join(parts, " ") + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(line)
	}
	if h.echo != nil && r.Level >= h.echoLevel {
		_, err = h.echo.Write(line)
	}
	return err
}

// New builds a *slog.Logger writing to out, additionally echoing records
// at or above echoLevel to echo (pass nil to disable echoing).
func New(out, echo io.Writer, level, echoLevel slog.Level) *slog.Logger {
	h := &Handler{
		out:       out,
		echo:      echo,
		echoLevel: echoLevel,
		mu:        &sync.Mutex{},
		h:         slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}),
	}
	return slog.New(h)
}
