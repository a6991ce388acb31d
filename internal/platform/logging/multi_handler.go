package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler writes each record to every sink enabled for its level; the
// service uses it to pair the console with the rotating log file.
type MultiHandler struct {
	sinks []slog.Handler
}

// NewMultiHandler combines sinks. Nil sinks are skipped.
func NewMultiHandler(sinks ...slog.Handler) *MultiHandler {
	h := &MultiHandler{sinks: make([]slog.Handler, 0, len(sinks))}

	for _, s := range sinks {
		if s != nil {
			h.sinks = append(h.sinks, s)
		}
	}

	return h
}

func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// Handle reports every sink failure joined together.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	var errs []error

	for _, s := range h.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}

		if err := s.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.each(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (h *MultiHandler) WithGroup(name string) slog.Handler {
	return h.each(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *MultiHandler) each(derive func(slog.Handler) slog.Handler) *MultiHandler {
	out := &MultiHandler{sinks: make([]slog.Handler, len(h.sinks))}
	for i, s := range h.sinks {
		out.sinks[i] = derive(s)
	}

	return out
}
