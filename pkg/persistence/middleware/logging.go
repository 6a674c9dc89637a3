package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/galvani/pkg/discretise"
	"github.com/aretw0/galvani/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.LayoutStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store operation at debug level and
// failures at warn level. A missing layout is not a failure.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return func(next ports.LayoutStore) ports.LayoutStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, model string, start time.Time, err error, attrs ...any) {
	attrs = append(attrs, "op", op, "model", model, "duration", time.Since(start))
	if err != nil && !errors.Is(err, ports.ErrLayoutNotFound) {
		m.logger.WarnContext(ctx, "layout store operation failed", append(attrs, "error", err)...)
		return
	}
	m.logger.DebugContext(ctx, "layout store operation", attrs...)
}

func (m *loggingMiddleware) Save(ctx context.Context, layout *discretise.Layout) error {
	start := time.Now()
	err := m.next.Save(ctx, layout)
	var model string
	var size int
	if layout != nil {
		model, size = layout.Model, layout.Size
	}
	m.log(ctx, "save", model, start, err, "size", size)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, model string) (*discretise.Layout, error) {
	start := time.Now()
	layout, err := m.next.Load(ctx, model)
	m.log(ctx, "load", model, start, err, "found", err == nil)
	return layout, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, model string) error {
	start := time.Now()
	err := m.next.Delete(ctx, model)
	m.log(ctx, "delete", model, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := m.next.List(ctx)
	m.log(ctx, "list", "", start, err, "count", len(names))
	return names, err
}
