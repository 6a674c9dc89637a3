package middleware

import (
	"context"
	"fmt"

	"github.com/aretw0/galvani/pkg/discretise"
	"github.com/aretw0/galvani/pkg/ports"
)

type validationMiddleware struct {
	next ports.LayoutStore
}

// NewValidationMiddleware rejects layouts whose entries do not tile the
// state vector, both before they are saved and after they are loaded.
// A layout read back from a shared backend may have been written by an
// older build or by hand.
func NewValidationMiddleware() Middleware {
	return func(next ports.LayoutStore) ports.LayoutStore {
		return &validationMiddleware{next: next}
	}
}

func (m *validationMiddleware) Save(ctx context.Context, layout *discretise.Layout) error {
	if layout == nil {
		return fmt.Errorf("save: %w: nil layout", discretise.ErrInvalidLayout)
	}
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("save %q: %w", layout.Model, err)
	}
	return m.next.Save(ctx, layout)
}

func (m *validationMiddleware) Load(ctx context.Context, model string) (*discretise.Layout, error) {
	layout, err := m.next.Load(ctx, model)
	if err != nil {
		return nil, err
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("load %q: %w", model, err)
	}
	return layout, nil
}

func (m *validationMiddleware) Delete(ctx context.Context, model string) error {
	return m.next.Delete(ctx, model)
}

func (m *validationMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
