package ports

import (
	"context"
	"errors"

	"github.com/aretw0/galvani/pkg/discretise"
)

// ErrLayoutNotFound is returned when no layout is stored for a model.
var ErrLayoutNotFound = errors.New("layout not found")

// LayoutStore defines the interface for persisting compiled layouts.
type LayoutStore interface {
	// Save persists the layout under its model name, replacing any previous one.
	Save(ctx context.Context, layout *discretise.Layout) error

	// Load retrieves the layout of a model.
	// Returns ErrLayoutNotFound if the model has no stored layout.
	Load(ctx context.Context, model string) (*discretise.Layout, error)

	// Delete removes the layout of a model.
	Delete(ctx context.Context, model string) error

	// List returns the names of models with a stored layout.
	List(ctx context.Context) ([]string, error)
}
