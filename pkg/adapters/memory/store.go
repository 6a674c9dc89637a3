package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/galvani/pkg/discretise"
	"github.com/aretw0/galvani/pkg/ports"
)

// Store implements ports.LayoutStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*discretise.Layout
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*discretise.Layout),
	}
}

// Save persists a copy of the layout.
func (s *Store) Save(ctx context.Context, layout *discretise.Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[layout.Model] = clone(layout)
	return nil
}

// Load retrieves a copy of the layout of model.
func (s *Store) Load(ctx context.Context, model string) (*discretise.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	layout, ok := s.data[model]
	if !ok {
		return nil, ports.ErrLayoutNotFound
	}
	// Copy on read so callers can't mutate the stored layout
	return clone(layout), nil
}

// Delete removes the layout.
func (s *Store) Delete(ctx context.Context, model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, model)
	return nil
}

// List returns stored model names in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data)), nil
}

func clone(l *discretise.Layout) *discretise.Layout {
	c := *l
	c.Entries = make([]discretise.Entry, len(l.Entries))
	for i, e := range l.Entries {
		e.Domain = slices.Clone(e.Domain)
		e.Y0 = slices.Clone(e.Y0)
		c.Entries[i] = e
	}
	return &c
}
