package middleware_test

import (
	"context"

	"github.com/aretw0/galvani/pkg/discretise"
	"github.com/aretw0/galvani/pkg/ports"
)

// MockStore is a map-based store that keeps whatever it is given, so tests
// can plant layouts the middleware would have refused.
type MockStore struct {
	data  map[string]*discretise.Layout
	saves int
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*discretise.Layout),
	}
}

func (s *MockStore) Save(ctx context.Context, layout *discretise.Layout) error {
	s.saves++
	s.data[layout.Model] = layout
	return nil
}

func (s *MockStore) Load(ctx context.Context, model string) (*discretise.Layout, error) {
	layout, ok := s.data[model]
	if !ok {
		return nil, ports.ErrLayoutNotFound
	}
	return layout, nil
}

func (s *MockStore) Delete(ctx context.Context, model string) error {
	delete(s.data, model)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

var _ ports.LayoutStore = (*MockStore)(nil)
