package registry

import (
	"fmt"
	"sync"
	"unique"

	"github.com/aretw0/galvani/pkg/symbol"
)

// Reader is the read-only view of a Registry handed to submodels.
type Reader interface {
	// Lookup returns the symbol published under name.
	Lookup(name string) (symbol.Symbol, bool)
	// Require is Lookup that fails with *MissingVariableError.
	Require(name string) (symbol.Symbol, error)
	Has(name string) bool
	// Names lists published names in insertion order.
	Names() []string
}

// MissingVariableError is returned when a required name was never published.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("variable %q not found", e.Name)
}

// Registry maps domain-qualified variable names to symbols. Names are
// interned since the same few hundred strings are looked up repeatedly by
// every submodel.
type Registry struct {
	mu      sync.RWMutex
	symbols map[unique.Handle[string]]symbol.Symbol
	order   []unique.Handle[string]
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		symbols: make(map[unique.Handle[string]]symbol.Symbol),
	}
}

// Set binds name to s. An existing binding is overwritten in place.
func (r *Registry) Set(name string, s symbol.Symbol) {
	h := unique.Make(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.symbols[h]; !ok {
		r.order = append(r.order, h)
	}
	r.symbols[h] = s
}

// Lookup returns the symbol bound to name.
func (r *Registry) Lookup(name string) (symbol.Symbol, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.symbols[unique.Make(name)]
	return s, ok
}

// Require returns the symbol bound to name or a *MissingVariableError.
func (r *Registry) Require(name string) (symbol.Symbol, error) {
	s, ok := r.Lookup(name)
	if !ok {
		return nil, &MissingVariableError{Name: name}
	}
	return s, nil
}

// Has reports whether name is bound.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns every bound name in insertion order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	for i, h := range r.order {
		out[i] = h.Value()
	}
	return out
}

// Len returns the number of bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// RequireVariable is Require narrowed to *symbol.Variable.
func RequireVariable(r Reader, name string) (*symbol.Variable, error) {
	s, err := r.Require(name)
	if err != nil {
		return nil, err
	}
	v, ok := s.(*symbol.Variable)
	if !ok {
		return nil, fmt.Errorf("variable %q is a %T, not an unknown", name, s)
	}
	return v, nil
}
