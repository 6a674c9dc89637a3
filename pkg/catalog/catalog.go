package catalog

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/galvani/pkg/submodel"
	"github.com/aretw0/galvani/pkg/symbol"
)

// Spec describes one configured submodel.
type Spec struct {
	Kind    string          `yaml:"kind" json:"kind" validate:"required"`
	Name    string          `yaml:"name,omitempty" json:"name,omitempty"`
	Domain  submodel.Domain `yaml:"domain,omitempty" json:"domain,omitempty" validate:"omitempty,domain"`
	Options map[string]any  `yaml:"options,omitempty" json:"options,omitempty"`
}

// Factory builds a submodel or an aggregator from its spec. Aggregators
// are returned as submodels and told apart by type.
type Factory func(spec Spec) (submodel.Submodel, error)

// UnknownKindError is returned for a kind with no factory.
type UnknownKindError struct {
	Kind  string
	Known []string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown submodel kind %q (known: %v)", e.Kind, e.Known)
}

// Catalog manages the available submodel kinds.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory for kind.
// If a factory with the same kind exists, it is overwritten.
func (c *Catalog) Register(kind string, f Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[kind] = f
}

// Kinds returns the registered kinds in sorted order.
func (c *Catalog) Kinds() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	kinds := make([]string, 0, len(c.factories))
	for k := range c.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Build looks up the factory of spec.Kind and runs it.
func (c *Catalog) Build(spec Spec) (submodel.Submodel, error) {
	c.mu.RLock()
	f, ok := c.factories[spec.Kind]
	c.mu.RUnlock()

	if !ok {
		return nil, &UnknownKindError{Kind: spec.Kind, Known: c.Kinds()}
	}
	sm, err := f(spec)
	if err != nil {
		return nil, fmt.Errorf("%s submodel: %w", spec.Kind, err)
	}
	return sm, nil
}

// Resolve builds every spec in order and splits the results into
// submodels and aggregators.
func (c *Catalog) Resolve(specs []Spec) ([]submodel.Submodel, []submodel.Aggregator, error) {
	var (
		sms []submodel.Submodel
		ags []submodel.Aggregator
	)
	for i, spec := range specs {
		sm, err := c.Build(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("submodels[%d]: %w", i, err)
		}
		if ag, ok := sm.(submodel.Aggregator); ok {
			ags = append(ags, ag)
			continue
		}
		sms = append(sms, sm)
	}
	return sms, ags, nil
}

var symbolType = reflect.TypeOf((*symbol.Symbol)(nil)).Elem()

// symbolHook turns numbers into Scalars and strings into Parameters when
// the target is a Symbol.
func symbolHook(from, to reflect.Type, data any) (any, error) {
	if to != symbolType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return symbol.NewParameter(v), nil
	case int:
		return symbol.NewScalar(float64(v)), nil
	case int64:
		return symbol.NewScalar(float64(v)), nil
	case float64:
		return symbol.NewScalar(v), nil
	case symbol.Symbol:
		return v, nil
	default:
		return nil, fmt.Errorf("cannot use %s value %v as a symbol", from, data)
	}
}

// Decode decodes spec options into out, rejecting unknown keys.
func Decode(options map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  symbolHook,
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(options); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// name returns spec.Name or fallback.
func name(spec Spec, fallback string) string {
	if spec.Name != "" {
		return spec.Name
	}
	return fallback
}

// domainOptions returns symbol options placing a variable on regions.
func domainOptions(regions, secondary []string) []symbol.Option {
	var opts []symbol.Option
	if len(regions) > 0 {
		opts = append(opts, symbol.WithDomain(slices.Clone(regions)...))
	}
	if len(secondary) > 0 {
		opts = append(opts, symbol.WithAuxiliary(symbol.Secondary, slices.Clone(secondary)...))
	}
	return opts
}
