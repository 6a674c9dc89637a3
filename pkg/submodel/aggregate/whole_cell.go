// Package aggregate combines per-electrode variables into whole-cell ones.
package aggregate

import (
	"github.com/aretw0/galvani/pkg/registry"
	"github.com/aretw0/galvani/pkg/submodel"
	"github.com/aretw0/galvani/pkg/symbol"
)

// Partial returns the name of the interfacial current density of reaction
// in domain d. An empty reaction means the main intercalation reaction.
func Partial(d submodel.Domain, reaction string) string {
	if reaction == "" {
		return string(d) + " electrode interfacial current density"
	}
	return string(d) + " electrode " + reaction + " interfacial current density"
}

// Output returns the name of the whole-cell interfacial current density.
func Output(reaction string) string {
	if reaction == "" {
		return "Interfacial current density"
	}
	return reaction + " interfacial current density"
}

// WholeCell publishes the whole-cell interfacial current density of a
// reaction once both electrode partials exist. It publishes nothing while
// a partial is missing or when the whole-cell variable is already present.
type WholeCell struct {
	Reaction string
}

// NewWholeCell returns the aggregator of reaction.
func NewWholeCell(reaction string) *WholeCell {
	return &WholeCell{Reaction: reaction}
}

func (w *WholeCell) Name() string {
	if w.Reaction == "" {
		return "whole-cell interfacial current"
	}
	return "whole-cell " + w.Reaction + " current"
}

// Aggregate sums domain-less partials. Spatially resolved partials are
// joined across the cell with zero current in the separator.
func (w *WholeCell) Aggregate(vars registry.Reader) (submodel.Variables, error) {
	out := Output(w.Reaction)
	if vars.Has(out) {
		return nil, nil
	}
	neg, ok := vars.Lookup(Partial(submodel.Negative, w.Reaction))
	if !ok {
		return nil, nil
	}
	pos, ok := vars.Lookup(Partial(submodel.Positive, w.Reaction))
	if !ok {
		return nil, nil
	}

	var whole symbol.Symbol
	if neg.Domain().Empty() && pos.Domain().Empty() {
		whole = symbol.Add(neg, pos)
	} else {
		sep := symbol.FullBroadcastOf(symbol.NewScalar(0), symbol.Domain{submodel.Separator.Lower()}, neg.Auxiliary())
		whole = symbol.Concat(neg, sep, pos)
	}
	return submodel.Variables{out: whole}, nil
}
