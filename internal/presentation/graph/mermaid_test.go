package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/galvani/internal/presentation/graph"
	"github.com/aretw0/galvani/pkg/model"
	"github.com/aretw0/galvani/pkg/registry"
	"github.com/aretw0/galvani/pkg/submodel"
	"github.com/aretw0/galvani/pkg/submodel/aggregate"
	"github.com/aretw0/galvani/pkg/submodel/prescribed"
	"github.com/aretw0/galvani/pkg/symbol"
)

func buildModel(t *testing.T) *model.Model {
	t.Helper()
	partialNeg := aggregate.Partial(submodel.Negative, "")
	partialPos := aggregate.Partial(submodel.Positive, "")

	decay := prescribed.NewDecay("decay (negative)", "c", symbol.NewScalar(1), symbol.NewScalar(1))
	currents := submodel.Define("currents").
		Coupled(func(vars registry.Reader) (submodel.Variables, error) {
			c, err := vars.Require("c")
			if err != nil {
				return nil, err
			}
			return submodel.Variables{partialNeg: c, partialPos: symbol.Neg(c)}, nil
		}).
		Build()
	m, err := model.NewAssembler().
		Add(decay, currents).
		AddAggregator(aggregate.NewWholeCell("")).
		Build(context.Background())
	require.NoError(t, err)
	return m
}

func TestGenerateMermaid(t *testing.T) {
	m := buildModel(t)

	tests := []struct {
		name     string
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Node Shapes",
			contains: []string{
				"decay__negative_([\"decay (negative)\"])",
				"currents[\"currents\"]",
				"whole_cell_interfacial_current[[\"whole-cell interfacial current\"]]",
			},
		},
		{
			name: "Data Flow Edges",
			contains: []string{
				"decay__negative_ -- \"c\" --> currents",
				"currents -- \"Negative electrode interfacial current density<br/>Positive electrode interfacial current density\" --> whole_cell_interfacial_current",
			},
			excludes: []string{"-- \"Interfacial current density\" -->"},
		},
		{
			name:    "Overlay",
			overlay: &graph.GraphOverlay{Highlight: []string{"currents", "unknown"}},
			contains: []string{
				"classDef highlight",
				"class currents highlight;",
			},
			excludes: []string{"class unknown highlight;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(m, tt.overlay)
			assert.True(t, strings.HasPrefix(got, "graph LR\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}
