package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/galvani/pkg/catalog"
	"github.com/aretw0/galvani/pkg/parameters"
)

func TestModelFile_Pipeline(t *testing.T) {
	cfg, err := Parse([]byte(`{
  "name": "lumped",
  "mesh": [{"name": "negative electrode", "start": 0, "end": 1, "npts": 3}],
  "submodels": [
    {"kind": "decay", "options": {"key": "c", "rate": "k", "initial": 2, "regions": ["negative electrode"]}}
  ],
  "inputs": {"k": 0.5}
}`), FormatJSON)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	p, err := cfg.Pipeline(catalog.Default(parameters.NewLithiumIon()))
	require.NoError(t, err)
	assert.Equal(t, "lumped", p.Name())

	res, err := p.Compile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.System.Len())
	assert.Equal(t, []float64{2, 2, 2}, res.System.Y0)
}

func TestModelFile_Pipeline_UnknownKind(t *testing.T) {
	cfg, err := Parse([]byte("mesh: []\nsubmodels:\n  - kind: thermal\n"), FormatYAML)
	require.NoError(t, err)

	_, err = cfg.Pipeline(catalog.Default(parameters.NewLithiumIon()))
	var unknown *catalog.UnknownKindError
	assert.ErrorAs(t, err, &unknown)
}
