package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/galvani/pkg/catalog"
	"github.com/aretw0/galvani/pkg/spatial"
	"github.com/aretw0/galvani/pkg/submodel"
)

const decayYAML = `
mesh:
  - name: negative electrode
    start: 0
    end: 1
    npts: 4
  - name: current collector
    start: 0
submodels:
  - kind: decay
    options:
      key: c
      rate: k
      initial: 2
      regions: [negative electrode]
  - kind: interface
    domain: Negative
    options:
      kinetics: inverse-butler-volmer
inputs:
  k: 0.5
functions:
  Current function [A]: 1.5
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "decay.yaml", decayYAML))
	require.NoError(t, err)

	assert.Equal(t, "decay", cfg.Name, "name defaults to the file stem")
	require.Len(t, cfg.Mesh, 2)
	assert.Equal(t, "negative electrode", cfg.Mesh[0].Name)
	assert.Equal(t, 4, cfg.Mesh[0].Npts)
	assert.Equal(t, 0, cfg.Mesh[1].Npts)

	require.Len(t, cfg.Submodels, 2)
	assert.Equal(t, catalog.KindDecay, cfg.Submodels[0].Kind)
	assert.Equal(t, "c", cfg.Submodels[0].Options["key"])
	assert.Equal(t, submodel.Negative, cfg.Submodels[1].Domain)

	in := cfg.SymbolInputs()
	assert.Equal(t, 0.5, in.Values["k"])
	require.Contains(t, in.Functions, "Current function [A]")
	assert.Equal(t, 1.5, in.Functions["Current function [A]"](10))
}

func TestLoad_JSON(t *testing.T) {
	content := `{
  "name": "json model",
  "mesh": [{"name": "negative electrode", "start": 0, "end": 1, "npts": 2}],
  "submodels": [{"kind": "decay", "options": {"key": "c", "rate": 1, "initial": 1}}]
}`
	cfg, err := Load(writeFile(t, "model.json", content))
	require.NoError(t, err)
	assert.Equal(t, "json model", cfg.Name)
	require.Len(t, cfg.Submodels, 1)
	assert.Equal(t, "c", cfg.Submodels[0].Options["key"])
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    []string
	}{
		{
			name:    "malformed yaml",
			file:    "bad.yaml",
			content: "mesh: [",
			want:    []string{"failed to parse bad.yaml"},
		},
		{
			name:    "malformed json",
			file:    "bad.json",
			content: "{",
			want:    []string{"failed to parse bad.json"},
		},
		{
			name:    "no submodels",
			file:    "empty.yaml",
			content: "mesh: []",
			want:    []string{"no submodels declared"},
		},
		{
			name:    "finite volume on a point",
			file:    "point.yaml",
			content: "mesh:\n  - name: cell\n    method: finite-volume\nsubmodels:\n  - kind: decay\n",
			want:    []string{"mesh[0]: finite-volume needs npts > 0"},
		},
		{
			name: "every problem reported",
			file: "broken.yaml",
			content: `
mesh:
  - name: a
  - name: a
    method: spectral
  - npts: -1
submodels:
  - domain: Anode
`,
			want: []string{
				`mesh[1]: duplicate region "a"`,
				`mesh[1]: unknown method "spectral"`,
				"mesh[2]: region has no name",
				"mesh[2]: npts must not be negative",
				"submodels[0]: kind is required",
				`submodels[0]: unknown domain "Anode"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildMesh(t *testing.T) {
	cfg := &ModelFile{
		Mesh: []Region{
			{Name: "negative electrode", Start: 0, End: 0.4, Npts: 4},
			{Name: "separator", Start: 0.4, End: 0.6, Npts: 2, Method: MethodZeroDimensional},
			{Name: "current collector", Start: 1},
		},
	}
	m, methods, err := cfg.BuildMesh()
	require.NoError(t, err)

	assert.Equal(t, []string{"negative electrode", "separator", "current collector"}, m.Regions())
	sub, ok := m.Submesh("current collector")
	require.True(t, ok)
	assert.True(t, sub.ZeroDimensional())

	assert.IsType(t, &spatial.FiniteVolume{}, methods["negative electrode"])
	assert.IsType(t, &spatial.ZeroDimensional{}, methods["separator"])
	assert.IsType(t, &spatial.ZeroDimensional{}, methods["current collector"])
}

func TestBuildMesh_InvalidRegion(t *testing.T) {
	cfg := &ModelFile{Mesh: []Region{{Name: "backwards", Start: 1, End: 0, Npts: 3}}}
	_, _, err := cfg.BuildMesh()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `region "backwards"`)
}
