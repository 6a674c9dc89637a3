package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/galvani/pkg/catalog"
	"github.com/aretw0/galvani/pkg/mesh"
	"github.com/aretw0/galvani/pkg/spatial"
	"github.com/aretw0/galvani/pkg/symbol"
)

// Spatial method names accepted in a region.
const (
	MethodFiniteVolume    = "finite-volume"
	MethodZeroDimensional = "zero-dimensional"
)

// Region is one mesh region. A region with npts 0 is a single point at
// start.
type Region struct {
	Name   string  `yaml:"name" json:"name" validate:"required"`
	Start  float64 `yaml:"start" json:"start"`
	End    float64 `yaml:"end" json:"end"`
	Npts   int     `yaml:"npts" json:"npts" validate:"gte=0"`
	Method string  `yaml:"method,omitempty" json:"method,omitempty" validate:"omitempty,oneof=finite-volume zero-dimensional"`
}

// ModelFile represents the structure of a model file.
type ModelFile struct {
	Name      string             `yaml:"name" json:"name"`
	Mesh      []Region           `yaml:"mesh" json:"mesh" validate:"dive"`
	Submodels []catalog.Spec     `yaml:"submodels" json:"submodels" validate:"min=1,dive"`
	Inputs    map[string]float64 `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	// Functions binds function parameters to constant values.
	Functions map[string]float64 `yaml:"functions,omitempty" json:"functions,omitempty"`
}

// Formats accepted by Parse.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Load reads a model file (YAML or JSON, by extension) and validates it.
// The name defaults to the file name without its extension.
func Load(path string) (*ModelFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	format := FormatYAML
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		format = FormatJSON
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a model file without validating it. Any format other than
// FormatJSON is read as YAML.
func Parse(data []byte, format string) (*ModelFile, error) {
	var cfg ModelFile
	if format == FormatJSON {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the file for structural errors. All problems are
// reported together.
func (f *ModelFile) Validate() error {
	var errs []error
	if err := validate.Struct(f); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			errs = append(errs, describe(fe))
		}
	}
	seen := make(map[string]bool)
	for i, r := range f.Mesh {
		if r.Name != "" && seen[r.Name] {
			errs = append(errs, fmt.Errorf("mesh[%d]: duplicate region %q", i, r.Name))
		}
		seen[r.Name] = true
		// A point region has no cells to take differences over.
		if r.Method == MethodFiniteVolume && r.Npts == 0 {
			errs = append(errs, fmt.Errorf("mesh[%d]: %s needs npts > 0", i, MethodFiniteVolume))
		}
	}
	return errors.Join(errs...)
}

// BuildMesh creates the mesh and the spatial method of every region.
// Point regions default to the zero-dimensional method, the others to
// finite volumes.
func (f *ModelFile) BuildMesh() (*mesh.Mesh, map[string]spatial.Method, error) {
	regions := make([]mesh.Region, 0, len(f.Mesh))
	for _, r := range f.Mesh {
		sub := mesh.Point(r.Start)
		if r.Npts > 0 {
			var err error
			if sub, err = mesh.Uniform(r.Start, r.End, r.Npts); err != nil {
				return nil, nil, fmt.Errorf("region %q: %w", r.Name, err)
			}
		}
		regions = append(regions, mesh.Region{Name: r.Name, Submesh: sub})
	}
	m, err := mesh.New(regions...)
	if err != nil {
		return nil, nil, err
	}

	methods := make(map[string]spatial.Method, len(f.Mesh))
	for _, r := range f.Mesh {
		method := r.Method
		if method == "" {
			method = MethodFiniteVolume
			if r.Npts == 0 {
				method = MethodZeroDimensional
			}
		}
		if method == MethodZeroDimensional {
			methods[r.Name] = spatial.NewZeroDimensional(m)
		} else {
			methods[r.Name] = spatial.NewFiniteVolume(m)
		}
	}
	return m, methods, nil
}

// SymbolInputs returns the declared input values for evaluation.
func (f *ModelFile) SymbolInputs() symbol.Inputs {
	in := symbol.Inputs{
		Values:    maps.Clone(f.Inputs),
		Functions: make(map[string]func(...float64) float64, len(f.Functions)),
	}
	for name, v := range f.Functions {
		in.Functions[name] = func(...float64) float64 { return v }
	}
	return in
}
