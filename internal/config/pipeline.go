package config

import (
	"fmt"

	"github.com/aretw0/galvani"
	"github.com/aretw0/galvani/pkg/catalog"
)

// Pipeline builds the mesh, resolves the submodels against cat and returns
// a pipeline named after the file. Extra options are applied after the ones
// derived from the file.
func (f *ModelFile) Pipeline(cat *catalog.Catalog, opts ...galvani.Option) (*galvani.Pipeline, error) {
	m, methods, err := f.BuildMesh()
	if err != nil {
		return nil, fmt.Errorf("invalid mesh: %w", err)
	}

	sms, ags, err := cat.Resolve(f.Submodels)
	if err != nil {
		return nil, err
	}

	base := []galvani.Option{
		galvani.WithName(f.Name),
		galvani.WithInputs(f.SymbolInputs()),
	}
	return galvani.New(m, methods, append(base, opts...)...).
		Add(sms...).
		AddAggregator(ags...), nil
}
