package main

import (
	"github.com/aretw0/galvani"
	"github.com/aretw0/galvani/internal/config"
	"github.com/aretw0/galvani/pkg/catalog"
	"github.com/aretw0/galvani/pkg/parameters"
)

// defaultCatalog resolves submodel kinds against the default lithium-ion
// parameter set.
func defaultCatalog() *catalog.Catalog {
	return catalog.Default(parameters.NewLithiumIon())
}

// loadPipeline reads a model file and builds its pipeline. Extra options
// are applied after the ones derived from the file.
func loadPipeline(path string, opts ...galvani.Option) (*galvani.Pipeline, *config.ModelFile, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	p, err := cfg.Pipeline(defaultCatalog(), append([]galvani.Option{galvani.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	return p, cfg, nil
}
