package catalog

import (
	"errors"
	"fmt"

	"github.com/aretw0/galvani/pkg/parameters"
	"github.com/aretw0/galvani/pkg/submodel"
	"github.com/aretw0/galvani/pkg/submodel/aggregate"
	"github.com/aretw0/galvani/pkg/submodel/kinetics"
	"github.com/aretw0/galvani/pkg/submodel/plating"
	"github.com/aretw0/galvani/pkg/submodel/prescribed"
	"github.com/aretw0/galvani/pkg/symbol"
)

// Built-in kinds.
const (
	KindDecay      = "decay"
	KindPrescribed = "prescribed"
	KindInterface  = "interface"
	KindPlating    = "plating"
	KindWholeCell  = "whole-cell"
	KindCurrent    = "applied-current"
)

// DecayOptions configures a "decay" submodel.
type DecayOptions struct {
	Key       string        `mapstructure:"key"`
	Rate      symbol.Symbol `mapstructure:"rate"`
	Initial   symbol.Symbol `mapstructure:"initial"`
	Regions   []string      `mapstructure:"regions"`
	Secondary []string      `mapstructure:"secondary"`
}

// PrescribedOptions configures a "prescribed" submodel.
type PrescribedOptions struct {
	Variables map[string]symbol.Symbol `mapstructure:"variables"`
}

// InterfaceOptions configures an "interface" submodel.
type InterfaceOptions struct {
	Kinetics string `mapstructure:"kinetics"`
}

// AggregateOptions configures a "whole-cell" aggregator.
type AggregateOptions struct {
	Reaction string `mapstructure:"reaction"`
}

// Default returns a catalog with every built-in kind. Lithium-ion kinds
// share param.
func Default(param *parameters.LithiumIon) *Catalog {
	c := New()
	c.Register(KindDecay, decay)
	c.Register(KindPrescribed, prescribedVariables)
	c.Register(KindInterface, func(spec Spec) (submodel.Submodel, error) {
		return reactionInterface(param, spec)
	})
	c.Register(KindPlating, func(spec Spec) (submodel.Submodel, error) {
		if len(spec.Options) > 0 {
			return nil, errors.New("plating takes no options")
		}
		return plating.NewReversible(param, spec.Domain)
	})
	c.Register(KindWholeCell, wholeCell)
	c.Register(KindCurrent, appliedCurrent)
	return c
}

func decay(spec Spec) (submodel.Submodel, error) {
	var opts DecayOptions
	if err := Decode(spec.Options, &opts); err != nil {
		return nil, err
	}
	if opts.Key == "" {
		return nil, errors.New("decay needs a key")
	}
	return prescribed.NewDecay(name(spec, opts.Key+" decay"), opts.Key, opts.Rate, opts.Initial,
		domainOptions(opts.Regions, opts.Secondary)...), nil
}

func prescribedVariables(spec Spec) (submodel.Submodel, error) {
	var opts PrescribedOptions
	if err := Decode(spec.Options, &opts); err != nil {
		return nil, err
	}
	if len(opts.Variables) == 0 {
		return nil, errors.New("prescribed needs at least one variable")
	}
	return prescribed.NewVariables(name(spec, "prescribed variables"), opts.Variables), nil
}

func reactionInterface(param *parameters.LithiumIon, spec Spec) (submodel.Submodel, error) {
	var opts InterfaceOptions
	if err := Decode(spec.Options, &opts); err != nil {
		return nil, err
	}
	b := kinetics.NewBuilder(param, spec.Domain)
	switch opts.Kinetics {
	case "", "butler-volmer":
		b.Kinetics(kinetics.ButlerVolmer{})
	case "inverse-butler-volmer":
		b.Kinetics(kinetics.InverseButlerVolmer{})
	default:
		return nil, fmt.Errorf("unknown kinetics %q", opts.Kinetics)
	}
	if spec.Name != "" {
		b.Name(spec.Name)
	}
	return b.Build()
}

func wholeCell(spec Spec) (submodel.Submodel, error) {
	var opts AggregateOptions
	if err := Decode(spec.Options, &opts); err != nil {
		return nil, err
	}
	return aggregate.NewWholeCell(opts.Reaction), nil
}

// Names published by the "applied-current" kind.
const (
	CurrentVariable        = "Current [A]"
	ThermalVoltageVariable = "Thermal voltage [V]"
)

// appliedCurrent publishes the time-dependent applied current of the
// lithium-sulfur parameter set and its thermal voltage.
func appliedCurrent(spec Spec) (submodel.Submodel, error) {
	if len(spec.Options) > 0 {
		return nil, errors.New("applied-current takes no options")
	}
	ls := parameters.NewLithiumSulfur()
	return prescribed.NewVariables(name(spec, "applied current"), submodel.Variables{
		CurrentVariable:        ls.Current,
		ThermalVoltageVariable: ls.ThermalVoltage(),
	}), nil
}
