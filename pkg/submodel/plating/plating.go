// Package plating implements reversible lithium plating on an electrode.
package plating

import (
	"fmt"

	"github.com/aretw0/galvani/pkg/parameters"
	"github.com/aretw0/galvani/pkg/registry"
	"github.com/aretw0/galvani/pkg/submodel"
	"github.com/aretw0/galvani/pkg/symbol"
)

// Reaction is the reaction name used in whole-cell aggregation.
const Reaction = "Li plating"

// Concentration is the name of the plated lithium concentration of d.
func Concentration(d submodel.Domain) string {
	return string(d) + " electrode Li plating concentration"
}

// InterfacialCurrent is the name of the stripping current density of d.
func InterfacialCurrent(d submodel.Domain) string {
	return string(d) + " electrode Li plating interfacial current density"
}

// Reversible models plating and stripping with symmetric Butler-Volmer
// style kinetics. The plated concentration is the submodel's only unknown.
type Reversible struct {
	submodel.Base
	param *parameters.LithiumIon
}

// NewReversible returns the plating submodel of domain d.
func NewReversible(param *parameters.LithiumIon, d submodel.Domain) (*Reversible, error) {
	if param == nil {
		return nil, fmt.Errorf("plating submodel needs a lithium-ion parameter set")
	}
	if d != submodel.Negative && d != submodel.Positive {
		return nil, fmt.Errorf("plating domain must be Negative or Positive, got %q", d)
	}
	return &Reversible{Base: submodel.NewBase(d.Lower()+" reversible plating", d), param: param}, nil
}

// FundamentalVariables creates the plated lithium concentration on the
// electrode, resolved per current-collector point.
func (r *Reversible) FundamentalVariables() (submodel.Variables, error) {
	c := symbol.NewVariable("Plated Li concentration",
		symbol.WithDomain(r.Domain.Electrode()),
		symbol.WithAuxiliary(symbol.Secondary, "current collector"),
	)
	out := submodel.Variables{}
	out[Concentration(r.Domain)] = c
	out["X-averaged "+r.Domain.Lower()+" electrode Li plating concentration"] = symbol.XAverage(c)
	return out, nil
}

// CoupledVariables derives the stripping current density
// j = (c_Li exp(0.5 eta) - c_e exp(-0.5 eta)) / C_plating
// with eta = phi_s - phi_e + U_ref / potential scale.
func (r *Reversible) CoupledVariables(vars registry.Reader) (submodel.Variables, error) {
	phiS, err := vars.Require(string(r.Domain) + " electrode potential")
	if err != nil {
		return nil, err
	}
	phiE, err := vars.Require(string(r.Domain) + " electrolyte potential")
	if err != nil {
		return nil, err
	}
	ce, err := vars.Require(string(r.Domain) + " electrolyte concentration")
	if err != nil {
		return nil, err
	}
	c, err := vars.Require(Concentration(r.Domain))
	if err != nil {
		return nil, err
	}

	phiRef := symbol.Div(r.param.UnRef, r.param.PotentialScale)
	eta := symbol.Add(symbol.Sub(phiS, phiE), phiRef)
	half := symbol.NewScalar(0.5)
	plating := symbol.Mul(c, symbol.Exp(symbol.Mul(half, eta)))
	stripping := symbol.Mul(ce, symbol.Exp(symbol.Mul(symbol.Neg(half), eta)))
	j := symbol.Mul(symbol.Div(symbol.NewScalar(1), r.param.CPlating), symbol.Sub(plating, stripping))

	out := submodel.Variables{}
	out[InterfacialCurrent(r.Domain)] = j
	out["X-averaged "+r.Domain.Lower()+" electrode Li plating interfacial current density"] = symbol.XAverage(j)
	return out, nil
}

// RHS is dc/dt = -Gamma_plating j.
func (r *Reversible) RHS(vars registry.Reader) (*symbol.Equations, error) {
	c, err := registry.RequireVariable(vars, Concentration(r.Domain))
	if err != nil {
		return nil, err
	}
	j, err := vars.Require(InterfacialCurrent(r.Domain))
	if err != nil {
		return nil, err
	}
	return symbol.NewEquations().Set(c, symbol.Mul(symbol.Neg(r.param.GammaPlating), j)), nil
}

// InitialConditions starts from the initial plated concentration.
func (r *Reversible) InitialConditions(vars registry.Reader) (*symbol.Equations, error) {
	c, err := registry.RequireVariable(vars, Concentration(r.Domain))
	if err != nil {
		return nil, err
	}
	return symbol.NewEquations().Set(c, r.param.CPlatedLi0), nil
}
