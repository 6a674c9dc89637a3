package parameters

import (
	"github.com/aretw0/galvani/pkg/submodel"
	"github.com/aretw0/galvani/pkg/symbol"
)

// Function parameter names, also used as keys in symbol.Inputs.Functions.
const (
	NegativeOCP            = "Negative electrode OCP"
	PositiveOCP            = "Positive electrode OCP"
	NegativeEntropicChange = "Negative electrode OCP entropic change"
	PositiveEntropicChange = "Positive electrode OCP entropic change"
	NegativeStoichiometry  = "Negative particle stoichiometry"
	PositiveStoichiometry  = "Positive particle stoichiometry"
)

// LithiumIon holds the dimensionless lithium-ion parameters used by the
// interface and plating submodels.
type LithiumIon struct {
	CrN, CrP       *symbol.Parameter // reaction timescales
	GammaP         *symbol.Parameter // positive to negative exchange-current ratio
	NeN, NeP       *symbol.Parameter // electrons transferred per reaction
	UnRef, UpRef   *symbol.Parameter // reference open-circuit potentials [V]
	PotentialScale *symbol.Parameter // thermal voltage RT/F [V]

	CPlating     *symbol.Parameter
	GammaPlating *symbol.Parameter
	CPlatedLi0   *symbol.Parameter
}

// NewLithiumIon declares the lithium-ion parameter set.
func NewLithiumIon() *LithiumIon {
	p := symbol.NewParameter
	return &LithiumIon{
		CrN:            p("Negative electrode reaction timescale"),
		CrP:            p("Positive electrode reaction timescale"),
		GammaP:         p("Positive electrode exchange-current density ratio"),
		NeN:            p("Negative electrode electrons in reaction"),
		NeP:            p("Positive electrode electrons in reaction"),
		UnRef:          p("Negative electrode reference OCP [V]"),
		UpRef:          p("Positive electrode reference OCP [V]"),
		PotentialScale: p("Potential scale [V]"),
		CPlating:       p("Lithium plating kinetic timescale"),
		GammaPlating:   p("Lithium plating rate ratio"),
		CPlatedLi0:     p("Initial plated lithium concentration"),
	}
}

// OCP returns the open-circuit potential of domain d at stoichiometry cs.
func (p *LithiumIon) OCP(d submodel.Domain, cs symbol.Symbol) symbol.Symbol {
	if d == submodel.Positive {
		return symbol.NewFunctionParameter(PositiveOCP, symbol.In(PositiveStoichiometry, cs))
	}
	return symbol.NewFunctionParameter(NegativeOCP, symbol.In(NegativeStoichiometry, cs))
}

// EntropicChange returns dU/dT of domain d at stoichiometry cs.
func (p *LithiumIon) EntropicChange(d submodel.Domain, cs symbol.Symbol) symbol.Symbol {
	if d == submodel.Positive {
		return symbol.NewFunctionParameter(PositiveEntropicChange, symbol.In(PositiveStoichiometry, cs))
	}
	return symbol.NewFunctionParameter(NegativeEntropicChange, symbol.In(NegativeStoichiometry, cs))
}

// ReferenceOCP returns the dimensional reference potential of domain d.
func (p *LithiumIon) ReferenceOCP(d submodel.Domain) *symbol.Parameter {
	if d == submodel.Positive {
		return p.UpRef
	}
	return p.UnRef
}

// Electrons returns the number of electrons transferred in domain d.
func (p *LithiumIon) Electrons(d submodel.Domain) *symbol.Parameter {
	if d == submodel.Positive {
		return p.NeP
	}
	return p.NeN
}
