package kinetics

import (
	"github.com/aretw0/galvani/pkg/parameters"
	"github.com/aretw0/galvani/pkg/registry"
	"github.com/aretw0/galvani/pkg/submodel"
	"github.com/aretw0/galvani/pkg/symbol"
)

// Reaction carries what a kinetics strategy needs from the other strategies.
type Reaction struct {
	Domain          submodel.Domain
	ExchangeCurrent symbol.Symbol
	OCP             symbol.Symbol
	Electrons       symbol.Symbol
}

// Kinetics closes the relation between overpotential and current.
type Kinetics interface {
	Name() string
	Couple(vars registry.Reader, r Reaction) (submodel.Variables, error)
}

// ExchangeCurrent computes the exchange current density of a domain.
type ExchangeCurrent interface {
	ExchangeCurrentDensity(vars registry.Reader, d submodel.Domain) (symbol.Symbol, error)
}

// OpenCircuitPotential computes the equilibrium potential of a domain and
// the standard variables derived from it.
type OpenCircuitPotential interface {
	OpenCircuitPotential(vars registry.Reader, d submodel.Domain) (ocp symbol.Symbol, published submodel.Variables, err error)
}

// ButlerVolmer computes the current from the potentials:
// j = 2 j0 sinh(ne/2 (phi_s - phi_e - U)).
type ButlerVolmer struct{}

func (ButlerVolmer) Name() string { return "butler-volmer" }

func (ButlerVolmer) Couple(vars registry.Reader, r Reaction) (submodel.Variables, error) {
	phiS, err := vars.Require(electrodePotential(r.Domain))
	if err != nil {
		return nil, err
	}
	phiE, err := vars.Require(electrolytePotential(r.Domain))
	if err != nil {
		return nil, err
	}
	delta := symbol.Sub(phiS, phiE)
	eta := symbol.Sub(delta, r.OCP)
	half := symbol.Div(r.Electrons, symbol.NewScalar(2))
	j := symbol.Mul(symbol.Mul(symbol.NewScalar(2), r.ExchangeCurrent), symbol.Sinh(symbol.Mul(half, eta)))

	out := submodel.Variables{}
	out[SurfacePotentialDifference(r.Domain)] = delta
	out[ReactionOverpotential(r.Domain)] = eta
	out[InterfacialCurrent(r.Domain)] = j
	out[xAveraged(r.Domain, "reaction overpotential")] = averaged(eta)
	out[xAveraged(r.Domain, "interfacial current density")] = averaged(j)
	return out, nil
}

// InverseButlerVolmer computes the overpotential from a prescribed current:
// eta = 2/ne arcsinh(j / (2 j0)).
type InverseButlerVolmer struct{}

func (InverseButlerVolmer) Name() string { return "inverse butler-volmer" }

func (InverseButlerVolmer) Couple(vars registry.Reader, r Reaction) (submodel.Variables, error) {
	j, err := vars.Require(InterfacialCurrent(r.Domain))
	if err != nil {
		return nil, err
	}
	ratio := symbol.Div(j, symbol.Mul(symbol.NewScalar(2), r.ExchangeCurrent))
	eta := symbol.Mul(symbol.Div(symbol.NewScalar(2), r.Electrons), symbol.Arcsinh(ratio))
	delta := symbol.Add(eta, r.OCP)

	out := submodel.Variables{}
	out[ReactionOverpotential(r.Domain)] = eta
	out[SurfacePotentialDifference(r.Domain)] = delta
	out[xAveraged(r.Domain, "reaction overpotential")] = averaged(eta)
	return out, nil
}

// LithiumIonExchange is j0 = prefactor c_e^1/2 c_s^1/2 (1 - c_s)^1/2 with
// prefactor 1/C_r_n in the negative electrode and gamma_p/C_r_p in the
// positive one.
type LithiumIonExchange struct {
	Param *parameters.LithiumIon
}

func (x LithiumIonExchange) ExchangeCurrentDensity(vars registry.Reader, d submodel.Domain) (symbol.Symbol, error) {
	cs, err := vars.Require(surfaceConcentration(d))
	if err != nil {
		return nil, err
	}
	ce, err := vars.Require(electrolyteConcentration(d))
	if err != nil {
		return nil, err
	}

	var prefactor symbol.Symbol
	if d == submodel.Positive {
		prefactor = symbol.Div(x.Param.GammaP, x.Param.CrP)
	} else {
		prefactor = symbol.Div(symbol.NewScalar(1), x.Param.CrN)
	}

	one := symbol.NewScalar(1)
	return symbol.Mul(prefactor,
		symbol.Mul(symbol.Mul(symbol.Sqrt(ce), symbol.Sqrt(cs)), symbol.Sqrt(symbol.Sub(one, cs))),
	), nil
}

// LithiumIonOCP evaluates the electrode OCP function parameters at the
// particle surface concentration.
type LithiumIonOCP struct {
	Param *parameters.LithiumIon
}

func (o LithiumIonOCP) OpenCircuitPotential(vars registry.Reader, d submodel.Domain) (symbol.Symbol, submodel.Variables, error) {
	cs, err := vars.Require(surfaceConcentration(d))
	if err != nil {
		return nil, nil, err
	}
	ocp := o.Param.OCP(d, cs)
	ocpDim := symbol.Add(o.Param.ReferenceOCP(d), symbol.Mul(o.Param.PotentialScale, ocp))
	dUdT := o.Param.EntropicChange(d, cs)

	out := submodel.Variables{}
	out[OpenCircuitPotentialName(d)] = ocp
	out[OpenCircuitPotentialName(d)+" [V]"] = ocpDim
	out[average(d, "open circuit potential")] = averaged(ocp)
	out[average(d, "open circuit potential [V]")] = averaged(ocpDim)
	out[string(d)+" electrode entropic change"] = dUdT
	out[average(d, "entropic change")] = averaged(dUdT)
	return ocp, out, nil
}

// averaged takes the x-average of domain-scoped expressions and passes
// domain-less ones through.
func averaged(s symbol.Symbol) symbol.Symbol {
	if s.Domain().Empty() {
		return s
	}
	return symbol.XAverage(s)
}
