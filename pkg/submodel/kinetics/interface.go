package kinetics

import (
	"fmt"
	"maps"

	"github.com/aretw0/galvani/pkg/parameters"
	"github.com/aretw0/galvani/pkg/registry"
	"github.com/aretw0/galvani/pkg/submodel"
)

// Interface is the reaction at the electrode/electrolyte interface of one
// electrode. It only derives variables; it owns no unknowns.
type Interface struct {
	submodel.Base
	param    *parameters.LithiumIon
	kinetics Kinetics
	exchange ExchangeCurrent
	ocp      OpenCircuitPotential
}

// Kinetics returns the kinetics strategy in use.
func (i *Interface) Kinetics() Kinetics { return i.kinetics }

// CoupledVariables publishes the exchange current, the OCP variables and
// the variables of the kinetics strategy.
func (i *Interface) CoupledVariables(vars registry.Reader) (submodel.Variables, error) {
	// 1. Exchange current density
	j0, err := i.exchange.ExchangeCurrentDensity(vars, i.Domain)
	if err != nil {
		return nil, fmt.Errorf("exchange current: %w", err)
	}

	// 2. Open-circuit potential
	ocp, out, err := i.ocp.OpenCircuitPotential(vars, i.Domain)
	if err != nil {
		return nil, fmt.Errorf("open circuit potential: %w", err)
	}
	out[ExchangeCurrentDensity(i.Domain)] = j0

	// 3. Kinetics
	kin, err := i.kinetics.Couple(vars, Reaction{
		Domain:          i.Domain,
		ExchangeCurrent: j0,
		OCP:             ocp,
		Electrons:       i.param.Electrons(i.Domain),
	})
	if err != nil {
		return nil, fmt.Errorf("%s kinetics: %w", i.kinetics.Name(), err)
	}
	maps.Copy(out, kin)
	return out, nil
}
