package kinetics

import (
	"errors"
	"fmt"

	"github.com/aretw0/galvani/pkg/parameters"
	"github.com/aretw0/galvani/pkg/submodel"
)

// Builder assembles an Interface from strategies. Unset strategies default
// to Butler-Volmer kinetics with the lithium-ion exchange current and OCP.
type Builder struct {
	param    *parameters.LithiumIon
	domain   submodel.Domain
	name     string
	kinetics Kinetics
	exchange ExchangeCurrent
	ocp      OpenCircuitPotential
}

// NewBuilder starts an interface for domain d.
func NewBuilder(param *parameters.LithiumIon, d submodel.Domain) *Builder {
	return &Builder{param: param, domain: d}
}

// Name overrides the submodel name.
func (b *Builder) Name(name string) *Builder {
	b.name = name
	return b
}

// Kinetics selects the kinetics strategy.
func (b *Builder) Kinetics(k Kinetics) *Builder {
	b.kinetics = k
	return b
}

// ExchangeCurrent selects the exchange current strategy.
func (b *Builder) ExchangeCurrent(x ExchangeCurrent) *Builder {
	b.exchange = x
	return b
}

// OCP selects the open-circuit potential strategy.
func (b *Builder) OCP(o OpenCircuitPotential) *Builder {
	b.ocp = o
	return b
}

// Build validates the selection and returns the submodel.
func (b *Builder) Build() (*Interface, error) {
	if b.param == nil {
		return nil, errors.New("interface submodel needs a lithium-ion parameter set")
	}
	if b.domain != submodel.Negative && b.domain != submodel.Positive {
		return nil, fmt.Errorf("interface submodel domain must be Negative or Positive, got %q", b.domain)
	}

	i := &Interface{
		param:    b.param,
		kinetics: b.kinetics,
		exchange: b.exchange,
		ocp:      b.ocp,
	}
	if i.kinetics == nil {
		i.kinetics = ButlerVolmer{}
	}
	if i.exchange == nil {
		i.exchange = LithiumIonExchange{Param: b.param}
	}
	if i.ocp == nil {
		i.ocp = LithiumIonOCP{Param: b.param}
	}

	name := b.name
	if name == "" {
		name = fmt.Sprintf("%s interface (%s)", b.domain.Lower(), i.kinetics.Name())
	}
	i.Base = submodel.NewBase(name, b.domain)
	return i, nil
}
