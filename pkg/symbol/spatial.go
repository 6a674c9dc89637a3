package symbol

import (
	"fmt"
	"slices"
	"strings"
)

// SpatialOperator is implemented by every node that a spatial method has to
// replace during discretisation.
type SpatialOperator interface {
	Symbol
	Operand() Symbol
	Operator() string
}

type unaryOp struct {
	base
	child Symbol
}

func (u *unaryOp) Children() []Symbol { return []Symbol{u.child} }

// Operand returns the expression the operator acts on.
func (u *unaryOp) Operand() Symbol { return u.child }

func spatialDomain(op string, child Symbol) base {
	if child.Domain().Empty() {
		panic(&DomainError{Op: op, Reason: fmt.Sprintf("domain of %q is empty", child.Name())})
	}
	return base{name: op, domain: child.Domain(), auxiliary: child.Auxiliary()}
}

func reducedDomain(op string, child Symbol) base {
	if child.Domain().Empty() {
		panic(&DomainError{Op: op, Reason: fmt.Sprintf("domain of %q is empty", child.Name())})
	}
	d, aux := child.Auxiliary().shift()
	return base{name: op, domain: d, auxiliary: aux}
}

// Gradient is the spatial derivative of its operand over the primary domain.
type Gradient struct{ unaryOp }

// Grad returns the gradient of x.
func Grad(x Symbol) *Gradient {
	return &Gradient{unaryOp{base: spatialDomain("grad", x), child: x}}
}

func (g *Gradient) Operator() string { return "Gradient" }
func (g *Gradient) String() string   { return fmt.Sprintf("grad(%s)", g.child) }

// Divergence is the divergence of a flux over the primary domain.
type Divergence struct{ unaryOp }

// DivOf returns the divergence of x.
func DivOf(x Symbol) *Divergence {
	return &Divergence{unaryOp{base: spatialDomain("div", x), child: x}}
}

func (d *Divergence) Operator() string { return "Divergence" }
func (d *Divergence) String() string   { return fmt.Sprintf("div(%s)", d.child) }

// Integral integrates its operand over the primary domain. The result lives
// on the operand's secondary domain. With Average set the result is divided
// by the length of the domain.
type Integral struct {
	unaryOp
	Dimension string
	Average   bool
}

// Integrate returns the integral of x over dimension.
func Integrate(x Symbol, dimension string) *Integral {
	return &Integral{unaryOp: unaryOp{base: reducedDomain("integral", x), child: x}, Dimension: dimension}
}

// XAverage returns the average of x over its primary domain.
func XAverage(x Symbol) *Integral {
	in := Integrate(x, "x")
	in.Average = true
	in.name = "x-average"
	return in
}

func (i *Integral) Operator() string { return "Integral" }

func (i *Integral) String() string {
	if i.Average {
		return fmt.Sprintf("x-average(%s)", i.child)
	}
	return fmt.Sprintf("integral d%s(%s)", i.Dimension, i.child)
}

// IndefiniteIntegral is the running integral of its operand, evaluated on
// the cell edges of the primary domain.
type IndefiniteIntegral struct {
	unaryOp
	Dimension string
}

// IndefiniteIntegrate returns the indefinite integral of x over dimension.
func IndefiniteIntegrate(x Symbol, dimension string) *IndefiniteIntegral {
	return &IndefiniteIntegral{unaryOp: unaryOp{base: spatialDomain("indefinite integral", x), child: x}, Dimension: dimension}
}

func (i *IndefiniteIntegral) Operator() string { return "IndefiniteIntegral" }
func (i *IndefiniteIntegral) String() string {
	return fmt.Sprintf("indefinite integral d%s(%s)", i.Dimension, i.child)
}

// BoundaryOperator is implemented by BoundaryValue and BoundaryFlux.
type BoundaryOperator interface {
	SpatialOperator
	Edge() Side
	IsFlux() bool
}

// BoundaryValue is the value of its operand on one side of its domain.
type BoundaryValue struct {
	unaryOp
	Side Side
}

// BoundaryValueOf returns the value of x at side.
func BoundaryValueOf(x Symbol, side Side) *BoundaryValue {
	return &BoundaryValue{unaryOp: unaryOp{base: reducedDomain("boundary value", x), child: x}, Side: side}
}

func (b *BoundaryValue) Operator() string { return "BoundaryValue" }
func (b *BoundaryValue) Edge() Side       { return b.Side }
func (b *BoundaryValue) IsFlux() bool     { return false }
func (b *BoundaryValue) String() string {
	return fmt.Sprintf("boundary value %s(%s)", b.Side, b.child)
}

// BoundaryFlux is the normal flux of its operand on one side of its domain.
type BoundaryFlux struct {
	unaryOp
	Side Side
}

// BoundaryFluxOf returns the flux of x at side.
func BoundaryFluxOf(x Symbol, side Side) *BoundaryFlux {
	return &BoundaryFlux{unaryOp: unaryOp{base: reducedDomain("boundary flux", x), child: x}, Side: side}
}

func (b *BoundaryFlux) Operator() string { return "BoundaryFlux" }
func (b *BoundaryFlux) Edge() Side       { return b.Side }
func (b *BoundaryFlux) IsFlux() bool     { return true }
func (b *BoundaryFlux) String() string {
	return fmt.Sprintf("boundary flux %s(%s)", b.Side, b.child)
}

// Broadcast copies its operand onto every point of a primary domain. The
// operand's own domain becomes the secondary domain of the result.
type Broadcast struct {
	unaryOp
}

// PrimaryBroadcast broadcasts x onto regions.
func PrimaryBroadcast(x Symbol, regions ...string) *Broadcast {
	b := base{name: "broadcast", domain: slices.Clone(Domain(regions))}
	if !x.Domain().Empty() {
		b.auxiliary = AuxiliaryDomains{Secondary: x.Domain()}
		if s := x.Auxiliary().Get(Secondary); !s.Empty() {
			b.auxiliary[Tertiary] = s
		}
	}
	return &Broadcast{unaryOp{base: b, child: x}}
}

func (b *Broadcast) String() string {
	return fmt.Sprintf("broadcast(%s -> %s)", b.child, b.domain)
}

// FullBroadcast copies a domain-less operand onto a primary domain together
// with its auxiliary domains.
type FullBroadcast struct {
	unaryOp
}

// FullBroadcastOf broadcasts x onto domain and aux.
func FullBroadcastOf(x Symbol, domain Domain, aux AuxiliaryDomains) *FullBroadcast {
	if !x.Domain().Empty() {
		panic(&DomainError{Op: "full broadcast", Reason: fmt.Sprintf("%q already has domain %s", x.Name(), x.Domain())})
	}
	return &FullBroadcast{unaryOp{base: base{name: "full broadcast", domain: slices.Clone(domain), auxiliary: aux.clone()}, child: x}}
}

func (b *FullBroadcast) String() string {
	return fmt.Sprintf("full broadcast(%s -> %s)", b.child, b.domain)
}

// Concatenation joins expressions living on disjoint regions into one
// expression on the union of the regions.
type Concatenation struct {
	base
	Items []Symbol
}

// Concat builds a concatenation. Items on overlapping regions panic with
// *DomainError.
func Concat(items ...Symbol) *Concatenation {
	c := &Concatenation{base: base{name: "concatenation"}, Items: slices.Clone(items)}
	for _, it := range items {
		for _, region := range it.Domain() {
			if c.domain.Contains(region) {
				panic(&DomainError{Op: "concatenation", Reason: fmt.Sprintf("region %q appears more than once", region)})
			}
			c.domain = append(c.domain, region)
		}
		aux, ok := mergeAuxiliary(c.auxiliary, it.Auxiliary())
		if !ok {
			panic(&DomainError{Op: "concatenation", Left: c.auxiliary.Get(Secondary), Right: it.Auxiliary().Get(Secondary), Auxiliary: true})
		}
		c.auxiliary = aux
	}
	return c
}

func (c *Concatenation) Children() []Symbol { return c.Items }

func (c *Concatenation) String() string {
	parts := make([]string, len(c.Items))
	for i, it := range c.Items {
		parts[i] = it.String()
	}
	return "concat(" + strings.Join(parts, ", ") + ")"
}
