package symbol

import "slices"

// Rebuild returns a copy of s whose children are replaced by children,
// keeping the name and domains of s. Leaves are returned unchanged.
// Discretisation uses it to swap symbolic operands for their discrete
// counterparts without re-running domain checks.
func Rebuild(s Symbol, children []Symbol) Symbol {
	switch n := s.(type) {
	case *Binary:
		c := *n
		c.Left, c.Right = children[0], children[1]
		return &c
	case *Function:
		c := *n
		c.Child = children[0]
		return &c
	case *Concatenation:
		c := *n
		c.Items = slices.Clone(children)
		return &c
	case *FunctionParameter:
		c := *n
		c.Inputs = make([]Input, len(n.Inputs))
		for i, in := range n.Inputs {
			c.Inputs[i] = Input{Name: in.Name, Symbol: children[i]}
		}
		return &c
	}
	return s
}

// Retag returns a copy of s living on d with auxiliary domains aux.
func Retag(s Symbol, d Domain, aux AuxiliaryDomains) Symbol {
	switch n := s.(type) {
	case *Binary:
		c := *n
		c.domain, c.auxiliary = d, aux
		return &c
	case *Function:
		c := *n
		c.domain, c.auxiliary = d, aux
		return &c
	case *Concatenation:
		c := *n
		c.domain, c.auxiliary = d, aux
		return &c
	case *StateVector:
		c := *n
		c.domain, c.auxiliary = d, aux
		return &c
	case *Vector:
		c := *n
		c.domain, c.auxiliary = d, aux
		return &c
	case *Scalar:
		c := *n
		c.domain, c.auxiliary = d, aux
		return &c
	case *FunctionParameter:
		c := *n
		c.domain, c.auxiliary = d, aux
		return &c
	}
	return s
}

// Join builds a binary node tagged with d and aux without checking the
// operands' domains.
func Join(op Op, left, right Symbol, d Domain, aux AuxiliaryDomains) *Binary {
	return &Binary{base: base{name: string(op), domain: d, auxiliary: aux}, Op: op, Left: left, Right: right}
}
