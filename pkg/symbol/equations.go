package symbol

// Equations is an insertion-ordered map from Variable to expression.
// Insertion order fixes the layout of the discretised state vector.
type Equations struct {
	keys   []*Variable
	values map[*Variable]Symbol
}

// NewEquations returns an empty equation set.
func NewEquations() *Equations {
	return &Equations{values: make(map[*Variable]Symbol)}
}

// Set assigns expr to v. Re-assigning keeps the original position.
func (e *Equations) Set(v *Variable, expr Symbol) *Equations {
	if _, ok := e.values[v]; !ok {
		e.keys = append(e.keys, v)
	}
	e.values[v] = expr
	return e
}

// Get returns the expression assigned to v.
func (e *Equations) Get(v *Variable) (Symbol, bool) {
	if e == nil {
		return nil, false
	}
	s, ok := e.values[v]
	return s, ok
}

// Has reports whether v has an expression.
func (e *Equations) Has(v *Variable) bool {
	_, ok := e.Get(v)
	return ok
}

// Keys returns the variables in insertion order.
func (e *Equations) Keys() []*Variable {
	if e == nil {
		return nil
	}
	return append([]*Variable(nil), e.keys...)
}

// Len returns the number of entries.
func (e *Equations) Len() int {
	if e == nil {
		return 0
	}
	return len(e.keys)
}

// All iterates entries in insertion order.
func (e *Equations) All() func(yield func(*Variable, Symbol) bool) {
	return func(yield func(*Variable, Symbol) bool) {
		if e == nil {
			return
		}
		for _, k := range e.keys {
			if !yield(k, e.values[k]) {
				return
			}
		}
	}
}
