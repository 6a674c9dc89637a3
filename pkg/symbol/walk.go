package symbol

// Walk visits s and its descendants depth-first, parents before children.
// Returning false from fn skips the children of that node.
func Walk(s Symbol, fn func(Symbol) bool) {
	if !fn(s) {
		return
	}
	for _, c := range s.Children() {
		Walk(c, fn)
	}
}

// Variables returns the distinct variables referenced by s, in order of
// first appearance.
func Variables(s Symbol) []*Variable {
	var out []*Variable
	seen := make(map[*Variable]bool)
	Walk(s, func(n Symbol) bool {
		if v, ok := n.(*Variable); ok && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
		return true
	})
	return out
}

// StateStop returns one past the largest state index read by s, or 0 when
// s reads no state.
func StateStop(s Symbol) int {
	stop := 0
	Walk(s, func(n Symbol) bool {
		if sv, ok := n.(*StateVector); ok {
			stop = max(stop, sv.Stop())
		}
		return true
	})
	return stop
}
