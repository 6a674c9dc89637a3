package discretise

import (
	"fmt"
	"slices"

	"github.com/aretw0/galvani/pkg/symbol"
)

// Entry places one variable in the state vector.
type Entry struct {
	Variable     string    `json:"variable" yaml:"variable"`
	Domain       []string  `json:"domain,omitempty" yaml:"domain,omitempty"`
	Start        int       `json:"start" yaml:"start"`
	Stop         int       `json:"stop" yaml:"stop"`
	Differential bool      `json:"differential" yaml:"differential"`
	Y0           []float64 `json:"y0,omitempty" yaml:"y0,omitempty"`
}

// Slice returns the half-open range of the entry.
func (e Entry) Slice() symbol.Slice {
	return symbol.Slice{Start: e.Start, Stop: e.Stop}
}

// Layout is the serialisable map of a compiled state vector.
type Layout struct {
	Model   string  `json:"model" yaml:"model"`
	Size    int     `json:"size" yaml:"size"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Lookup returns the entry of variable.
func (l *Layout) Lookup(variable string) (Entry, bool) {
	i := slices.IndexFunc(l.Entries, func(e Entry) bool { return e.Variable == variable })
	if i < 0 {
		return Entry{}, false
	}
	return l.Entries[i], true
}

// Mask reports, per state slot, whether it is differential.
func (l *Layout) Mask() []bool {
	mask := make([]bool, l.Size)
	for _, e := range l.Entries {
		for i := e.Start; i < e.Stop; i++ {
			mask[i] = e.Differential
		}
	}
	return mask
}

// Differential returns the number of differential slots.
func (l *Layout) Differential() int {
	n := 0
	for _, e := range l.Entries {
		if e.Differential {
			n += e.Stop - e.Start
		}
	}
	return n
}

// Equal reports whether two layouts place the same variables identically.
// Initial values are not compared.
func (l *Layout) Equal(o *Layout) bool {
	if l.Model != o.Model || l.Size != o.Size || len(l.Entries) != len(o.Entries) {
		return false
	}
	for i, e := range l.Entries {
		f := o.Entries[i]
		if e.Variable != f.Variable || e.Start != f.Start || e.Stop != f.Stop ||
			e.Differential != f.Differential || !slices.Equal(e.Domain, f.Domain) {
			return false
		}
	}
	return true
}

// Validate checks that the entries tile [0, Size) in order without gaps
// and that initial values, when present, match their slices.
func (l *Layout) Validate() error {
	if l.Model == "" {
		return fmt.Errorf("%w: no model name", ErrInvalidLayout)
	}
	next := 0
	for _, e := range l.Entries {
		if e.Start != next || e.Stop < e.Start {
			return fmt.Errorf("%w: %q occupies %d:%d, expected to start at %d", ErrInvalidLayout, e.Variable, e.Start, e.Stop, next)
		}
		if e.Y0 != nil && len(e.Y0) != e.Stop-e.Start {
			return fmt.Errorf("%w: %q has %d initial values for %d slots", ErrInvalidLayout, e.Variable, len(e.Y0), e.Stop-e.Start)
		}
		next = e.Stop
	}
	if next != l.Size {
		return fmt.Errorf("%w: entries cover %d of %d slots", ErrInvalidLayout, next, l.Size)
	}
	return nil
}
