package symbol

import (
	"slices"
	"strings"
)

// Auxiliary domain levels.
const (
	Secondary = "secondary"
	Tertiary  = "tertiary"
)

// Domain is an ordered list of region names. An empty Domain means the
// symbol is not spatially resolved.
type Domain []string

// Empty reports whether d names no region.
func (d Domain) Empty() bool { return len(d) == 0 }

// Equal reports whether d and o name the same regions in the same order.
func (d Domain) Equal(o Domain) bool { return slices.Equal(d, o) }

// Contains reports whether region is part of d.
func (d Domain) Contains(region string) bool { return slices.Contains(d, region) }

func (d Domain) String() string {
	return "[" + strings.Join(d, ", ") + "]"
}

// AuxiliaryDomains maps a level (Secondary, Tertiary) to a Domain.
type AuxiliaryDomains map[string]Domain

// Get returns the domain at level, or nil.
func (a AuxiliaryDomains) Get(level string) Domain {
	if a == nil {
		return nil
	}
	return a[level]
}

// Empty reports whether no level holds a region.
func (a AuxiliaryDomains) Empty() bool {
	for _, d := range a {
		if !d.Empty() {
			return false
		}
	}
	return true
}

// Equal compares two sets of auxiliary domains, ignoring empty levels.
func (a AuxiliaryDomains) Equal(o AuxiliaryDomains) bool {
	for _, level := range []string{Secondary, Tertiary} {
		if !a.Get(level).Equal(o.Get(level)) {
			return false
		}
	}
	return true
}

// shift promotes auxiliary levels by one: secondary becomes the primary
// domain, tertiary becomes secondary. Used by operators that reduce over
// the primary domain.
func (a AuxiliaryDomains) shift() (Domain, AuxiliaryDomains) {
	primary := a.Get(Secondary)
	var rest AuxiliaryDomains
	if t := a.Get(Tertiary); !t.Empty() {
		rest = AuxiliaryDomains{Secondary: t}
	}
	return primary, rest
}

func (a AuxiliaryDomains) clone() AuxiliaryDomains {
	if a.Empty() {
		return nil
	}
	out := make(AuxiliaryDomains, len(a))
	for k, v := range a {
		if !v.Empty() {
			out[k] = slices.Clone(v)
		}
	}
	return out
}

// mergeDomains returns the domain two operands share. ok is false when both
// are non-empty and differ.
func mergeDomains(l, r Domain) (Domain, bool) {
	switch {
	case l.Empty():
		return r, true
	case r.Empty():
		return l, true
	case l.Equal(r):
		return l, true
	default:
		return nil, false
	}
}

func mergeAuxiliary(l, r AuxiliaryDomains) (AuxiliaryDomains, bool) {
	switch {
	case l.Empty():
		return r, true
	case r.Empty():
		return l, true
	case l.Equal(r):
		return l, true
	default:
		return nil, false
	}
}
