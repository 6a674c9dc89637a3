// Package mesh describes the pre-built one-dimensional meshes the
// discretiser works on. Mesh generation is the caller's concern; this
// package only stores the geometry and answers questions about it.
package mesh

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/aretw0/galvani/pkg/symbol"
)

var (
	// ErrUnknownRegion is returned when a domain names a region the mesh lacks.
	ErrUnknownRegion = errors.New("region not in mesh")

	// ErrNotAdjacent is returned when regions of one domain do not share edges.
	ErrNotAdjacent = errors.New("regions are not adjacent")
)

// Submesh is the cell-centred mesh of one region. A zero-dimensional
// submesh (a single point, e.g. a lumped current collector) has one edge.
type Submesh struct {
	Edges []float64
}

// NewSubmesh validates edges and returns a submesh.
func NewSubmesh(edges []float64) (*Submesh, error) {
	if len(edges) == 0 {
		return nil, errors.New("submesh needs at least one edge")
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return nil, fmt.Errorf("submesh edges must be strictly increasing, got %v then %v", edges[i-1], edges[i])
		}
	}
	return &Submesh{Edges: slices.Clone(edges)}, nil
}

// Uniform returns npts equal cells between start and end.
func Uniform(start, end float64, npts int) (*Submesh, error) {
	if npts < 1 {
		return nil, fmt.Errorf("npts must be positive, got %d", npts)
	}
	edges := make([]float64, npts+1)
	for i := range edges {
		edges[i] = start + (end-start)*float64(i)/float64(npts)
	}
	return NewSubmesh(edges)
}

// Point returns a zero-dimensional submesh at x.
func Point(x float64) *Submesh {
	return &Submesh{Edges: []float64{x}}
}

// ZeroDimensional reports whether the submesh is a single point.
func (s *Submesh) ZeroDimensional() bool { return len(s.Edges) == 1 }

// Npts is the number of degrees of freedom.
func (s *Submesh) Npts() int {
	if s.ZeroDimensional() {
		return 1
	}
	return len(s.Edges) - 1
}

// Nodes returns the cell centres.
func (s *Submesh) Nodes() []float64 {
	if s.ZeroDimensional() {
		return slices.Clone(s.Edges)
	}
	nodes := make([]float64, s.Npts())
	for i := range nodes {
		nodes[i] = (s.Edges[i] + s.Edges[i+1]) / 2
	}
	return nodes
}

// Widths returns the cell widths.
func (s *Submesh) Widths() []float64 {
	if s.ZeroDimensional() {
		return []float64{0}
	}
	out := make([]float64, s.Npts())
	for i := range out {
		out[i] = s.Edges[i+1] - s.Edges[i]
	}
	return out
}

// NodeSpacing returns the distances between neighbouring cell centres.
func (s *Submesh) NodeSpacing() []float64 {
	nodes := s.Nodes()
	if len(nodes) < 2 {
		return nil
	}
	out := make([]float64, len(nodes)-1)
	for i := range out {
		out[i] = nodes[i+1] - nodes[i]
	}
	return out
}

// Length is the distance between the outer edges.
func (s *Submesh) Length() float64 {
	return s.Edges[len(s.Edges)-1] - s.Edges[0]
}

// Region is a named submesh.
type Region struct {
	Name    string
	Submesh *Submesh
}

// Mesh is a set of named submeshes.
type Mesh struct {
	regions map[string]*Submesh
	order   []string
}

// New builds a mesh from regions. Region names must be unique.
func New(regions ...Region) (*Mesh, error) {
	m := &Mesh{regions: make(map[string]*Submesh, len(regions))}
	for _, r := range regions {
		if r.Submesh == nil {
			return nil, fmt.Errorf("region %q has no submesh", r.Name)
		}
		if _, dup := m.regions[r.Name]; dup {
			return nil, fmt.Errorf("region %q declared twice", r.Name)
		}
		m.regions[r.Name] = r.Submesh
		m.order = append(m.order, r.Name)
	}
	return m, nil
}

// Regions returns region names in declaration order.
func (m *Mesh) Regions() []string { return slices.Clone(m.order) }

// Submesh returns the submesh of one region.
func (m *Mesh) Submesh(region string) (*Submesh, bool) {
	s, ok := m.regions[region]
	return s, ok
}

// Npts returns the number of points over the regions of d. An empty
// domain has one point.
func (m *Mesh) Npts(d symbol.Domain) (int, error) {
	n := 0
	for _, region := range d {
		s, ok := m.regions[region]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
		}
		n += s.Npts()
	}
	if n == 0 {
		return 1, nil
	}
	return n, nil
}

// Size returns the number of entries of an expression on d with the given
// auxiliary domains: primary points times the points of every auxiliary
// level.
func (m *Mesh) Size(d symbol.Domain, aux symbol.AuxiliaryDomains) (int, error) {
	n, err := m.Npts(d)
	if err != nil {
		return 0, err
	}
	outer, err := m.AuxiliaryNpts(aux)
	if err != nil {
		return 0, err
	}
	return n * outer, nil
}

// AuxiliaryNpts returns the product of the point counts of the secondary
// and tertiary domains. Empty levels count as one point.
func (m *Mesh) AuxiliaryNpts(aux symbol.AuxiliaryDomains) (int, error) {
	n := 1
	for _, level := range []string{symbol.Secondary, symbol.Tertiary} {
		k, err := m.Npts(aux.Get(level))
		if err != nil {
			return 0, err
		}
		n *= k
	}
	return n, nil
}

// Combine joins the submeshes of d into one. Neighbouring regions must
// share their common edge.
func (m *Mesh) Combine(d symbol.Domain) (*Submesh, error) {
	if d.Empty() {
		return nil, fmt.Errorf("%w: empty domain", ErrUnknownRegion)
	}
	var edges []float64
	for i, region := range d {
		s, ok := m.regions[region]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
		}
		if len(d) == 1 {
			return s, nil
		}
		if s.ZeroDimensional() {
			return nil, fmt.Errorf("cannot combine point region %q", region)
		}
		if i > 0 {
			last := edges[len(edges)-1]
			if math.Abs(last-s.Edges[0]) > 1e-12*math.Max(1, math.Abs(last)) {
				return nil, fmt.Errorf("%w: %q starts at %v, previous region ends at %v", ErrNotAdjacent, region, s.Edges[0], last)
			}
			edges = append(edges, s.Edges[1:]...)
			continue
		}
		edges = append(edges, s.Edges...)
	}
	return &Submesh{Edges: edges}, nil
}
