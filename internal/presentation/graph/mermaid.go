package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/galvani/pkg/model"
)

// GraphOverlay marks nodes to emphasise on the graph.
type GraphOverlay struct {
	Highlight []string
}

type edge struct {
	from, to string
}

// GenerateMermaid produces a Mermaid flowchart of the data flow between the
// submodels of m: an edge from A to B means B read a variable published by A.
// It applies semantic styling:
// - Submodel owning unknowns: ([Stadium])
// - Aggregator (not a declared submodel): [[Subroutine]]
// - Default: [Rectangle]
func GenerateMermaid(m *model.Model, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	// Nodes: declared submodels first, then aggregators in publish order
	nodes := slices.Clone(m.Submodels)
	for _, name := range m.Variables.Names() {
		if p, ok := m.Publisher(name); ok && !slices.Contains(nodes, p) {
			nodes = append(nodes, p)
		}
	}

	stateful := make(map[string]bool)
	for _, v := range m.StateVariables() {
		if owner, ok := m.Owner(v); ok {
			stateful[owner] = true
		}
	}

	for _, node := range nodes {
		opener, closer := "[", "]"
		switch {
		case !slices.Contains(m.Submodels, node):
			opener, closer = "[[", "]]"
		case stateful[node]:
			opener, closer = "([", "])"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(node), opener, escape(node), closer))
	}

	// Edges, one per publisher/reader pair
	var order []edge
	labels := make(map[edge][]string)
	for _, reader := range nodes {
		for _, name := range m.Reads(reader) {
			publisher, ok := m.Publisher(name)
			if !ok || publisher == reader {
				continue
			}
			e := edge{publisher, reader}
			if _, seen := labels[e]; !seen {
				order = append(order, e)
			}
			labels[e] = append(labels[e], escape(name))
		}
	}
	for _, e := range order {
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n",
			sanitizeMermaidID(e.from), strings.Join(labels[e], "<br/>"), sanitizeMermaidID(e.to)))
	}

	if overlay != nil && len(overlay.Highlight) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef highlight fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, name := range overlay.Highlight {
			if slices.Contains(nodes, name) {
				sb.WriteString(fmt.Sprintf("    class %s highlight;\n", sanitizeMermaidID(name)))
			}
		}
	}

	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, id)
}
