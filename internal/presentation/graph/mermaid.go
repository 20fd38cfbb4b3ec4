package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/pathsampling/pkg/movers"
)

// Overlay contains run data to show on the graph.
type Overlay struct {
	// Rates maps mover names to their acceptance ratio.
	Rates map[string]float64

	// Current is the name of the mover of the last step.
	Current string
}

// GenerateMermaid produces a Mermaid flowchart of a mover tree.
// Shapes follow the mover kind:
// - Composite: [[Subroutine]]
// - Shooting: ([Stadium])
// - Other leaves: [Rectangle]
// Mixed movers label their edges with weights, sequences with the order of
// execution.
func GenerateMermaid(root movers.PathMover, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var walk func(id string, m movers.PathMover)
	walk = func(id string, m movers.PathMover) {
		opener, closer := "[", "]"
		switch m.(type) {
		case movers.Composite:
			opener, closer = "[[", "]]"
		case *movers.ShootMover:
			opener, closer = "([", "])"
		}

		label := escape(m.Name())
		if overlay != nil {
			if rate, ok := overlay.Rates[m.Name()]; ok {
				label = fmt.Sprintf("%s <br/> %.0f%%", label, rate*100)
			}
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)

		c, ok := m.(movers.Composite)
		if !ok {
			return
		}
		var weights []float64
		if mixed, ok := m.(*movers.MixedMover); ok {
			weights = mixed.Weights()
		}
		for i, sub := range c.Submovers() {
			childID := id + "_" + strconv.Itoa(i)
			edge := fmt.Sprintf("-- \"%d\" -->", i+1)
			if weights != nil {
				edge = fmt.Sprintf("-- \"w=%s\" -->", strconv.FormatFloat(weights[i], 'g', -1, 64))
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", id, edge, childID)
			walk(childID, sub)
		}
	}
	walk("m", root)

	if overlay != nil && overlay.Current != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range idsOf(root, "m", overlay.Current) {
			fmt.Fprintf(&sb, "    class %s current;\n", id)
		}
	}

	return sb.String()
}

// idsOf returns the node ids of every mover named name.
func idsOf(m movers.PathMover, id, name string) []string {
	var out []string
	if m.Name() == name {
		out = append(out, id)
	}
	if c, ok := m.(movers.Composite); ok {
		for i, sub := range c.Submovers() {
			out = append(out, idsOf(sub, id+"_"+strconv.Itoa(i), name)...)
		}
	}
	return out
}

func escape(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
