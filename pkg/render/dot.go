package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/mmac/pkg/layered"
)

// Options configures DOT generation.
type Options struct {
	// Crossings labels every edge with its crossing count.
	Crossings bool

	// Highlight draws the edges carrying the bottleneck in red.
	Highlight bool
}

// ToDOT converts a layered graph in its current order to Graphviz DOT.
// Each layer becomes one rank, chained left to right by invisible edges so
// Graphviz keeps the order instead of choosing its own.
//
// Edge annotations read the cached crossing counts; call
// [layered.Graph.RecountCrossings] (or [mmac.Apply]) first.
//
// [mmac.Apply]: github.com/matzehuels/mmac/pkg/mmac.Apply
func ToDOT(g *layered.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if g.Name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", g.Name)
	}
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14, width=0.4, fixedsize=true];\n")
	buf.WriteString("  edge [arrowsize=0.5];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.25;\n")

	for l := range g.LayerCount() {
		ids := g.Order(l)
		fmt.Fprintf(&buf, "\n  subgraph layer%d {\n    rank=same;\n", l)
		for _, id := range ids {
			fmt.Fprintf(&buf, "    %d;\n", id)
		}
		if len(ids) > 1 {
			chain := make([]string, len(ids))
			for i, id := range ids {
				chain[i] = fmt.Sprint(id)
			}
			fmt.Fprintf(&buf, "    %s [style=invis];\n", strings.Join(chain, " -> "))
		}
		buf.WriteString("  }\n")
	}

	bottleneck := g.MaxCross()
	buf.WriteString("\n")
	for e := range g.EdgeCount() {
		edge := g.Edge(e)
		attrs := edgeAttrs(edge, bottleneck, opts)
		src, dst := g.Node(edge.Source).ID, g.Node(edge.Sink).ID
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %d -> %d;\n", src, dst)
			continue
		}
		fmt.Fprintf(&buf, "  %d -> %d [%s];\n", src, dst, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeAttrs(e *layered.Edge, bottleneck int, opts Options) []string {
	var attrs []string
	if opts.Crossings {
		attrs = append(attrs, fmt.Sprintf("label=%q", fmt.Sprint(e.Cross)), "fontsize=10")
	}
	if opts.Highlight && bottleneck > 0 && e.Cross == bottleneck {
		attrs = append(attrs, "color=red", "penwidth=2")
	}
	return attrs
}
