// Package render draws an ordered layered graph with Graphviz.
//
// [ToDOT] emits one rank per layer with the nodes pinned in their current
// order, optionally labelling every edge with its crossing count and drawing
// the bottleneck edges in red. [RenderSVG] lays the DOT out in-process with
// [github.com/goccy/go-graphviz], so no Graphviz installation is needed.
//
//	if err := mmac.Apply(g, sol); err != nil {
//	    return err
//	}
//	dot := render.ToDOT(g, render.Options{Highlight: true})
//	svg, err := render.RenderSVG(ctx, dot)
package render
