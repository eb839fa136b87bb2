package layered

import "slices"

// IsCross reports whether the edges (i,j) and (k,l) cross, where i and k are
// source positions in one layer and j and l are sink positions in the next.
// Edges cross exactly when their relative order flips between the layers;
// edges sharing an endpoint position never cross.
func IsCross(i, j, k, l int) bool {
	return (i < k && j > l) || (i > k && j < l)
}

// EdgeCrossings recomputes the crossing count of edge e from scratch, without
// reading or writing any cached count. It visits every other node of the
// source layer and every outgoing edge of that node ending at a different
// sink, so it costs O(layer size × average out-degree).
//
// This is the ground truth the incremental bookkeeping is checked against; it
// is not meant for use inside move evaluation.
func (g *Graph) EdgeCrossings(e int) int {
	edge := &g.edges[e]
	src, dst := &g.nodes[edge.Source], &g.nodes[edge.Sink]

	crossings := 0
	for _, n := range g.layers[src.Layer] {
		if n == edge.Source {
			continue
		}
		other := &g.nodes[n]
		for _, oe := range other.Out {
			sink := g.edges[oe].Sink
			if sink == edge.Sink {
				continue
			}
			if IsCross(src.Pos, dst.Pos, other.Pos, g.nodes[sink].Pos) {
				crossings++
			}
		}
	}
	return crossings
}

// RecountCrossings recomputes and caches the crossing count of every edge.
func (g *Graph) RecountCrossings() {
	for e := range g.edges {
		g.edges[e].Cross = g.EdgeCrossings(e)
	}
}

// MaxCross returns the largest cached crossing count, or 0 without edges.
func (g *Graph) MaxCross() int {
	worst := 0
	for _, e := range g.edges {
		worst = max(worst, e.Cross)
	}
	return worst
}

// SumCross returns the sum of all cached crossing counts. Every crossing pair
// contributes to both of its edges, so a consistent graph satisfies
// SumCross() == 2*TotalCrossings(g).
func (g *Graph) SumCross() int {
	total := 0
	for _, e := range g.edges {
		total += e.Cross
	}
	return total
}

// SwapFlips reports every edge pair whose crossing status changes when the
// adjacent nodes left and right (left immediately before right in the same
// layer) exchange places. For each such pair fn receives the edge incident to
// left, the edge incident to right, and d = +1 if the pair starts crossing or
// d = -1 if it stops crossing.
//
// Only pairs of outgoing edges and pairs of incoming edges are affected.
// Because the two nodes are adjacent, a pair flips exactly when its far
// endpoints are distinct, and the direction is decided by comparing the far
// endpoint positions. No crossing test at the new positions is needed.
//
// SwapFlips does not modify the graph.
func (g *Graph) SwapFlips(left, right int, fn func(le, re, d int)) {
	ln, rn := &g.nodes[left], &g.nodes[right]
	for _, le := range ln.Out {
		a := g.nodes[g.edges[le].Sink].Pos
		for _, re := range rn.Out {
			if d := flip(a, g.nodes[g.edges[re].Sink].Pos); d != 0 {
				fn(le, re, d)
			}
		}
	}
	for _, le := range ln.In {
		s := g.nodes[g.edges[le].Source].Pos
		for _, re := range rn.In {
			if d := flip(s, g.nodes[g.edges[re].Source].Pos); d != 0 {
				fn(le, re, d)
			}
		}
	}
}

// flip returns the crossing change of an edge pair whose near endpoints are
// exchanged, given the far endpoint position of the left edge (a) and of the
// right edge (b). Before the exchange the pair crosses iff a > b.
func flip(a, b int) int {
	switch {
	case a < b:
		return 1
	case a > b:
		return -1
	}
	return 0
}

// SwapAdjacent exchanges the nodes at positions pos and pos+1 of layer l and
// updates the cached crossing counts of every affected edge. It returns the
// change in [Graph.SumCross].
//
// The cost is O(deg(left) × deg(right)); no other edge's count can change.
func (g *Graph) SwapAdjacent(l, pos int) int {
	layer := g.layers[l]
	left, right := layer[pos], layer[pos+1]

	delta := 0
	g.SwapFlips(left, right, func(le, re, d int) {
		g.edges[le].Cross += d
		g.edges[re].Cross += d
		delta += 2 * d
	})

	layer[pos], layer[pos+1] = right, left
	g.nodes[right].Pos = pos
	g.nodes[left].Pos = pos + 1
	return delta
}

// CountLayerCrossings counts crossing edge pairs between layer l and layer
// l+1 using a Fenwick tree (binary indexed tree) in O(E log V), where E is the
// number of edges leaving layer l and V the size of layer l+1.
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// which is an inversion in the sequence of sink positions when edges are
// sorted by source position. Returns 0 for the last layer.
func CountLayerCrossings(g *Graph, l int) int {
	if l < 0 || l+1 >= len(g.layers) {
		return 0
	}

	type pair struct{ upper, lower int }
	pairs := make([]pair, 0, len(g.layers[l])*2)
	for _, n := range g.layers[l] {
		node := &g.nodes[n]
		for _, e := range node.Out {
			pairs = append(pairs, pair{node.Pos, g.nodes[g.edges[e].Sink].Pos})
		}
	}
	if len(pairs) < 2 {
		return 0
	}

	// Sort edges by source position, then by target position
	slices.SortFunc(pairs, func(a, b pair) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(g.layers[l+1])+1)
	crossings, total := 0, 0
	for _, p := range pairs {
		// Query: count edges seen so far with target <= p.lower
		lessOrEqual := 0
		for q := p.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := p.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

// TotalCrossings returns the number of crossing edge pairs over all layers.
func TotalCrossings(g *Graph) int {
	crossings := 0
	for l := 0; l+1 < len(g.layers); l++ {
		crossings += CountLayerCrossings(g, l)
	}
	return crossings
}
