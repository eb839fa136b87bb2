// Package layered provides the layered directed graph model used by the
// min-max crossing solver, together with its crossing-count engine.
//
// # Overview
//
// A [Graph] holds nodes organised into layers (ranks). Every edge connects a
// node in layer k to a node in layer k+1. Layer membership and edges are fixed
// once the graph is built; the only mutable state is the position of each node
// inside its layer and the crossing count cached on each edge.
//
// # Storage
//
// Nodes and edges live in flat slices and refer to each other by index: a
// [Node] stores the indices of its incident edges, an [Edge] stores the indices
// of its endpoints. Node IDs are the stable external identifiers used by
// instance and solution files (1-based, numbered layer by layer).
//
// # Crossings
//
// Two edges leaving the same layer cross when the relative order of their
// sources differs from the relative order of their sinks ([IsCross]). The
// crossing count of an edge is the number of other edges of its source layer
// that it crosses. [Graph.RecountCrossings] recomputes every count from
// scratch; [Graph.SwapAdjacent] keeps counts current while exchanging two
// neighbouring nodes, touching only the edges of those two nodes.
//
// [CountLayerCrossings] and [TotalCrossings] count crossing pairs with a
// Fenwick tree and are independent of the cached per-edge counts.
//
// # Example
//
//	g, _ := layered.New([]int{2, 2})
//	_ = g.AddEdge(1, 4) // node IDs: layer 0 = {1, 2}, layer 1 = {3, 4}
//	_ = g.AddEdge(2, 3)
//	g.RecountCrossings()
//	fmt.Println(g.MaxCross()) // 1
package layered
