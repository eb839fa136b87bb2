package layered

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidLayerSize is returned by [New] when a layer has no nodes.
	ErrInvalidLayerSize = errors.New("layer size must be positive")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source ID
	// does not name a node of the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the sink ID
	// does not name a node of the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrNonConsecutiveLayers is returned when an edge does not go from layer
	// k to layer k+1. The crossing predicate assumes every edge leaving a
	// layer ends in one common target layer; this rule guarantees it.
	ErrNonConsecutiveLayers = errors.New("edges must connect consecutive layers")

	// ErrIsolatedNode is returned by [Graph.Validate] when a node has no
	// incident edge. Such a node has no worst incident crossing count.
	ErrIsolatedNode = errors.New("isolated node")

	// ErrNotPermutation is returned when the positions of a layer are not a
	// permutation of 0..size-1.
	ErrNotPermutation = errors.New("layer positions are not a permutation")
)

// Node is a vertex of a layered graph.
//
// ID and Layer never change after construction. Pos is the node's index in
// its layer's current order and is kept in sync with [Graph.Layer] by every
// mutating method. Out and In hold indices into the graph's edge slice.
type Node struct {
	ID    int   // Stable external identifier
	Layer int   // Layer (rank) index
	Pos   int   // Position within the layer, 0-based
	Out   []int // Outgoing edge indices
	In    []int // Incoming edge indices
}

// Degree returns the number of incident edges.
func (n *Node) Degree() int { return len(n.Out) + len(n.In) }

// Edge is a directed edge between consecutive layers.
//
// Cross caches how many other edges of the source layer this edge crosses
// under the current positions. It is maintained by [Graph.RecountCrossings]
// and [Graph.SwapAdjacent].
type Edge struct {
	Source int // Source node index
	Sink   int // Sink node index
	Cross  int // Cached crossing count
}

// Graph is a layered directed graph with mutable intra-layer order.
//
// The zero value is not usable; create graphs with [New]. A Graph is not safe
// for concurrent use. Independent solver runs should each work on their own
// [Graph.Clone].
type Graph struct {
	// Name identifies the instance the graph was loaded from. It is carried
	// into solution records and may be empty.
	Name string

	nodes  []Node
	edges  []Edge
	layers [][]int // layer -> node indices in position order
}

// New creates a graph with the given layer sizes and no edges.
// Nodes receive IDs 1..N in layer order: the first layerSizes[0] IDs form
// layer 0, the next layerSizes[1] form layer 1, and so on. Each node starts at
// the position matching its order of creation.
//
// Returns ErrInvalidLayerSize if any size is zero or negative.
func New(layerSizes []int) (*Graph, error) {
	total := 0
	for i, size := range layerSizes {
		if size <= 0 {
			return nil, fmt.Errorf("layer %d: %w", i, ErrInvalidLayerSize)
		}
		total += size
	}

	g := &Graph{
		nodes:  make([]Node, 0, total),
		layers: make([][]int, len(layerSizes)),
	}
	for l, size := range layerSizes {
		g.layers[l] = make([]int, size)
		for p := range size {
			idx := len(g.nodes)
			g.nodes = append(g.nodes, Node{ID: idx + 1, Layer: l, Pos: p})
			g.layers[l][p] = idx
		}
	}
	return g, nil
}

// AddEdge adds a directed edge between the nodes with IDs from and to.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode for IDs outside the
// graph, and ErrNonConsecutiveLayers unless to lies exactly one layer below
// from. Parallel edges are permitted; they never cross each other.
func (g *Graph) AddEdge(from, to int) error {
	src, ok := g.NodeIndex(from)
	if !ok {
		return fmt.Errorf("edge %d->%d: %w", from, to, ErrUnknownSourceNode)
	}
	dst, ok := g.NodeIndex(to)
	if !ok {
		return fmt.Errorf("edge %d->%d: %w", from, to, ErrUnknownTargetNode)
	}
	if g.nodes[dst].Layer != g.nodes[src].Layer+1 {
		return fmt.Errorf("edge %d->%d (layers %d->%d): %w",
			from, to, g.nodes[src].Layer, g.nodes[dst].Layer, ErrNonConsecutiveLayers)
	}

	e := len(g.edges)
	g.edges = append(g.edges, Edge{Source: src, Sink: dst})
	g.nodes[src].Out = append(g.nodes[src].Out, e)
	g.nodes[dst].In = append(g.nodes[dst].In, e)
	return nil
}

// NodeIndex returns the index of the node with the given ID.
func (g *Graph) NodeIndex(id int) (int, bool) {
	if id < 1 || id > len(g.nodes) {
		return 0, false
	}
	return id - 1, true
}

// Node returns the node at index i. The pointer refers to the graph's own
// storage; callers must not change Layer, Out or In.
func (g *Graph) Node(i int) *Node { return &g.nodes[i] }

// Edge returns the edge at index i. The pointer refers to the graph's own
// storage.
func (g *Graph) Edge(i int) *Edge { return &g.edges[i] }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// LayerCount returns the number of layers.
func (g *Graph) LayerCount() int { return len(g.layers) }

// Layer returns the node indices of layer l in position order.
// The slice is the graph's own storage and must be treated as read-only;
// use [Graph.SetOrder] or [Graph.SwapAdjacent] to reorder.
func (g *Graph) Layer(l int) []int { return g.layers[l] }

// LayerSizes returns the number of nodes in each layer.
func (g *Graph) LayerSizes() []int {
	sizes := make([]int, len(g.layers))
	for l, layer := range g.layers {
		sizes[l] = len(layer)
	}
	return sizes
}

// MaxLayerSize returns the size of the widest layer, or 0 for an empty graph.
func (g *Graph) MaxLayerSize() int {
	widest := 0
	for _, layer := range g.layers {
		widest = max(widest, len(layer))
	}
	return widest
}

// Order returns the node IDs of layer l in position order.
// The returned slice is a copy.
func (g *Graph) Order(l int) []int {
	ids := make([]int, len(g.layers[l]))
	for p, n := range g.layers[l] {
		ids[p] = g.nodes[n].ID
	}
	return ids
}

// Orders returns the node IDs of every layer in position order.
func (g *Graph) Orders() [][]int {
	orders := make([][]int, len(g.layers))
	for l := range g.layers {
		orders[l] = g.Order(l)
	}
	return orders
}

// SetOrder reorders layer l so that nodes[p] sits at position p.
// nodes holds node indices and must be a permutation of the layer's members;
// otherwise ErrNotPermutation is returned and the layer is left unchanged.
//
// Cached crossing counts are not updated: call [Graph.RecountCrossings]
// after reordering.
func (g *Graph) SetOrder(l int, nodes []int) error {
	layer := g.layers[l]
	if len(nodes) != len(layer) {
		return fmt.Errorf("layer %d: got %d nodes, want %d: %w", l, len(nodes), len(layer), ErrNotPermutation)
	}
	seen := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		if n < 0 || n >= len(g.nodes) || g.nodes[n].Layer != l || seen[n] {
			return fmt.Errorf("layer %d: %w", l, ErrNotPermutation)
		}
		seen[n] = true
	}
	copy(layer, nodes)
	for p, n := range layer {
		g.nodes[n].Pos = p
	}
	return nil
}

// SetOrderIDs is like [Graph.SetOrder] but takes node IDs.
func (g *Graph) SetOrderIDs(l int, ids []int) error {
	nodes := make([]int, len(ids))
	for p, id := range ids {
		n, ok := g.NodeIndex(id)
		if !ok {
			return fmt.Errorf("layer %d: unknown node %d: %w", l, id, ErrNotPermutation)
		}
		nodes[p] = n
	}
	return g.SetOrder(l, nodes)
}

// Clone returns a deep copy of the graph, including positions and cached
// crossing counts. The copy shares no mutable state with g.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Name:   g.Name,
		nodes:  make([]Node, len(g.nodes)),
		edges:  slices.Clone(g.edges),
		layers: make([][]int, len(g.layers)),
	}
	for i, n := range g.nodes {
		n.Out = slices.Clone(n.Out)
		n.In = slices.Clone(n.In)
		c.nodes[i] = n
	}
	for l, layer := range g.layers {
		c.layers[l] = slices.Clone(layer)
	}
	return c
}

// Validate checks the structural invariants the solver relies on:
//
//  1. Every edge connects layer k to layer k+1
//  2. Every node has at least one incident edge
//  3. Every layer's positions form a permutation of 0..size-1
//
// Returns ErrNonConsecutiveLayers, ErrIsolatedNode or ErrNotPermutation,
// wrapped with the offending node or layer.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		src, dst := &g.nodes[e.Source], &g.nodes[e.Sink]
		if dst.Layer != src.Layer+1 {
			return fmt.Errorf("edge %d->%d: %w", src.ID, dst.ID, ErrNonConsecutiveLayers)
		}
	}
	for i := range g.nodes {
		if g.nodes[i].Degree() == 0 {
			return fmt.Errorf("node %d: %w", g.nodes[i].ID, ErrIsolatedNode)
		}
	}
	return g.CheckPositions()
}

// CheckPositions verifies that every layer's node positions form a
// permutation of 0..size-1 and agree with the layer slices.
func (g *Graph) CheckPositions() error {
	for l, layer := range g.layers {
		seen := make([]bool, len(layer))
		for p, n := range layer {
			node := &g.nodes[n]
			if node.Layer != l || node.Pos != p || seen[p] {
				return fmt.Errorf("layer %d, node %d at slot %d (pos %d): %w", l, node.ID, p, node.Pos, ErrNotPermutation)
			}
			seen[p] = true
		}
	}
	return nil
}

// Neighbors calls fn with the index of every node adjacent to node i, once
// per incident edge (a node joined by parallel edges is reported twice).
func (g *Graph) Neighbors(i int, fn func(n int)) {
	node := &g.nodes[i]
	for _, e := range node.Out {
		fn(g.edges[e].Sink)
	}
	for _, e := range node.In {
		fn(g.edges[e].Source)
	}
}
