package mmac

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/matzehuels/mmac/pkg/layered"
)

func mustGraph(t *testing.T, sizes []int, edges [][2]int) *layered.Graph {
	t.Helper()
	g, err := layered.New(sizes)
	if err != nil {
		t.Fatalf("New(%v) error: %v", sizes, err)
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%d, %d) error: %v", e[0], e[1], err)
		}
	}
	return g
}

func completeBipartite(t *testing.T, n int) *layered.Graph {
	t.Helper()
	var edges [][2]int
	for u := 1; u <= n; u++ {
		for v := n + 1; v <= 2*n; v++ {
			edges = append(edges, [2]int{u, v})
		}
	}
	return mustGraph(t, []int{n, n}, edges)
}

// randomGraph builds a connected-enough layered graph where every node has
// at least one incident edge.
func randomGraph(t *testing.T, rng *rand.Rand, layers, width int) *layered.Graph {
	t.Helper()
	sizes := make([]int, layers)
	for l := range sizes {
		sizes[l] = 1 + rng.IntN(width)
	}
	g, err := layered.New(sizes)
	if err != nil {
		t.Fatal(err)
	}
	link := func(u, v int) {
		if err := g.AddEdge(g.Node(u).ID, g.Node(v).ID); err != nil {
			t.Fatal(err)
		}
	}
	for l := 0; l+1 < layers; l++ {
		upper, lower := g.Layer(l), g.Layer(l+1)
		for _, u := range upper {
			link(u, lower[rng.IntN(len(lower))])
		}
		for _, v := range lower {
			link(upper[rng.IntN(len(upper))], v)
		}
		for range len(upper) + len(lower) {
			link(upper[rng.IntN(len(upper))], lower[rng.IntN(len(lower))])
		}
	}
	return g
}

// newTestSolver returns a solver whose graph keeps the given order, with
// counts and tracker initialised as Run would after construction.
func newTestSolver(t *testing.T, g *layered.Graph, opts Options) *Solver {
	t.Helper()
	s, err := NewSolver(g, opts)
	if err != nil {
		t.Fatalf("NewSolver() error: %v", err)
	}
	s.g.RecountCrossings()
	s.tracker = NewTracker(s.g)
	s.start = time.Now()
	return s
}

// bruteForceMax enumerates every pair of edges leaving the same layer.
func bruteForceMax(g *layered.Graph) int {
	counts := make([]int, g.EdgeCount())
	for a := range g.EdgeCount() {
		ea := g.Edge(a)
		for b := a + 1; b < g.EdgeCount(); b++ {
			eb := g.Edge(b)
			if g.Node(ea.Source).Layer != g.Node(eb.Source).Layer {
				continue
			}
			if layered.IsCross(g.Node(ea.Source).Pos, g.Node(ea.Sink).Pos, g.Node(eb.Source).Pos, g.Node(eb.Sink).Pos) {
				counts[a]++
				counts[b]++
			}
		}
	}
	worst := 0
	for _, c := range counts {
		worst = max(worst, c)
	}
	return worst
}
