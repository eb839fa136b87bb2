package mmac

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/mmac/pkg/errors"
	"github.com/matzehuels/mmac/pkg/layered"
)

// construct builds an initial order for every layer of g. Cached crossing
// counts are stale afterwards.
func construct(g *layered.Graph, kind Construction, rng *rand.Rand) error {
	switch kind {
	case ConstructRandom:
		return constructRandom(g, rng)
	case ConstructGreedy:
		return constructGreedy(g, rng)
	}
	return errors.New(errors.ErrCodeInvalidOptions, "unknown construction %q", kind)
}

// constructRandom shuffles each layer independently.
func constructRandom(g *layered.Graph, rng *rand.Rand) error {
	for l := range g.LayerCount() {
		order := slices.Clone(g.Layer(l))
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		if err := g.SetOrder(l, order); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "random construction")
		}
	}
	return nil
}

// candidates is the restricted candidate list of the greedy construction: a
// set of node indices with O(1) insert, delete and uniform pick. Iteration
// order depends only on the sequence of operations, which keeps runs
// reproducible for a seed.
type candidates struct {
	items []int
	index []int // node -> slot in items, -1 when absent
}

func newCandidates(n int) *candidates {
	c := &candidates{index: make([]int, n)}
	for i := range c.index {
		c.index[i] = -1
	}
	return c
}

func (c *candidates) add(v int) {
	if c.index[v] < 0 {
		c.index[v] = len(c.items)
		c.items = append(c.items, v)
	}
}

func (c *candidates) remove(v int) {
	slot := c.index[v]
	if slot < 0 {
		return
	}
	last := c.items[len(c.items)-1]
	c.items[slot] = last
	c.index[last] = slot
	c.items = c.items[:len(c.items)-1]
	c.index[v] = -1
}

// greedy holds the state of one semi-greedy construction.
type greedy struct {
	g        *layered.Graph
	placed   []bool
	pos      []int          // tentative positions, may be negative
	occupied []map[int]bool // layer -> tentative positions in use
	rcl      *candidates
}

// constructGreedy grows the order outward from one random node. Each step
// picks a uniformly random unplaced neighbour of the placed set, computes
// the integer mean position of its placed neighbours, and takes the nearest
// free slot to that barycenter in its layer (bc, bc+1, bc-1, bc+2, ...).
// Finally each layer is sorted by tentative position and renumbered densely.
//
// When the candidate list runs dry with nodes left, the graph has another
// connected component; a fresh random node seeds it at the free slot nearest
// to 0.
func constructGreedy(g *layered.Graph, rng *rand.Rand) error {
	n := g.NodeCount()
	s := &greedy{
		g:        g,
		placed:   make([]bool, n),
		pos:      make([]int, n),
		occupied: make([]map[int]bool, g.LayerCount()),
		rcl:      newCandidates(n),
	}
	for l := range s.occupied {
		s.occupied[l] = make(map[int]bool, len(g.Layer(l)))
	}

	for remaining := n; remaining > 0; remaining-- {
		if len(s.rcl.items) == 0 {
			v := s.randomUnplaced(rng, remaining)
			s.place(v, s.nearestFree(g.Node(v).Layer, 0))
			continue
		}
		v := s.rcl.items[rng.IntN(len(s.rcl.items))]
		bc, err := s.barycenter(v)
		if err != nil {
			return err
		}
		s.place(v, s.nearestFree(g.Node(v).Layer, bc))
	}

	for l := range g.LayerCount() {
		order := slices.Clone(g.Layer(l))
		slices.SortFunc(order, func(a, b int) int { return s.pos[a] - s.pos[b] })
		if err := g.SetOrder(l, order); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "greedy construction")
		}
	}
	return nil
}

func (s *greedy) place(v, p int) {
	s.placed[v] = true
	s.pos[v] = p
	s.occupied[s.g.Node(v).Layer][p] = true
	s.rcl.remove(v)
	s.g.Neighbors(v, func(u int) {
		if !s.placed[u] {
			s.rcl.add(u)
		}
	})
}

// randomUnplaced picks uniformly among the remaining unplaced nodes.
func (s *greedy) randomUnplaced(rng *rand.Rand, remaining int) int {
	k := rng.IntN(remaining)
	for v, done := range s.placed {
		if done {
			continue
		}
		if k == 0 {
			return v
		}
		k--
	}
	panic("mmac: unplaced node count out of sync")
}

// barycenter returns the integer mean position of v's placed neighbours,
// counting a neighbour once per connecting edge. A node only enters the
// candidate list through a placed neighbour, so an empty neighbourhood is a
// bookkeeping defect.
func (s *greedy) barycenter(v int) (int, error) {
	sum, count := 0, 0
	s.g.Neighbors(v, func(u int) {
		if s.placed[u] {
			sum += s.pos[u]
			count++
		}
	})
	if count == 0 {
		return 0, errors.New(errors.ErrCodeInternal, "node %d entered the candidate list without a placed neighbour", s.g.Node(v).ID)
	}
	return sum / count, nil
}

func (s *greedy) nearestFree(layer, bc int) int {
	used := s.occupied[layer]
	if !used[bc] {
		return bc
	}
	for i := 1; ; i++ {
		if !used[bc+i] {
			return bc + i
		}
		if !used[bc-i] {
			return bc - i
		}
	}
}
