package mmac

import "fmt"

// Move relocates one node inside its layer.
type Move struct {
	Node     int // Node index
	From, To int // Old and new position
	Delta    Delta
}

func (m Move) String() string {
	return fmt.Sprintf("node %d: %d->%d (%s)", m.Node, m.From, m.To, m.Delta)
}

// selection keeps the best candidate seen during one neighbourhood scan.
// Equally good candidates are sampled uniformly with a reservoir of size one:
// the k-th tie replaces the incumbent with probability 1/k.
type selection struct {
	best Move
	ties int
}

// offer drops moves that would push an edge above the bottleneck, that is any
// move whose surrogate change exceeds half the penalty.
func (s *Solver) offer(sel *selection, mv Move) {
	if mv.Delta.Bottleneck > s.opts.Penalty/2 {
		return
	}
	switch cmp := mv.Delta.Compare(sel.best.Delta); {
	case cmp < 0:
		sel.best = mv
		sel.ties = 1
	case cmp == 0:
		sel.ties++
		if s.rng.IntN(sel.ties) == 0 {
			sel.best = mv
		}
	}
}

// bestMove scans every node in both directions and returns the best move.
// The boolean is false at a local optimum: no admissible candidate exists,
// or the best one is not lexicographically negative.
func (s *Solver) bestMove() (Move, bool) {
	sel := selection{best: Move{Node: -1, Delta: worstDelta}}
	visit := func(mv Move) { s.offer(&sel, mv) }
	m := s.tracker.Bottleneck()
	for l := range s.g.LayerCount() {
		layer := s.g.Layer(l)
		if len(layer) < 2 {
			continue
		}
		for _, n := range layer {
			s.slide(n, 1, m, visit)
			s.slide(n, -1, m, visit)
		}
	}
	if sel.best.Node < 0 || !sel.best.Delta.Improving() {
		return sel.best, false
	}
	return sel.best, true
}

// slide evaluates every destination of node n in direction dir (+1 right,
// -1 left) within the move window, against bottleneck m, and passes each
// candidate to visit.
//
// The node is moved one slot at a time on paper. Each step exchanges it with
// one neighbour b, which flips only pairs made of an edge of n and an edge of
// b. The edges of b are never touched again further along the slide, so their
// bottleneck contribution is settled right away; the edges of n accumulate
// their change in s.own and are converted at every destination.
//
// Moving a node one slot left is the same relocation as moving its left
// neighbour one slot right, so that destination is only offered once.
func (s *Solver) slide(n, dir, m int, visit func(Move)) {
	g := s.g
	node := g.Node(n)
	layer := g.Layer(node.Layer)
	p := node.Pos

	reach := p
	if dir > 0 {
		reach = len(layer) - 1 - p
	}
	if d := s.opts.MoveDistance; d > 0 {
		reach = min(reach, d)
	}
	if reach == 0 {
		return
	}

	record := func(le, re, d int) {
		s.own[le] += d
		s.passed[re] += d
	}
	if dir < 0 {
		record = func(le, re, d int) {
			s.passed[le] += d
			s.own[re] += d
		}
	}

	settled, crossings := 0, 0
	for step := 1; step <= reach; step++ {
		b := layer[p+dir*step]
		if dir > 0 {
			g.SwapFlips(n, b, record)
		} else {
			g.SwapFlips(b, n, record)
		}

		bn := g.Node(b)
		for _, e := range bn.Out {
			settled, crossings = s.settle(s.passed, e, m, settled, crossings)
		}
		for _, e := range bn.In {
			settled, crossings = s.settle(s.passed, e, m, settled, crossings)
		}

		if dir < 0 && step == 1 {
			continue
		}
		own, ownCrossings := 0, 0
		for _, e := range node.Out {
			own, ownCrossings = s.convert(s.own, e, m, own, ownCrossings)
		}
		for _, e := range node.In {
			own, ownCrossings = s.convert(s.own, e, m, own, ownCrossings)
		}
		visit(Move{
			Node:  n,
			From:  p,
			To:    p + dir*step,
			Delta: Delta{Bottleneck: settled + own, Crossings: crossings + ownCrossings},
		})
	}

	for _, e := range node.Out {
		s.own[e] = 0
	}
	for _, e := range node.In {
		s.own[e] = 0
	}
}

// convert adds the contribution of edge e with pending change acc[e] to the
// running bottleneck and crossing sums.
func (s *Solver) convert(acc []int, e, m, bottleneck, crossings int) (int, int) {
	d := acc[e]
	if d == 0 {
		return bottleneck, crossings
	}
	c := s.g.Edge(e).Cross
	return bottleneck + bottleneckDelta(c, c+d, m, s.opts.Penalty), crossings + d
}

// settle is convert followed by clearing the pending change.
func (s *Solver) settle(acc []int, e, m, bottleneck, crossings int) (int, int) {
	bottleneck, crossings = s.convert(acc, e, m, bottleneck, crossings)
	acc[e] = 0
	return bottleneck, crossings
}

// apply commits mv through adjacent swaps, which update exactly the crossing
// counts the evaluation accounted for, then refreshes the tracker for the
// nodes of the window and their neighbours. Returns the change in the summed
// crossing counts.
func (s *Solver) apply(mv Move) int {
	g := s.g
	l := g.Node(mv.Node).Layer

	delta := 0
	if mv.To > mv.From {
		for pos := mv.From; pos < mv.To; pos++ {
			delta += g.SwapAdjacent(l, pos)
		}
	} else {
		for pos := mv.From - 1; pos >= mv.To; pos-- {
			delta += g.SwapAdjacent(l, pos)
		}
	}

	lo, hi := min(mv.From, mv.To), max(mv.From, mv.To)
	for _, v := range g.Layer(l)[lo : hi+1] {
		s.tracker.Touch(v)
		g.Neighbors(v, s.tracker.Touch)
	}
	s.tracker.Flush()
	return delta
}
