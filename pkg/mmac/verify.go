package mmac

import (
	"fmt"

	"github.com/matzehuels/mmac/pkg/errors"
	"github.com/matzehuels/mmac/pkg/layered"
)

// InconsistencyError reports incremental bookkeeping that disagrees with a
// from-scratch recount. It always indicates a solver defect.
type InconsistencyError struct {
	Check  string // Which invariant failed
	Source int    // Source node ID of the offending edge, 0 if not edge-specific
	Sink   int    // Sink node ID of the offending edge
	Node   int    // Offending node ID, 0 if not node-specific
	Want   int    // Recomputed value
	Got    int    // Tracked value
}

func (e *InconsistencyError) Error() string {
	switch {
	case e.Source != 0:
		return fmt.Sprintf("%s: edge (%d,%d): tracked %d, recomputed %d", e.Check, e.Source, e.Sink, e.Got, e.Want)
	case e.Node != 0:
		return fmt.Sprintf("%s: node %d: tracked %d, recomputed %d", e.Check, e.Node, e.Got, e.Want)
	}
	return fmt.Sprintf("%s: tracked %d, recomputed %d", e.Check, e.Got, e.Want)
}

// Verify recounts g from scratch and compares the result with the cached
// edge counts and, if t is non-nil, the tracker state. It checks:
//
//  1. Every edge's cached count equals its recomputed count
//  2. Every node's tracked worst count equals the recomputed one
//  3. The tracked bottleneck equals the true maximum
//  4. The ranking is non-increasing
//  5. Every layer's positions form a permutation
//  6. The summed edge counts equal twice the number of crossing pairs
//
// The first failure is returned as an [*InconsistencyError] wrapped with
// ErrCodeInternal. Verify never modifies g.
func Verify(g *layered.Graph, t *Tracker) error {
	if err := g.CheckPositions(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "verify positions")
	}

	trueMax := 0
	for e := range g.EdgeCount() {
		edge := g.Edge(e)
		want := g.EdgeCrossings(e)
		if edge.Cross != want {
			return inconsistent(&InconsistencyError{
				Check:  "edge crossings",
				Source: g.Node(edge.Source).ID,
				Sink:   g.Node(edge.Sink).ID,
				Want:   want,
				Got:    edge.Cross,
			})
		}
		trueMax = max(trueMax, want)
	}

	if pairs := layered.TotalCrossings(g); g.SumCross() != 2*pairs {
		return inconsistent(&InconsistencyError{Check: "crossing sum", Want: 2 * pairs, Got: g.SumCross()})
	}

	if t == nil {
		return nil
	}
	for i := range g.NodeCount() {
		if want := t.nodeWorst(i); t.NodeMax(i) != want {
			return inconsistent(&InconsistencyError{
				Check: "node worst",
				Node:  g.Node(i).ID,
				Want:  want,
				Got:   t.NodeMax(i),
			})
		}
	}
	if t.Bottleneck() != trueMax {
		return inconsistent(&InconsistencyError{Check: "bottleneck", Want: trueMax, Got: t.Bottleneck()})
	}
	ranking := t.Ranking()
	for k := 1; k < len(ranking); k++ {
		prev, cur := t.NodeMax(ranking[k-1]), t.NodeMax(ranking[k])
		if cur > prev {
			return inconsistent(&InconsistencyError{
				Check: "ranking order",
				Node:  g.Node(ranking[k]).ID,
				Want:  prev,
				Got:   cur,
			})
		}
	}
	return nil
}

func inconsistent(e *InconsistencyError) error {
	return errors.Wrap(errors.ErrCodeInternal, e, "bookkeeping check failed")
}
