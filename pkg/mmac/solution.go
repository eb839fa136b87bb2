package mmac

import (
	"slices"
	"time"

	"github.com/matzehuels/mmac/pkg/errors"
	"github.com/matzehuels/mmac/pkg/layered"
)

// Solution is an immutable snapshot of the best layer order found by a run.
// The solver replaces it wholesale on improvement and never mutates a
// returned value.
type Solution struct {
	Instance       string        `json:"instance"`
	RunID          string        `json:"run_id,omitempty"`
	Seed           uint64        `json:"seed"`
	Objective      int           `json:"objective"`       // Maximum crossings on one edge
	TotalCrossings int           `json:"total_crossings"` // Crossing pairs in the whole drawing
	Layers         [][]int       `json:"layers"`          // Node IDs per layer, in position order
	TimeToBest     time.Duration `json:"time_to_best"`
	Iteration      int           `json:"iteration"` // Moves applied when captured
}

// Clone returns a deep copy of s.
func (s *Solution) Clone() *Solution {
	c := *s
	c.Layers = make([][]int, len(s.Layers))
	for l, ids := range s.Layers {
		c.Layers[l] = slices.Clone(ids)
	}
	return &c
}

// snapshot copies the current order of g. Callers verify beforehand.
func snapshot(g *layered.Graph, objective int) *Solution {
	return &Solution{
		Instance:       g.Name,
		Objective:      objective,
		TotalCrossings: layered.TotalCrossings(g),
		Layers:         g.Orders(),
	}
}

// Apply imposes the order recorded in sol on g and recounts every edge.
// The solution must list each layer of g as a permutation of its node IDs.
func Apply(g *layered.Graph, sol *Solution) error {
	if len(sol.Layers) != g.LayerCount() {
		return errors.New(errors.ErrCodeInvalidSolution,
			"solution has %d layers, instance has %d", len(sol.Layers), g.LayerCount())
	}
	for l, ids := range sol.Layers {
		if err := g.SetOrderIDs(l, ids); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSolution, err, "solution layer %d", l)
		}
	}
	g.RecountCrossings()
	return nil
}

// EdgeRef names an edge by the IDs of its endpoints.
type EdgeRef struct {
	Source, Sink int
}

// Evaluation is the independently recomputed quality of a layer order.
type Evaluation struct {
	Objective      int       // Maximum crossings on one edge
	TotalCrossings int       // Crossing pairs
	Bottleneck     []EdgeRef // Edges carrying Objective crossings; empty when Objective is 0
}

// Evaluate applies sol to a copy of g and recounts it from scratch. Claimed
// values in sol are not trusted; compare them with the result.
func Evaluate(g *layered.Graph, sol *Solution) (*Evaluation, error) {
	c := g.Clone()
	if err := Apply(c, sol); err != nil {
		return nil, err
	}
	ev := &Evaluation{
		Objective:      c.MaxCross(),
		TotalCrossings: layered.TotalCrossings(c),
	}
	for e := range c.EdgeCount() {
		if edge := c.Edge(e); edge.Cross == ev.Objective && ev.Objective > 0 {
			ev.Bottleneck = append(ev.Bottleneck, EdgeRef{
				Source: c.Node(edge.Source).ID,
				Sink:   c.Node(edge.Sink).ID,
			})
		}
	}
	return ev, nil
}
