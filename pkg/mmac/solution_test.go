package mmac

import (
	"testing"

	"github.com/matzehuels/mmac/pkg/errors"
)

func TestApply(t *testing.T) {
	g := mustGraph(t, []int{3, 3}, [][2]int{{1, 4}, {2, 5}, {3, 6}})
	sol := &Solution{Layers: [][]int{{3, 2, 1}, {4, 5, 6}}}
	if err := Apply(g, sol); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if got := g.Node(2).Pos; got != 0 {
		t.Errorf("node 3 at %d, want 0", got)
	}
	if got := g.MaxCross(); got != 2 {
		t.Errorf("MaxCross() = %d after reversing one layer, want 2", got)
	}
}

func TestApply_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		layers [][]int
	}{
		{"missing layer", [][]int{{1, 2}}},
		{"wrong layer", [][]int{{1, 3}, {2, 4}}},
		{"duplicate", [][]int{{1, 1}, {3, 4}}},
		{"unknown node", [][]int{{1, 2}, {3, 9}}},
		{"short layer", [][]int{{1}, {3, 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := completeBipartite(t, 2)
			err := Apply(g, &Solution{Layers: tt.layers})
			if !errors.Is(err, errors.ErrCodeInvalidSolution) {
				t.Errorf("Apply() error = %v, want INVALID_SOLUTION", err)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	g := completeBipartite(t, 3)
	ev, err := Evaluate(g, &Solution{Layers: [][]int{{1, 2, 3}, {4, 5, 6}}})
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if ev.Objective != 4 || ev.TotalCrossings != 9 {
		t.Errorf("Evaluate() = %d/%d, want 4/9", ev.Objective, ev.TotalCrossings)
	}
	want := map[EdgeRef]bool{{1, 6}: true, {3, 4}: true}
	if len(ev.Bottleneck) != len(want) {
		t.Fatalf("Bottleneck = %v, want the two corner edges", ev.Bottleneck)
	}
	for _, e := range ev.Bottleneck {
		if !want[e] {
			t.Errorf("unexpected bottleneck edge %v", e)
		}
	}
	if g.Edge(0).Cross != 0 {
		t.Error("Evaluate() modified the input graph")
	}
}

func TestSolution_Clone(t *testing.T) {
	sol := &Solution{Objective: 3, Layers: [][]int{{1, 2}, {3, 4}}}
	c := sol.Clone()
	c.Layers[0][0] = 99
	if sol.Layers[0][0] != 1 {
		t.Error("Clone() shares layer storage")
	}
	if c.Objective != 3 {
		t.Errorf("Clone().Objective = %d, want 3", c.Objective)
	}
}
