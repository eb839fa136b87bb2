package mmac

import (
	stderrors "errors"
	"testing"

	"github.com/matzehuels/mmac/pkg/errors"
)

func TestVerify_Consistent(t *testing.T) {
	g := completeBipartite(t, 3)
	g.RecountCrossings()
	if err := Verify(g, NewTracker(g)); err != nil {
		t.Errorf("Verify() error: %v", err)
	}
	if err := Verify(g, nil); err != nil {
		t.Errorf("Verify(nil tracker) error: %v", err)
	}
}

func TestVerify_CorruptEdge(t *testing.T) {
	g := completeBipartite(t, 3)
	g.RecountCrossings()
	tr := NewTracker(g)
	g.Edge(4).Cross++

	err := Verify(g, tr)
	if !errors.IsInternal(err) {
		t.Fatalf("Verify() error = %v, want INTERNAL", err)
	}
	var ie *InconsistencyError
	if !stderrors.As(err, &ie) {
		t.Fatalf("Verify() error %T does not wrap *InconsistencyError", err)
	}
	// Edge 4 is the second edge of node 2: (2,5), crossed by (1,6) and (3,4).
	if ie.Source != 2 || ie.Sink != 5 || ie.Want != 2 || ie.Got != 3 {
		t.Errorf("InconsistencyError = %+v, want edge (2,5) tracked 3 recomputed 2", ie)
	}
}

func TestVerify_CorruptTracker(t *testing.T) {
	g := completeBipartite(t, 3)
	g.RecountCrossings()
	tr := NewTracker(g)

	// Swap without telling the tracker.
	g.SwapAdjacent(0, 0)

	err := Verify(g, tr)
	var ie *InconsistencyError
	if !stderrors.As(err, &ie) {
		t.Fatalf("Verify() error = %v, want *InconsistencyError", err)
	}
	if ie.Check != "node worst" {
		t.Errorf("Check = %q, want node worst", ie.Check)
	}
}

func TestInconsistencyError_Error(t *testing.T) {
	tests := []struct {
		err  *InconsistencyError
		want string
	}{
		{&InconsistencyError{Check: "edge crossings", Source: 1, Sink: 4, Want: 2, Got: 3}, "edge crossings: edge (1,4): tracked 3, recomputed 2"},
		{&InconsistencyError{Check: "node worst", Node: 7, Want: 1, Got: 0}, "node worst: node 7: tracked 0, recomputed 1"},
		{&InconsistencyError{Check: "bottleneck", Want: 5, Got: 4}, "bottleneck: tracked 4, recomputed 5"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
