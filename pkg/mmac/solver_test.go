package mmac

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/mmac/pkg/errors"
	"github.com/matzehuels/mmac/pkg/layered"
)

func stepOptions(seed uint64, steps int) Options {
	opts := DefaultOptions()
	opts.Seed = seed
	opts.TimeBudget = time.Hour
	opts.MaxSteps = steps
	return opts
}

func TestSolve_CompleteBipartite(t *testing.T) {
	g := completeBipartite(t, 3)
	for _, kind := range []Construction{ConstructRandom, ConstructGreedy} {
		opts := stepOptions(1, 50)
		opts.Construction = kind
		opts.VerifyLocalOptima = true

		sol, err := Solve(context.Background(), g, opts)
		if err != nil {
			t.Fatalf("%s: Solve() error: %v", kind, err)
		}
		// Every order of K(3,3) puts 4 crossings on the two corner edges.
		if sol.Objective != 4 {
			t.Errorf("%s: Objective = %d, want 4", kind, sol.Objective)
		}
		if sol.TotalCrossings != 9 {
			t.Errorf("%s: TotalCrossings = %d, want 9", kind, sol.TotalCrossings)
		}

		c := g.Clone()
		if err := Apply(c, sol); err != nil {
			t.Fatalf("%s: Apply() error: %v", kind, err)
		}
		if got := bruteForceMax(c); got != sol.Objective {
			t.Errorf("%s: brute force bottleneck = %d, solution claims %d", kind, got, sol.Objective)
		}
	}
}

func TestSolve_ReachesZero(t *testing.T) {
	// A matching can always be drawn without crossings.
	g := mustGraph(t, []int{3, 3}, [][2]int{{1, 6}, {2, 5}, {3, 4}})
	for seed := range uint64(10) {
		opts := stepOptions(seed, 200)
		opts.Construction = ConstructRandom

		s, err := NewSolver(g, opts)
		if err != nil {
			t.Fatal(err)
		}
		sol, err := s.Run(context.Background())
		if err != nil {
			t.Fatalf("seed %d: Run() error: %v", seed, err)
		}
		if sol.Objective != 0 {
			t.Fatalf("seed %d: Objective = %d, want 0", seed, sol.Objective)
		}

		c := g.Clone()
		if err := Apply(c, sol); err != nil {
			t.Fatal(err)
		}
		if got := bruteForceMax(c); got != 0 {
			t.Errorf("seed %d: brute force finds %d crossings on one edge", seed, got)
		}
		if s.Stats().Perturbations != 0 {
			t.Errorf("seed %d: %d perturbations, want none before reaching 0", seed, s.Stats().Perturbations)
		}
	}
}

func TestSolve_SingleEdge(t *testing.T) {
	g := mustGraph(t, []int{1, 1}, [][2]int{{1, 2}})
	sol, err := Solve(context.Background(), g, DefaultOptions())
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	if sol.Objective != 0 || sol.Iteration != 0 {
		t.Errorf("Objective = %d, Iteration = %d, want 0 and 0", sol.Objective, sol.Iteration)
	}
	if want := [][]int{{1}, {2}}; !slices.EqualFunc(sol.Layers, want, slices.Equal[[]int]) {
		t.Errorf("Layers = %v, want %v", sol.Layers, want)
	}
}

func TestSolve_Deterministic(t *testing.T) {
	g := randomGraph(t, rand.New(rand.NewPCG(8, 8)), 5, 9)
	run := func() (*Solution, Stats) {
		s, err := NewSolver(g, stepOptions(77, 120))
		if err != nil {
			t.Fatal(err)
		}
		sol, err := s.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		return sol, s.Stats()
	}

	a, statsA := run()
	b, statsB := run()
	if statsA.Iterations != statsB.Iterations || statsA.Perturbations != statsB.Perturbations {
		t.Fatalf("runs did different work: %+v vs %+v", statsA, statsB)
	}
	if a.Objective != b.Objective || a.Iteration != b.Iteration {
		t.Errorf("objective/iteration differ: %d@%d vs %d@%d", a.Objective, a.Iteration, b.Objective, b.Iteration)
	}
	for l := range a.Layers {
		if !slices.Equal(a.Layers[l], b.Layers[l]) {
			t.Errorf("layer %d differs: %v vs %v", l, a.Layers[l], b.Layers[l])
		}
	}
	if a.RunID == b.RunID {
		t.Errorf("RunID repeated across runs: %s", a.RunID)
	}
}

func TestSolve_BestNeverIncreases(t *testing.T) {
	g := randomGraph(t, rand.New(rand.NewPCG(12, 12)), 6, 10)
	opts := stepOptions(3, 300)
	opts.VerifyLocalOptima = true

	last := -1
	var perturbed int
	opts.Progress = func(p Progress) {
		if last >= 0 && p.Best > last {
			t.Errorf("best rose from %d to %d at iteration %d", last, p.Best, p.Iteration)
		}
		if p.Objective < p.Best {
			t.Errorf("%s: current %d below captured best %d", p.Event, p.Objective, p.Best)
		}
		if p.Event == EventPerturbed {
			perturbed++
		}
		last = p.Best
	}

	s, err := NewSolver(g, opts)
	if err != nil {
		t.Fatal(err)
	}
	sol, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if last >= 0 && sol.Objective > last {
		t.Errorf("final objective %d above last reported best %d", sol.Objective, last)
	}
	if perturbed != s.Stats().Perturbations {
		t.Errorf("reported %d perturbations, stats say %d", perturbed, s.Stats().Perturbations)
	}
	if got := s.Stats().Iterations + s.Stats().Perturbations; sol.Objective > 0 && got != 300 {
		t.Errorf("steps = %d, want the 300 step cap", got)
	}
}

func TestRun_PerturbsAtLocalOptima(t *testing.T) {
	rng := rand.New(rand.NewPCG(300, 5000))
	for trial := range 100 {
		g := randomGraph(t, rng, 2+rng.IntN(4), 2+rng.IntN(8))
		opts := stepOptions(uint64(trial), 500)
		opts.Construction = ConstructRandom

		s, err := NewSolver(g, opts)
		if err != nil {
			t.Fatal(err)
		}
		sol, err := s.Run(context.Background())
		if err != nil {
			t.Fatalf("trial %d: Run() error: %v", trial, err)
		}
		if sol.Objective == 0 {
			continue
		}
		if st := s.Stats(); st.LocalOptima == 0 || st.Perturbations == 0 {
			t.Errorf("trial %d: stats %+v, want local optima and perturbations", trial, st)
		}
	}
}

func TestPerturb_SingletonLayers(t *testing.T) {
	// Layer 1 has one node and must be left alone.
	g := mustGraph(t, []int{3, 1, 3}, [][2]int{{1, 4}, {2, 4}, {3, 4}, {4, 5}, {4, 6}, {4, 7}})
	s := newTestSolver(t, g, Options{Seed: 5, PerturbFraction: 1})
	if err := s.capture(context.Background()); err != nil {
		t.Fatal(err)
	}

	for range 20 {
		if err := s.perturb(context.Background()); err != nil {
			t.Fatalf("perturb() error: %v", err)
		}
		if err := s.g.CheckPositions(); err != nil {
			t.Fatalf("CheckPositions() after perturb: %v", err)
		}
		if got := s.g.Order(1); !slices.Equal(got, []int{4}) {
			t.Fatalf("singleton layer = %v, want [4]", got)
		}
		if err := Verify(s.g, s.tracker); err != nil {
			t.Fatalf("Verify() after perturb: %v", err)
		}
	}
	if got := s.Stats().Perturbations; got != 20 {
		t.Errorf("Perturbations = %d, want 20", got)
	}
}

func TestPerturb_ShufflesContiguousWindow(t *testing.T) {
	g := mustGraph(t, []int{8, 8}, [][2]int{
		{1, 9}, {2, 10}, {3, 11}, {4, 12}, {5, 13}, {6, 14}, {7, 15}, {8, 16},
	})
	s := newTestSolver(t, g, Options{Seed: 9, PerturbFraction: 0.25})
	if err := s.capture(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := s.g.Orders()
	if err := s.perturb(context.Background()); err != nil {
		t.Fatalf("perturb() error: %v", err)
	}
	for l, order := range s.g.Orders() {
		first, last := -1, -1
		for p := range order {
			if order[p] != before[l][p] {
				if first < 0 {
					first = p
				}
				last = p
			}
		}
		// A quarter of 8 slots: at most two adjacent slots move.
		if first >= 0 && last-first > 1 {
			t.Errorf("layer %d: changes span slots %d..%d, want a window of 2", l, first, last)
		}
	}
}

func TestRun_Cancelled(t *testing.T) {
	g := completeBipartite(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := NewSolver(g, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	sol, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if sol == nil || sol.Iteration != 0 {
		t.Fatalf("Run() = %+v, want the constructed solution", sol)
	}
	if got := s.Stats().Iterations; got != 0 {
		t.Errorf("Iterations = %d after cancellation, want 0", got)
	}
}

func TestRun_Twice(t *testing.T) {
	s, err := NewSolver(mustGraph(t, []int{1, 1}, [][2]int{{1, 2}}), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Run(context.Background()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second Run() error = %v, want INVALID_INPUT", err)
	}
}

func TestNewSolver_Rejects(t *testing.T) {
	isolated, err := layered.New([]int{2, 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := isolated.AddEdge(1, 3); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		g    *layered.Graph
		opts Options
		code errors.Code
	}{
		{"isolated node", isolated, DefaultOptions(), errors.ErrCodeInvalidInstance},
		{"bad construction", completeBipartite(t, 2), Options{Construction: "spiral"}, errors.ErrCodeInvalidOptions},
		{"bad fraction", completeBipartite(t, 2), Options{PerturbFraction: 1.5}, errors.ErrCodeInvalidOptions},
		{"negative budget", completeBipartite(t, 2), Options{TimeBudget: -time.Second}, errors.ErrCodeInvalidOptions},
		{"negative steps", completeBipartite(t, 2), Options{MaxSteps: -1}, errors.ErrCodeInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSolver(tt.g, tt.opts); !errors.Is(err, tt.code) {
				t.Errorf("NewSolver() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSolve_LeavesInputUntouched(t *testing.T) {
	g := randomGraph(t, rand.New(rand.NewPCG(2, 2)), 3, 6)
	before := g.Orders()
	if _, err := Solve(context.Background(), g, stepOptions(1, 40)); err != nil {
		t.Fatal(err)
	}
	for l, order := range g.Orders() {
		if !slices.Equal(order, before[l]) {
			t.Errorf("layer %d reordered: %v -> %v", l, before[l], order)
		}
	}
}
