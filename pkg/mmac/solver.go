package mmac

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/mmac/pkg/errors"
	"github.com/matzehuels/mmac/pkg/layered"
	"github.com/matzehuels/mmac/pkg/observability"
)

// Stats summarises the work done by a run.
type Stats struct {
	Iterations    int           // Moves applied
	Perturbations int           // Perturbations applied
	LocalOptima   int           // Local optima reached
	Elapsed       time.Duration // Wall-clock duration of Run
}

// Solver runs one iterated local search on a private copy of a graph.
// A Solver is single-use and not safe for concurrent use; run independent
// seeds on independent solvers.
type Solver struct {
	g       *layered.Graph
	opts    Options
	rng     *rand.Rand
	tracker *Tracker
	runID   string

	// Pending crossing changes per edge index during move evaluation:
	// own for the moving node's edges, passed for the node just passed over.
	own, passed []int

	start time.Time
	best  *Solution
	stats Stats
	ran   bool
}

// NewSolver validates g and opts and prepares a run. The solver works on a
// clone, so g is never modified and may be shared by several solvers.
//
// Returns ErrCodeInvalidInstance if g violates a structural invariant and
// ErrCodeInvalidOptions for unusable options.
func NewSolver(g *layered.Graph, opts Options) (*Solver, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInstance, err, "instance %q", g.Name)
	}
	c := g.Clone()
	return &Solver{
		g:      c,
		opts:   opts,
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef)),
		runID:  uuid.NewString(),
		own:    make([]int, c.EdgeCount()),
		passed: make([]int, c.EdgeCount()),
	}, nil
}

// Solve is shorthand for NewSolver followed by Run.
func Solve(ctx context.Context, g *layered.Graph, opts Options) (*Solution, error) {
	s, err := NewSolver(g, opts)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

// Run constructs an initial order and improves it until the time budget is
// spent, ctx is cancelled, the step limit is reached, or the bottleneck
// reaches zero. It returns the best solution captured.
//
// Cancellation is not an error: the best solution so far is returned. An
// error is returned only when a bookkeeping check fails, in which case the
// run is unusable.
func (s *Solver) Run(ctx context.Context) (sol *Solution, err error) {
	if s.ran {
		return nil, errors.New(errors.ErrCodeInvalidInput, "solver for %q has already run", s.g.Name)
	}
	s.ran = true

	hooks := observability.Solver()
	hooks.OnSolveStart(ctx, s.g.Name, s.g.NodeCount(), s.g.EdgeCount())
	s.start = time.Now()
	defer func() {
		s.stats.Elapsed = time.Since(s.start)
		objective := -1
		if sol != nil {
			objective = sol.Objective
		}
		hooks.OnSolveComplete(ctx, s.g.Name, objective, s.stats.Iterations, s.stats.Elapsed, err)
	}()

	if err := construct(s.g, s.opts.Construction, s.rng); err != nil {
		return nil, err
	}
	s.g.RecountCrossings()
	s.tracker = NewTracker(s.g)
	if err := s.capture(ctx); err != nil {
		return nil, err
	}
	s.opts.Logger.Debug("constructed",
		"instance", s.g.Name,
		"construction", s.opts.Construction,
		"objective", s.best.Objective,
		"crossings", s.best.TotalCrossings)

	searching := true
	for s.tracker.Bottleneck() > 0 && !s.exhausted(ctx) {
		if !searching {
			if err := s.perturb(ctx); err != nil {
				return nil, err
			}
			searching = true
			continue
		}

		mv, ok := s.bestMove()
		if !ok {
			if err := s.localOptimum(ctx); err != nil {
				return nil, err
			}
			searching = false
			continue
		}
		s.apply(mv)
		s.stats.Iterations++
		if err := s.improve(ctx); err != nil {
			return nil, err
		}
	}

	s.opts.Logger.Debug("search finished",
		"instance", s.g.Name,
		"objective", s.best.Objective,
		"iterations", s.stats.Iterations,
		"perturbations", s.stats.Perturbations,
		"local_optima", s.stats.LocalOptima)
	return s.best, nil
}

// Best returns the best solution captured so far, or nil before Run.
func (s *Solver) Best() *Solution { return s.best }

// Stats returns counters for the run.
func (s *Solver) Stats() Stats { return s.stats }

func (s *Solver) exhausted(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	if s.opts.MaxSteps > 0 && s.stats.Iterations+s.stats.Perturbations >= s.opts.MaxSteps {
		return true
	}
	return time.Since(s.start) >= s.opts.TimeBudget
}

// improve captures the current state if it beats the best one.
func (s *Solver) improve(ctx context.Context) error {
	if s.tracker.Bottleneck() >= s.best.Objective {
		return nil
	}
	if err := s.capture(ctx); err != nil {
		return err
	}
	s.report(EventImproved)
	return nil
}

func (s *Solver) localOptimum(ctx context.Context) error {
	s.stats.LocalOptima++
	if s.opts.VerifyLocalOptima {
		if err := Verify(s.g, s.tracker); err != nil {
			return err
		}
	}
	if err := s.improve(ctx); err != nil {
		return err
	}
	s.report(EventLocalOptimum)
	return nil
}

// perturb shuffles one random contiguous slice of every layer with at least
// two nodes, then recounts from scratch. The slice covers PerturbFraction of
// the layer, rounded up, and never fewer than two slots.
func (s *Solver) perturb(ctx context.Context) error {
	for l := range s.g.LayerCount() {
		size := len(s.g.Layer(l))
		if size < 2 {
			continue
		}
		k := min(size, max(2, int(math.Ceil(s.opts.PerturbFraction*float64(size)))))
		from := s.rng.IntN(size - k + 1)
		order := slices.Clone(s.g.Layer(l))
		window := order[from : from+k]
		s.rng.Shuffle(k, func(i, j int) { window[i], window[j] = window[j], window[i] })
		if err := s.g.SetOrder(l, order); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "perturb layer %d", l)
		}
	}
	s.g.RecountCrossings()
	s.tracker.Rebuild()
	s.stats.Perturbations++

	observability.Solver().OnPerturb(ctx, s.g.Name, s.stats.Perturbations, s.tracker.Bottleneck())
	if err := s.improve(ctx); err != nil {
		return err
	}
	s.report(EventPerturbed)
	return nil
}

// capture verifies the bookkeeping and replaces the best solution with a
// snapshot of the current state.
func (s *Solver) capture(ctx context.Context) error {
	if err := Verify(s.g, s.tracker); err != nil {
		return err
	}
	sol := snapshot(s.g, s.tracker.Bottleneck())
	sol.RunID = s.runID
	sol.Seed = s.opts.Seed
	sol.TimeToBest = time.Since(s.start)
	sol.Iteration = s.stats.Iterations
	s.best = sol

	observability.Solver().OnImprovement(ctx, s.g.Name, sol.Objective, sol.Iteration, sol.TimeToBest)
	return nil
}

func (s *Solver) report(ev Event) {
	if s.opts.Progress == nil {
		return
	}
	s.opts.Progress(Progress{
		Event:     ev,
		Iteration: s.stats.Iterations,
		Objective: s.tracker.Bottleneck(),
		Best:      s.best.Objective,
		Elapsed:   time.Since(s.start),
	})
}
