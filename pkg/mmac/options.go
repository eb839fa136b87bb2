package mmac

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mmac/pkg/errors"
)

// Construction selects how the initial layer order is built.
type Construction string

const (
	// ConstructRandom shuffles every layer independently.
	ConstructRandom Construction = "random"
	// ConstructGreedy grows the order from a random node, placing each new
	// node near the barycenter of its already placed neighbours.
	ConstructGreedy Construction = "greedy"
)

// Constructions lists the supported construction strategies.
var Constructions = []string{string(ConstructRandom), string(ConstructGreedy)}

const (
	DefaultTimeBudget      = 10 * time.Second
	DefaultMoveDistance    = 10
	DefaultPerturbFraction = 0.25
	DefaultPenalty         = 10000
)

// Options configures a solver run.
type Options struct {
	// Seed drives every random choice of the run.
	Seed uint64

	// TimeBudget bounds the wall-clock duration of the search.
	// Zero selects DefaultTimeBudget.
	TimeBudget time.Duration

	// Construction selects the initial ordering strategy.
	// Empty selects ConstructGreedy.
	Construction Construction

	// MoveDistance bounds how far a node may travel in one move.
	// Zero or negative lets a node reach any slot of its layer.
	MoveDistance int

	// PerturbFraction is the share of each layer that one perturbation
	// shuffles. Zero selects DefaultPerturbFraction.
	PerturbFraction float64

	// Penalty weighs each crossing by which a move would raise the
	// bottleneck. Zero selects DefaultPenalty.
	Penalty int

	// MaxSteps caps the number of applied moves plus perturbations.
	// Zero means unlimited. A step cap makes runs reproducible across
	// machines of different speed.
	MaxSteps int

	// VerifyLocalOptima recounts all crossings at every local optimum and
	// fails the run on any disagreement.
	VerifyLocalOptima bool

	// Logger receives debug output. Nil uses log.Default().
	Logger *log.Logger

	// Progress, if set, is called on improvements, local optima and
	// perturbations from the solving goroutine.
	Progress func(Progress)
}

// DefaultOptions returns the settings used by the command-line tool.
func DefaultOptions() Options {
	return Options{
		TimeBudget:      DefaultTimeBudget,
		Construction:    ConstructGreedy,
		MoveDistance:    DefaultMoveDistance,
		PerturbFraction: DefaultPerturbFraction,
		Penalty:         DefaultPenalty,
	}
}

// ValidateAndSetDefaults fills zero fields with defaults and rejects
// settings the solver cannot honour.
func (o *Options) ValidateAndSetDefaults() error {
	if o.TimeBudget == 0 {
		o.TimeBudget = DefaultTimeBudget
	}
	if o.TimeBudget < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "time budget must not be negative, got %s", o.TimeBudget)
	}
	if o.Construction == "" {
		o.Construction = ConstructGreedy
	}
	if err := errors.ValidateChoice("construction", string(o.Construction), Constructions...); err != nil {
		return err
	}
	if o.PerturbFraction == 0 {
		o.PerturbFraction = DefaultPerturbFraction
	}
	if err := errors.ValidateFraction("perturb fraction", o.PerturbFraction); err != nil {
		return err
	}
	if o.Penalty == 0 {
		o.Penalty = DefaultPenalty
	}
	if err := errors.ValidatePositive("penalty", o.Penalty); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("max steps", o.MaxSteps); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}

// Event identifies why a [Progress] report was emitted.
type Event int

const (
	EventImproved Event = iota
	EventLocalOptimum
	EventPerturbed
)

func (e Event) String() string {
	switch e {
	case EventImproved:
		return "improved"
	case EventLocalOptimum:
		return "local optimum"
	case EventPerturbed:
		return "perturbed"
	}
	return "unknown"
}

// Progress is a snapshot of search state passed to Options.Progress.
type Progress struct {
	Event     Event
	Iteration int           // Moves applied so far
	Objective int           // Current bottleneck
	Best      int           // Best bottleneck captured so far
	Elapsed   time.Duration // Time since the run started
}
