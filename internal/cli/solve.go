package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	mmacio "github.com/matzehuels/mmac/pkg/io"
	"github.com/matzehuels/mmac/pkg/layered"
	"github.com/matzehuels/mmac/pkg/mmac"
)

// heartbeat is how often a quiet search logs that it is still running.
const heartbeat = 10 * time.Second

// solverFlags holds the flags shared by solve and bench. Flags left unset
// keep the configured value.
type solverFlags struct {
	seed         uint64
	time         time.Duration
	construction string
	moveDistance int
	perturb      float64
	maxSteps     int
	verify       bool
}

func addSolverFlags(cmd *cobra.Command, f *solverFlags) {
	flags := cmd.Flags()
	flags.Uint64Var(&f.seed, "seed", 0, "random seed")
	flags.DurationVar(&f.time, "time", mmac.DefaultTimeBudget, "time budget per run")
	flags.StringVar(&f.construction, "construction", string(mmac.ConstructGreedy),
		"initial order: "+strings.Join(mmac.Constructions, ", "))
	flags.IntVar(&f.moveDistance, "move-distance", mmac.DefaultMoveDistance, "max slots a node moves in one step (0 = unbounded)")
	flags.Float64Var(&f.perturb, "perturb", mmac.DefaultPerturbFraction, "share of each layer shuffled per perturbation")
	flags.IntVar(&f.maxSteps, "max-steps", 0, "stop after this many moves plus perturbations (0 = unlimited)")
	flags.BoolVar(&f.verify, "verify", false, "recount all crossings at every local optimum")
}

// solverOptions merges the configured solver settings with explicitly set
// flags.
func (c *CLI) solverOptions(cmd *cobra.Command, f *solverFlags) (mmac.Options, error) {
	opts, err := c.Config.SolverOptions()
	if err != nil {
		return mmac.Options{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("time") {
		opts.TimeBudget = f.time
	}
	if flags.Changed("construction") {
		opts.Construction = mmac.Construction(f.construction)
	}
	if flags.Changed("move-distance") {
		opts.MoveDistance = f.moveDistance
	}
	if flags.Changed("perturb") {
		opts.PerturbFraction = f.perturb
	}
	if flags.Changed("verify") {
		opts.VerifyLocalOptima = f.verify
	}
	opts.Seed = f.seed
	opts.MaxSteps = f.maxSteps
	opts.Logger = c.Logger
	return opts, opts.ValidateAndSetDefaults()
}

type solveOpts struct {
	solverFlags
	output  string
	json    bool
	noCache bool
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve <instance>",
		Short: "Search for a layer order with few crossings on the worst edge",
		Long: `Solve loads an instance and runs the iterated local search until the time
budget is spent, the step limit is reached, or no edge is crossed at all.

The best solution is compared with the cached best known solution of the
instance and recorded if it improves on it.`,
		Example: `  mmac solve instances/noug3-rnd-001.txt --time 30s --seed 7
  mmac solve g.txt -o g.sol --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd, args[0], opts)
		},
	}

	addSolverFlags(cmd, &opts.solverFlags)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the solution record to this file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the solution as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not read or record best known solutions")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, path string, opts solveOpts) error {
	ctx := cmd.Context()
	g, err := mmacio.LoadInstance(path)
	if err != nil {
		return err
	}
	sopts, err := c.solverOptions(cmd, &opts.solverFlags)
	if err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	logger.Infof("Loaded %s: %d nodes, %d edges, %d layers", g.Name, g.NodeCount(), g.EdgeCount(), g.LayerCount())

	store, closeStore := c.openBestStore(ctx, opts.noCache)
	defer closeStore()
	known, hit, err := store.Lookup(ctx, g)
	if err != nil {
		logger.Warn("Best known lookup failed", "err", err)
	}
	if hit {
		logger.Infof("Best known: bottleneck %d", known.Objective)
	}

	reporter := newSolveReporter(ctx, sopts.TimeBudget)
	sopts.Progress = reporter.onProgress
	sol, err := mmac.Solve(ctx, g, sopts)
	if err != nil {
		return err
	}
	reporter.done(sol)

	recorded, err := store.Record(context.WithoutCancel(ctx), g, sol)
	if err != nil {
		logger.Warn("Recording best known solution failed", "err", err)
	}

	if opts.output != "" {
		if err := mmacio.ExportSolution(sol, opts.output); err != nil {
			return err
		}
	}
	if opts.json {
		data, err := mmacio.MarshalSolution(sol)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	printSolveSummary(g, sol, known, recorded)
	if opts.output != "" {
		printFile(opts.output)
		printNextStep("Check it", fmt.Sprintf("mmac verify %s %s", path, opts.output))
	}
	return nil
}

func printSolveSummary(g *layered.Graph, sol *mmac.Solution, known *mmac.Solution, recorded bool) {
	printSuccess("Solved %s: bottleneck %s", g.Name, StyleNumber.Render(strconv.Itoa(sol.Objective)))
	printKeyValue("Crossings", strconv.Itoa(sol.TotalCrossings))
	printKeyValue("Time to best", sol.TimeToBest.Round(time.Millisecond).String())
	printKeyValue("Iteration", strconv.Itoa(sol.Iteration))
	printKeyValue("Seed", strconv.FormatUint(sol.Seed, 10))
	printKeyValue("Run", sol.RunID)
	switch {
	case recorded && known != nil:
		printInfo("New best known solution (was %d)", known.Objective)
	case recorded:
		printInfo("Recorded as best known solution")
	case known != nil && known.Objective < sol.Objective:
		printWarning("Best known solution is better: %d", known.Objective)
	}
}

// solveReporter logs solver progress: every improvement of the best
// bottleneck, and a heartbeat while the search is stuck.
type solveReporter struct {
	prog     *progress
	logger   *log.Logger
	budget   time.Duration
	lastBest int
	lastLog  time.Time
	optima   int
}

func newSolveReporter(ctx context.Context, budget time.Duration) *solveReporter {
	logger := loggerFromContext(ctx)
	return &solveReporter{
		prog:     newProgress(logger),
		logger:   logger,
		budget:   budget,
		lastBest: -1,
		lastLog:  time.Now(),
	}
}

func (r *solveReporter) onProgress(p mmac.Progress) {
	if p.Event == mmac.EventLocalOptimum {
		r.optima++
	}

	switch {
	case p.Event == mmac.EventImproved && r.lastBest < 0:
		r.logger.Infof("Improved: bottleneck %d at iteration %d", p.Best, p.Iteration)
		r.lastLog = time.Now()
	case p.Event == mmac.EventImproved && p.Best < r.lastBest:
		r.logger.Infof("Improved: bottleneck %d (↓%d) at iteration %d", p.Best, r.lastBest-p.Best, p.Iteration)
		r.lastLog = time.Now()
	default:
		if time.Since(r.lastLog) >= heartbeat {
			elapsed := p.Elapsed.Truncate(time.Second)
			r.logger.Infof("Searching... %v/%v elapsed, bottleneck %d (best %d, %d local optima)",
				elapsed, r.budget, p.Objective, p.Best, r.optima)
			r.lastLog = time.Now()
		}
	}
	if r.lastBest < 0 || p.Best < r.lastBest {
		r.lastBest = p.Best
	}
}

func (r *solveReporter) done(sol *mmac.Solution) {
	r.prog.done(fmt.Sprintf("Search complete: bottleneck %d, %d crossings", sol.Objective, sol.TotalCrossings))
	if sol.Objective > 0 {
		r.logger.Debug("Edges are still crossed; a longer --time or another --seed may find a better order")
	}
}
