package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/mmac/pkg/errors"
	mmacio "github.com/matzehuels/mmac/pkg/io"
	"github.com/matzehuels/mmac/pkg/layered"
	"github.com/matzehuels/mmac/pkg/mmac"
)

type benchOpts struct {
	solverFlags
	runs     int
	parallel int
	csv      string
	noCache  bool
}

// benchRun is the outcome of one seed.
type benchRun struct {
	sol     *mmac.Solution
	elapsed time.Duration
}

// benchSummary aggregates the runs of one instance.
type benchSummary struct {
	Runs              int
	MinObj, MaxObj    int
	MeanObj, StdObj   float64
	MinTime, MaxTime  float64 // seconds to best
	MeanTime, StdTime float64
	Best              int // index of the run with the lowest objective
	MeanCross         float64
}

// benchCommand creates the bench command.
func (c *CLI) benchCommand() *cobra.Command {
	var opts benchOpts

	cmd := &cobra.Command{
		Use:   "bench <instance>",
		Short: "Solve an instance with many seeds and aggregate the results",
		Long: `Bench runs independent searches with seeds seed, seed+1, ... concurrently,
each on its own copy of the instance, and reports the minimum, mean, standard
deviation and maximum of the objective and the time to best.

With --csv one summary row per invocation is appended to the given file.`,
		Example: `  mmac bench instances/noug5-rnd-003.txt --runs 50 --time 10s --csv results.csv`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBench(cmd, args[0], opts)
		},
	}

	addSolverFlags(cmd, &opts.solverFlags)
	cmd.Flags().IntVar(&opts.runs, "runs", 0, "number of seeds (default from config)")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 0, "concurrent runs (default from config, 0 = one per CPU)")
	cmd.Flags().StringVar(&opts.csv, "csv", "", "append a summary row to this CSV file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not record the best run as best known solution")

	return cmd
}

func (c *CLI) runBench(cmd *cobra.Command, path string, opts benchOpts) error {
	ctx := cmd.Context()
	g, err := mmacio.LoadInstance(path)
	if err != nil {
		return err
	}
	sopts, err := c.solverOptions(cmd, &opts.solverFlags)
	if err != nil {
		return err
	}

	runs, parallel := c.Config.Bench.Runs, c.Config.Bench.Parallel
	if cmd.Flags().Changed("runs") {
		runs = opts.runs
	}
	if cmd.Flags().Changed("parallel") {
		parallel = opts.parallel
	}
	if err := errors.ValidatePositive("runs", runs); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("parallel", parallel); err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	logger.Infof("Benchmarking %s: %d runs of %v", g.Name, runs, sopts.TimeBudget)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Running %d seeds...", runs))
	spinner.Start()
	prog := newProgress(logger)
	var finished atomic.Int64
	results, err := benchmark(ctx, g, sopts, runs, parallel, func(benchRun) {
		spinner.SetMessage("Running seeds... %d/%d done", finished.Add(1), runs)
	})
	if err != nil {
		spinner.StopWithError("Benchmark failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Finished %d runs", runs))

	sum := summarize(results)
	printTable(cmd.OutOrStdout(), runsTable(results, sum.Best))
	printTable(cmd.OutOrStdout(), summaryTable(sum))

	best := results[sum.Best].sol
	store, closeStore := c.openBestStore(ctx, opts.noCache)
	defer closeStore()
	if recorded, err := store.Record(context.WithoutCancel(ctx), g, best); err != nil {
		logger.Warn("Recording best known solution failed", "err", err)
	} else if recorded {
		printInfo("Recorded seed %d as best known solution (bottleneck %d)", best.Seed, best.Objective)
	}

	if opts.csv != "" {
		if err := appendBenchCSV(opts.csv, g.Name, sum); err != nil {
			return err
		}
		printFile(opts.csv)
	}
	return nil
}

// benchmark solves g once per seed opts.Seed, opts.Seed+1, ..., running at
// most parallel searches at a time (one per CPU if parallel is 0). onDone
// is called from the worker goroutine after each run. The first error
// cancels the remaining runs.
func benchmark(ctx context.Context, g *layered.Graph, opts mmac.Options, runs, parallel int, onDone func(benchRun)) ([]benchRun, error) {
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}
	results := make([]benchRun, runs)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(parallel)
	for i := range runs {
		eg.Go(func() error {
			o := opts
			o.Seed = opts.Seed + uint64(i)
			o.Progress = nil

			start := time.Now()
			sol, err := mmac.Solve(ctx, g, o)
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i, o.Seed, err)
			}
			results[i] = benchRun{sol: sol, elapsed: time.Since(start)}
			if onDone != nil {
				onDone(results[i])
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// summarize computes the objective and time-to-best statistics of runs,
// which must not be empty.
func summarize(runs []benchRun) benchSummary {
	objs := make([]float64, len(runs))
	times := make([]float64, len(runs))
	cross := make([]float64, len(runs))
	for i, r := range runs {
		objs[i] = float64(r.sol.Objective)
		times[i] = r.sol.TimeToBest.Seconds()
		cross[i] = float64(r.sol.TotalCrossings)
	}

	s := benchSummary{
		Runs:    len(runs),
		MinObj:  int(floats.Min(objs)),
		MaxObj:  int(floats.Max(objs)),
		MinTime: floats.Min(times),
		MaxTime: floats.Max(times),
		Best:    floats.MinIdx(objs),
	}
	s.MeanObj, s.StdObj = meanStdDev(objs)
	s.MeanTime, s.StdTime = meanStdDev(times)
	s.MeanCross = stat.Mean(cross, nil)
	return s
}

// meanStdDev is stat.MeanStdDev with a zero deviation for a single sample.
func meanStdDev(x []float64) (float64, float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}

func runsTable(runs []benchRun, best int) fmt.Stringer {
	t := newTable(best, "seed", "bottleneck", "crossings", "time to best", "iteration", "wall")
	for _, r := range runs {
		t.Row(
			strconv.FormatUint(r.sol.Seed, 10),
			strconv.Itoa(r.sol.Objective),
			strconv.Itoa(r.sol.TotalCrossings),
			r.sol.TimeToBest.Round(time.Millisecond).String(),
			strconv.Itoa(r.sol.Iteration),
			r.elapsed.Round(time.Millisecond).String(),
		)
	}
	return t
}

func summaryTable(s benchSummary) fmt.Stringer {
	t := newTable(-2, "", "min", "mean", "stddev", "max")
	t.Row("bottleneck", strconv.Itoa(s.MinObj), fmtFloat(s.MeanObj), fmtFloat(s.StdObj), strconv.Itoa(s.MaxObj))
	t.Row("time to best (s)", fmtFloat(s.MinTime), fmtFloat(s.MeanTime), fmtFloat(s.StdTime), fmtFloat(s.MaxTime))
	return t
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

var benchCSVHeader = []string{
	"instance", "runs", "min_objective", "mean_objective", "stddev_objective",
	"max_objective", "mean_time_to_best", "max_time_to_best", "mean_crossings",
}

// appendBenchCSV appends one summary row to path, writing a header first if
// the file is new or empty.
func appendBenchCSV(path, instance string, s benchSummary) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(benchCSVHeader); err != nil {
			return err
		}
	}
	row := []string{
		instance,
		strconv.Itoa(s.Runs),
		strconv.Itoa(s.MinObj),
		fmtFloat(s.MeanObj),
		fmtFloat(s.StdObj),
		strconv.Itoa(s.MaxObj),
		fmtFloat(s.MeanTime),
		fmtFloat(s.MaxTime),
		fmtFloat(s.MeanCross),
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
