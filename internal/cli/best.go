package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mmac/pkg/cache"
	mmacio "github.com/matzehuels/mmac/pkg/io"
)

type bestOpts struct {
	output string
	json   bool
	forget bool
}

// bestCommand creates the best command.
func (c *CLI) bestCommand() *cobra.Command {
	var opts bestOpts

	cmd := &cobra.Command{
		Use:   "best <instance>",
		Short: "Show the best known solution of an instance",
		Long: `Best looks up the best solution recorded for an instance by earlier solve
and bench runs. Entries are keyed by the instance content, so renaming or
moving the file does not lose them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBest(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the solution record to this file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the solution as JSON")
	cmd.Flags().BoolVar(&opts.forget, "forget", false, "delete the recorded solution")

	return cmd
}

func (c *CLI) runBest(cmd *cobra.Command, path string, opts bestOpts) error {
	ctx := cmd.Context()
	g, err := mmacio.LoadInstance(path)
	if err != nil {
		return err
	}

	store, closeStore := c.openBestStore(ctx, false)
	defer closeStore()

	if opts.forget {
		if err := store.Forget(ctx, g); err != nil {
			return err
		}
		printSuccess("Forgot best known solution of %s", g.Name)
		return nil
	}

	sol, ok, err := store.Lookup(ctx, g)
	if err != nil {
		return err
	}
	if !ok {
		printInfo("No best known solution for %s", g.Name)
		printNextStep("Find one", "mmac solve "+path)
		return nil
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

	printSuccess("Best known for %s: bottleneck %s", g.Name, StyleNumber.Render(strconv.Itoa(sol.Objective)))
	printKeyValue("Crossings", strconv.Itoa(sol.TotalCrossings))
	printKeyValue("Seed", strconv.FormatUint(sol.Seed, 10))
	printKeyValue("Time to best", sol.TimeToBest.Round(time.Millisecond).String())
	printKeyValue("Run", sol.RunID)
	printKeyValue("Instance hash", cache.InstanceHash(g))
	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}
