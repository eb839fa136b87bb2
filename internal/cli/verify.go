package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mmac/pkg/errors"
	mmacio "github.com/matzehuels/mmac/pkg/io"
	"github.com/matzehuels/mmac/pkg/mmac"
)

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <instance> <solution>",
		Short: "Recompute the objective of a solution file from scratch",
		Long: `Verify applies a solution record to its instance, counts every crossing
again and compares the result with the objective the record claims.

The command fails if the record is not a permutation of every layer or if
the claimed objective is wrong.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVerify(args[0], args[1])
		},
	}
}

func (c *CLI) runVerify(instancePath, solutionPath string) error {
	g, err := mmacio.LoadInstance(instancePath)
	if err != nil {
		return err
	}
	sol, err := mmacio.ImportSolution(solutionPath)
	if err != nil {
		return err
	}
	if sol.Instance != "" && sol.Instance != g.Name {
		c.Logger.Warnf("Solution was written for %s, checking it against %s", sol.Instance, g.Name)
	}

	ev, err := mmac.Evaluate(g, sol)
	if err != nil {
		return err
	}

	printKeyValue("Bottleneck", strconv.Itoa(ev.Objective))
	printKeyValue("Crossings", strconv.Itoa(ev.TotalCrossings))
	if len(ev.Bottleneck) > 0 {
		printKeyValue("Worst edges", formatEdges(ev.Bottleneck))
	}

	if ev.Objective != sol.Objective {
		return errors.New(errors.ErrCodeInvalidSolution,
			"%s claims objective %d, recomputed %d", solutionPath, sol.Objective, ev.Objective)
	}
	printSuccess("Solution is valid: bottleneck %d", ev.Objective)
	return nil
}

// formatEdges lists edges as "1→4, 2→3", eliding all but the first few.
func formatEdges(edges []mmac.EdgeRef) string {
	const shown = 8
	parts := make([]string, 0, min(len(edges), shown)+1)
	for i, e := range edges {
		if i == shown {
			parts = append(parts, fmt.Sprintf("… %d more", len(edges)-shown))
			break
		}
		parts = append(parts, fmt.Sprintf("%d%s%d", e.Source, iconArrow, e.Sink))
	}
	return strings.Join(parts, ", ")
}
