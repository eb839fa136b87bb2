package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mmac/pkg/errors"
	mmacio "github.com/matzehuels/mmac/pkg/io"
	"github.com/matzehuels/mmac/pkg/layered"
	"github.com/matzehuels/mmac/pkg/mmac"
	"github.com/matzehuels/mmac/pkg/render"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file; stdout if empty
	format    string // "dot" or "svg"; inferred from output when empty
	crossings bool   // label edges with their crossing counts
	noHigh    bool   // do not highlight bottleneck edges
	best      bool   // use the cached best known order
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <instance> [solution]",
		Short: "Draw an ordered instance as Graphviz DOT or SVG",
		Long: `Render draws every layer of an instance in the order given by a solution
file (or the cached best known order with --best, or the input order),
with the edges that carry the most crossings highlighted.

The output format follows the -o extension unless --format is given.`,
		Example: `  mmac render g.txt g.sol -o g.svg --crossings
  mmac render g.txt --best | dot -Tpng > g.png`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: dot, svg")
	cmd.Flags().BoolVar(&opts.crossings, "crossings", false, "label edges with their crossing counts")
	cmd.Flags().BoolVar(&opts.noHigh, "no-highlight", false, "do not highlight the worst edges")
	cmd.Flags().BoolVar(&opts.best, "best", false, "use the cached best known order")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts renderOpts) error {
	ctx := cmd.Context()
	format, err := renderFormat(opts.format, opts.output)
	if err != nil {
		return err
	}

	g, err := mmacio.LoadInstance(args[0])
	if err != nil {
		return err
	}
	if err := c.orderForRender(cmd, g, args, opts.best); err != nil {
		return err
	}

	dot := render.ToDOT(g, render.Options{Crossings: opts.crossings, Highlight: !opts.noHigh})
	data := []byte(dot)
	if format == formatSVG {
		if data, err = render.RenderSVG(ctx, dot); err != nil {
			return err
		}
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	printSuccess("Rendered %s: bottleneck %d", g.Name, g.MaxCross())
	printFile(opts.output)
	return nil
}

// orderForRender applies the solution file, or the cached best order, to g
// and counts its crossings.
func (c *CLI) orderForRender(cmd *cobra.Command, g *layered.Graph, args []string, best bool) error {
	switch {
	case len(args) == 2:
		sol, err := mmacio.ImportSolution(args[1])
		if err != nil {
			return err
		}
		return mmac.Apply(g, sol)
	case best:
		ctx := cmd.Context()
		store, closeStore := c.openBestStore(ctx, false)
		defer closeStore()
		sol, ok, err := store.Lookup(ctx, g)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "no best known solution for %s", g.Name)
		}
		return mmac.Apply(g, sol)
	}
	g.RecountCrossings()
	return nil
}

func renderFormat(format, output string) (string, error) {
	if format == "" {
		format = formatDOT
		if strings.EqualFold(filepath.Ext(output), ".svg") {
			format = formatSVG
		}
	}
	format = strings.ToLower(format)
	if err := errors.ValidateChoice("format", format, formatDOT, formatSVG); err != nil {
		return "", err
	}
	return format, nil
}
