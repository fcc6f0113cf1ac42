package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinboard/pkg/document"
	"github.com/matzehuels/pinboard/pkg/pipeline"
)

// layoutCommand creates the layout command for computing board layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		padding float64
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [board]",
		Short: "Compute a masonry layout for a board",
		Long: `Compute a masonry layout for a board.

The layout command reads a board file (JSON, TOML or YAML), places every pin
in a column and writes the resulting frames to a layout.json file (same
format as 'render -f json'). Render it later with 'visualize'.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBoardFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.resolveOptions(cmd, &opts, padding); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <board>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	addLayoutFlags(cmd, &opts, &padding, "width")

	return cmd
}

// runLayout loads the board, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.BoardPath = input
	b, err := runner.LoadBoard(ctx, opts)
	if err != nil {
		return fmt.Errorf("load board %s: %w", input, err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %d pins...", b.Len()))
	spinner.Start()

	doc, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, b, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = layoutPath(input)
	}
	if err := document.WriteLayoutFile(doc, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(doc.Items), doc.Columns, doc.ContentHeight, cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}
