package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinboard/pkg/document"
	"github.com/matzehuels/pinboard/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		region     regionFlags
		opts       pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a saved layout",
		Long: `Render a saved layout.

The visualize command takes a layout.json file (produced by 'layout') and
renders it to SVG, DOT or PNG. The layout already holds every frame, so this
step never runs the layout engine.

Use 'render' as a shortcut to go directly from a board to visual output.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeLayoutFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cfg.Apply(&opts)
			opts.Logger = c.Logger
			opts.Region = region.rect(cmd)
			if err := opts.ValidateForRender(); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png (comma-separated)")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style: simple (default), outline")
	cmd.Flags().Float64Var(&opts.FontSize, "font-size", 0, "caption font size used for wrapping")
	region.register(cmd, "region-")

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := document.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d pins...", len(doc.Items)))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		input:     input,
		output:    output,
		pins:      len(doc.Items),
		columns:   doc.Columns,
		height:    doc.ContentHeight,
		cacheHit:  cacheHit,
	})
}
