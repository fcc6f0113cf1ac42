package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinboard/pkg/masonry"
	"github.com/matzehuels/pinboard/pkg/pipeline"
)

// renderCommand creates the render command, the shortcut from a board
// straight to output files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		padding    float64
		region     regionFlags
		opts       pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [board]",
		Short: "Lay out a board and render it",
		Long: `Lay out a board and render it in one step.

Formats:
  svg   pins as rectangles with photo area and caption
  json  the layout document (same as 'layout')
  dot   Graphviz source with pinned node positions
  png   the DOT graph rasterized by Graphviz

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBoardFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := c.resolveOptions(cmd, &opts, padding); err != nil {
				return err
			}
			opts.Region = region.rect(cmd)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute the layout even when cached")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png (comma-separated)")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style: simple (default), outline")
	addLayoutFlags(cmd, &opts, &padding, "width")
	region.register(cmd, "region-")

	return cmd
}

// runRender executes the full pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.BoardPath = input

	spinner := newSpinnerWithContext(ctx, "Rendering "+filepath.Base(input)+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		input:     input,
		output:    output,
		pins:      result.Stats.PinCount,
		columns:   result.Layout.Columns,
		height:    result.Layout.ContentHeight,
		cacheHit:  result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	})
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams describes a set of rendered artifacts to write.
type artifactWriteParams struct {
	artifacts map[string][]byte
	input     string
	output    string
	pins      int
	columns   int
	height    float64
	cacheHit  bool
}

// writeArtifacts writes each artifact next to the input (or to output) and
// reports what was written.
func writeArtifacts(p artifactWriteParams) error {
	formats := make([]string, 0, len(p.artifacts))
	for f := range p.artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := artifactPath(p.output, p.input, format, len(formats))
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Render complete")
	for _, path := range paths {
		printFile(path)
	}
	printStats(p.pins, p.columns, p.height, p.cacheHit)
	return nil
}

// artifactPath picks the file name for one format. A single artifact is
// written to output verbatim when given; otherwise output (or the input)
// is used as a base name. JSON artifacts are layouts and get the layout
// suffix so they never overwrite a JSON board.
func artifactPath(output, input, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	if format == pipeline.FormatJSON {
		return basePath(output, input) + layoutSuffix
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return trimExt(input)
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// =============================================================================
// Region Flags
// =============================================================================

// regionFlags binds the four coordinates of a query or crop rectangle.
type regionFlags struct {
	x, y, width, height float64
	prefix              string
}

func (r *regionFlags) register(cmd *cobra.Command, prefix string) {
	r.prefix = prefix
	cmd.Flags().Float64Var(&r.x, prefix+"x", 0, "region left edge")
	cmd.Flags().Float64Var(&r.y, prefix+"y", 0, "region top edge")
	cmd.Flags().Float64Var(&r.width, prefix+"width", 0, "region width")
	cmd.Flags().Float64Var(&r.height, prefix+"height", 0, "region height")
}

// set reports whether any region flag was given.
func (r *regionFlags) set(cmd *cobra.Command) bool {
	for _, name := range []string{"x", "y", "width", "height"} {
		if cmd.Flags().Changed(r.prefix + name) {
			return true
		}
	}
	return false
}

// rect returns the region, or nil when no region flag was given.
func (r *regionFlags) rect(cmd *cobra.Command) *masonry.Rect {
	if !r.set(cmd) {
		return nil
	}
	rect := masonry.NewRect(r.x, r.y, r.width, r.height)
	return &rect
}
