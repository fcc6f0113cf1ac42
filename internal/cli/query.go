package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pinboard/pkg/document"
	"github.com/matzehuels/pinboard/pkg/errors"
	"github.com/matzehuels/pinboard/pkg/masonry"
	"github.com/matzehuels/pinboard/pkg/pipeline"
)

// queryCommand creates the query command, which lists the pins whose
// frames overlap a region of the laid-out board.
func (c *CLI) queryCommand() *cobra.Command {
	var (
		padding float64
		region  regionFlags
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "query [board]",
		Short: "List the pins that intersect a region",
		Long: `List the pins that intersect a region.

The region is given in content coordinates: x grows to the right from the
left inset, y grows downwards from the top inset. Pins that only touch the
region's edge are not listed.

Example:
  pinboard query travel.toml --x 0 --y 0 --width 400 --height 600`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBoardFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			rect := region.rect(cmd)
			if rect == nil {
				return errors.New(errors.ErrCodeInvalidInput, "a region is required (--x, --y, --width, --height)")
			}
			if err := errors.ValidateRegion(rect.X, rect.Y, rect.Width, rect.Height); err != nil {
				return err
			}
			if err := c.resolveOptions(cmd, &opts, padding); err != nil {
				return err
			}
			return c.runQuery(cmd.Context(), args[0], opts, *rect)
		},
	}

	addLayoutFlags(cmd, &opts, &padding, "board-width")
	region.register(cmd, "")

	return cmd
}

// runQuery lays out the board and prints the pins inside region.
func (c *CLI) runQuery(ctx context.Context, input string, opts pipeline.Options, region masonry.Rect) error {
	opts.BoardPath = input
	if err := opts.ValidateForLoad(); err != nil {
		return err
	}
	b, err := pipeline.LoadBoard(ctx, opts)
	if err != nil {
		return fmt.Errorf("load board %s: %w", input, err)
	}

	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	engine, _, err := pipeline.NewEngine(b, opts)
	if err != nil {
		return err
	}

	found := pipeline.Query(ctx, engine, region)
	items := make([]document.Item, 0, len(found))
	for _, a := range found {
		items = append(items, document.NewItem(a, &b.Pins[a.Index]))
	}

	if len(items) == 0 {
		printInfo("No pins in region %s", formatRect(region))
		return nil
	}

	fmt.Println(queryTable(items))
	printDetail("%d of %d pins in region %s", len(items), b.Len(), formatRect(region))
	return nil
}

// queryTable renders items as a bordered table.
func queryTable(items []document.Item) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	numberStyle := lipgloss.NewStyle().Foreground(colorCyan)

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			strconv.Itoa(it.Index),
			it.ID,
			it.Title,
			formatNumber(it.X),
			formatNumber(it.Y),
			formatNumber(it.Width),
			formatNumber(it.Height),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "ID", "Title", "X", "Y", "Width", "Height").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0 || col >= 3:
				return numberStyle
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		})

	return t.Render()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatRect(r masonry.Rect) string {
	return fmt.Sprintf("(%s, %s, %s×%s)", formatNumber(r.X), formatNumber(r.Y), formatNumber(r.Width), formatNumber(r.Height))
}
