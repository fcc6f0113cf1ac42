package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pinboard/pkg/pipeline"
)

// browseCommand creates the browse command, an interactive terminal view
// of a laid-out board.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		padding float64
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "browse [board]",
		Short: "Scroll through a laid-out board in the terminal",
		Long: `Scroll through a laid-out board in the terminal.

Pins are drawn as boxes scaled to the terminal width. Use the arrow keys or
j/k to scroll, page up/down to jump, +/- to change the number of columns and
q to quit.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBoardFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.resolveOptions(cmd, &opts, padding); err != nil {
				return err
			}
			return c.runBrowse(cmd.Context(), args[0], opts)
		},
	}

	addLayoutFlags(cmd, &opts, &padding, "width")

	return cmd
}

// runBrowse lays out the board and hands the engine to the viewer.
func (c *CLI) runBrowse(ctx context.Context, input string, opts pipeline.Options) error {
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

	p := tea.NewProgram(NewBoardModel(engine, b), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
