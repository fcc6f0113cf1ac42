package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pinboard/pkg/board"
	"github.com/matzehuels/pinboard/pkg/masonry"
	"github.com/matzehuels/pinboard/pkg/pipeline"
)

// unitsPerRow is the number of layout units drawn as one terminal row.
const unitsPerRow = 16.0

// Board view styles
var (
	boardFrameStyle = lipgloss.NewStyle().Foreground(colorGray)
	boardDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BoardModel - Interactive board viewer
// =============================================================================

// BoardModel is the bubbletea model for scrolling through a laid-out
// board. Every frame asks the engine only for the pins that intersect the
// visible rectangle.
type BoardModel struct {
	Engine *masonry.Layout
	Board  *board.Board

	// Offset is the top of the viewport in content units.
	Offset float64

	// Width and Height are the canvas size in terminal cells.
	Width  int
	Height int

	// Visible holds the attributes returned for the current viewport.
	Visible []masonry.Attributes
}

// NewBoardModel creates a board viewer over a prepared engine.
func NewBoardModel(engine *masonry.Layout, b *board.Board) BoardModel {
	m := BoardModel{
		Engine: engine,
		Board:  b,
		Width:  80,
		Height: 20,
	}
	return m.query()
}

func (m BoardModel) Init() tea.Cmd {
	return nil
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.Offset -= unitsPerRow
		case "down", "j":
			m.Offset += unitsPerRow
		case "pgup", "b":
			m.Offset -= m.viewportHeight()
		case "pgdown", " ", "f":
			m.Offset += m.viewportHeight()
		case "home", "g":
			m.Offset = 0
		case "end", "G":
			m.Offset = math.Inf(1)
		case "+", "=":
			m.setColumns(m.Engine.Columns() + 1)
		case "-", "_":
			m.setColumns(m.Engine.Columns() - 1)
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height - 3
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m.query(), nil
}

// setColumns reconfigures the engine; invalid counts are ignored.
func (m *BoardModel) setColumns(n int) {
	if n < 1 || n > pipeline.MaxColumns {
		return
	}
	_ = m.Engine.SetColumns(n)
}

// viewportHeight is the visible content height in layout units.
func (m BoardModel) viewportHeight() float64 {
	return float64(m.Height) * unitsPerRow
}

// viewport returns the visible rectangle in content coordinates.
func (m BoardModel) viewport() masonry.Rect {
	size := m.Engine.ContentSize()
	return masonry.NewRect(0, m.Offset, size.Width, m.viewportHeight())
}

// query clamps the offset to the content and refreshes Visible.
func (m BoardModel) query() BoardModel {
	size := m.Engine.ContentSize()
	maxOffset := math.Max(size.Height-m.viewportHeight(), 0)
	m.Offset = math.Min(math.Max(m.Offset, 0), maxOffset)
	m.Visible = m.Engine.AttributesInRect(m.viewport())
	return m
}

func (m BoardModel) View() string {
	var b strings.Builder

	title := m.Board.Title
	if title == "" {
		title = "Board"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("  ")
	b.WriteString(boardDimStyle.Render(m.status()))
	b.WriteString("\n")

	canvas := m.draw()
	b.WriteString(boardFrameStyle.Render(strings.Join(canvas, "\n")))
	b.WriteString("\n")
	b.WriteString(boardDimStyle.Render("↑/↓ scroll  pgup/pgdn page  +/- columns  q quit"))

	return b.String()
}

// status summarizes the viewport position.
func (m BoardModel) status() string {
	size := m.Engine.ContentSize()
	if len(m.Visible) == 0 {
		return fmt.Sprintf("no pins · %d columns", m.Engine.Columns())
	}
	first, last := m.Visible[0].Index, m.Visible[0].Index
	for _, a := range m.Visible {
		first = min(first, a.Index)
		last = max(last, a.Index)
	}
	return fmt.Sprintf("pins %d-%d of %d · %d columns · %.0f/%.0f",
		first+1, last+1, len(m.Board.Pins), m.Engine.Columns(), m.Offset, size.Height)
}

// draw paints the visible pins onto a Width×Height character grid.
func (m BoardModel) draw() []string {
	grid := make([][]rune, m.Height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", m.Width))
	}

	size := m.Engine.ContentSize()
	scaleX := 0.0
	if size.Width > 0 {
		scaleX = float64(m.Width) / size.Width
	}

	for _, a := range m.Visible {
		f := a.Frame
		box := cellBox{
			x0: int(math.Floor(f.MinX() * scaleX)),
			x1: int(math.Ceil(f.MaxX()*scaleX)) - 1,
			y0: int(math.Floor((f.MinY() - m.Offset) / unitsPerRow)),
			y1: int(math.Ceil((f.MaxY()-m.Offset)/unitsPerRow)) - 1,
		}
		box.paint(grid, m.label(a.Index))
	}

	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}
	return lines
}

// label is the text drawn inside a pin's box.
func (m BoardModel) label(index int) string {
	if index < 0 || index >= len(m.Board.Pins) {
		return ""
	}
	pin := m.Board.Pins[index]
	if pin.Title != "" {
		return pin.Title
	}
	return pin.ID
}

// cellBox is a pin's frame in terminal cells, inclusive on both ends. It
// may extend past the grid.
type cellBox struct {
	x0, x1, y0, y1 int
}

// paint draws the box border and label, clipped to grid.
func (c cellBox) paint(grid [][]rune, label string) {
	set := func(x, y int, r rune) {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
			grid[y][x] = r
		}
	}

	if c.x1 <= c.x0 || c.y1 <= c.y0 {
		set(c.x0, c.y0, '▪')
		return
	}

	for x := c.x0 + 1; x < c.x1; x++ {
		set(x, c.y0, '─')
		set(x, c.y1, '─')
	}
	for y := c.y0 + 1; y < c.y1; y++ {
		set(c.x0, y, '│')
		set(c.x1, y, '│')
	}
	set(c.x0, c.y0, '┌')
	set(c.x1, c.y0, '┐')
	set(c.x0, c.y1, '└')
	set(c.x1, c.y1, '┘')

	if c.y1-c.y0 < 2 {
		return
	}
	for i, r := range []rune(label) {
		x := c.x0 + 1 + i
		if x >= c.x1 {
			break
		}
		set(x, c.y0+1, r)
	}
}
