package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/pinboard/pkg/board"
	"github.com/matzehuels/pinboard/pkg/errors"
)

// Style defines the visual appearance of a rendered board.
type Style interface {
	// Name is the identifier accepted by ParseStyle.
	Name() string
	// RenderDefs writes SVG <defs> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderPin writes the SVG for a single pin.
	RenderPin(buf *bytes.Buffer, p Pin)
}

// Pin contains all data needed to render one laid-out item.
type Pin struct {
	Index      int
	ID         string
	Title      string
	Lines      []string // Caption, already wrapped to W
	URL        string
	X, Y, W, H float64
	PhotoH     float64
	Metrics    board.Metrics
}

// Style names.
const (
	StyleSimple  = "simple"
	StyleOutline = "outline"
)

// ParseStyle returns the style registered under name.
func ParseStyle(name string) (Style, error) {
	switch name {
	case "", StyleSimple:
		return Simple{}, nil
	case StyleOutline:
		return Outline{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want %s or %s)", name, StyleSimple, StyleOutline)
}

// Simple draws filled cards with a grey photo placeholder.
type Simple struct{}

func (Simple) Name() string { return StyleSimple }

func (Simple) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <filter id="shadow" x="-5%" y="-5%" width="110%" height="110%">
      <feDropShadow dx="0" dy="1" stdDeviation="1.5" flood-opacity="0.25"/>
    </filter>
  </defs>
`)
}

func (Simple) RenderPin(buf *bytes.Buffer, p Pin) {
	fmt.Fprintf(buf, `  <g class="pin" id="pin-%d">`+"\n", p.Index)
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="6" fill="#ffffff" filter="url(#shadow)"/>`+"\n",
		p.X, p.Y, p.W, p.H)
	if p.PhotoH > 0 {
		WrapURL(buf, p.URL, func() {
			fmt.Fprintf(buf, `    <rect class="photo" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="6" fill="#d9d9de"/>`+"\n",
				p.X, p.Y, p.W, p.PhotoH)
		})
	}
	renderAnnotation(buf, p, "#222222")
	buf.WriteString("  </g>\n")
}

// Outline draws frame outlines only. Useful for inspecting geometry.
type Outline struct{}

func (Outline) Name() string { return StyleOutline }

func (Outline) RenderDefs(*bytes.Buffer) {}

func (Outline) RenderPin(buf *bytes.Buffer, p Pin) {
	fmt.Fprintf(buf, `  <g class="pin" id="pin-%d">`+"\n", p.Index)
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#333333" stroke-width="1"/>`+"\n",
		p.X, p.Y, p.W, p.H)
	if p.PhotoH > 0 {
		fmt.Fprintf(buf, `    <line class="photo" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#999999" stroke-dasharray="4 2"/>`+"\n",
			p.X, p.Y+p.PhotoH, p.X+p.W, p.Y+p.PhotoH)
	}
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="monospace" font-size="10" fill="#999999">%d</text>`+"\n",
		p.X+3, p.Y+12, p.Index)
	renderAnnotation(buf, p, "#333333")
	buf.WriteString("  </g>\n")
}
