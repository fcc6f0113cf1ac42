package board

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/pinboard/pkg/masonry"
)

// Metrics controls how annotation heights are measured.
type Metrics struct {
	// FontSize is the caption font size in layout units.
	FontSize float64 `json:"font_size" toml:"font_size"`

	// LineHeight is the height of one caption line. Zero means 1.25×FontSize.
	LineHeight float64 `json:"line_height" toml:"line_height"`

	// HeaderHeight is reserved for the pin title when it is present.
	HeaderHeight float64 `json:"header_height" toml:"header_height"`

	// Padding is added above and below the annotation text.
	Padding float64 `json:"padding" toml:"padding"`
}

// DefaultMetrics returns the metrics used when none are configured.
func DefaultMetrics() Metrics {
	return Metrics{
		FontSize:     13,
		HeaderHeight: 17,
		Padding:      4,
	}
}

func (m Metrics) lineHeight() float64 {
	if m.LineHeight > 0 {
		return m.LineHeight
	}
	return m.FontSize * 1.25
}

// Oracle implements masonry.HeightOracle for a board.
type Oracle struct {
	board   *Board
	metrics Metrics
	face    font.Face
	scale   float64
}

// NewOracle returns an oracle measuring captions with the built-in 7x13
// bitmap face scaled to m.FontSize.
func NewOracle(b *Board, m Metrics) *Oracle {
	if m.FontSize <= 0 {
		m.FontSize = DefaultMetrics().FontSize
	}
	face := basicfont.Face7x13
	return &Oracle{
		board:   b,
		metrics: m,
		face:    face,
		scale:   m.FontSize / float64(face.Height),
	}
}

// PhotoHeight scales the pin's photo to width, keeping its aspect ratio.
// Photos of unknown size have no height.
func (o *Oracle) PhotoHeight(index int, width float64) float64 {
	if index < 0 || index >= len(o.board.Pins) {
		return 0
	}
	return width * o.board.Pins[index].Image.AspectRatio()
}

// AnnotationHeight returns the height of the pin's title and wrapped
// caption. Pins without text have no annotation.
func (o *Oracle) AnnotationHeight(index int, width float64) float64 {
	if index < 0 || index >= len(o.board.Pins) || width <= 0 {
		return 0
	}
	pin := o.board.Pins[index]
	title := strings.TrimSpace(pin.Title)
	caption := strings.TrimSpace(pin.Caption)
	if title == "" && caption == "" {
		return 0
	}

	h := 2 * o.metrics.Padding
	if title != "" {
		h += o.metrics.HeaderHeight
	}
	if caption != "" {
		h += float64(o.Lines(caption, width)) * o.metrics.lineHeight()
	}
	return h
}

// Lines returns the number of lines text wraps to at width.
func (o *Oracle) Lines(text string, width float64) int {
	return len(o.Wrap(text, width))
}

// Wrap breaks text into lines no wider than width, greedily by word. Each
// newline starts a paragraph. Words longer than a line are split across as
// many lines as they need.
func (o *Oracle) Wrap(text string, width float64) []string {
	if width <= 0 {
		return nil
	}
	space := o.measure(" ")
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var line strings.Builder
		used := 0.0
		for _, word := range strings.Fields(paragraph) {
			ww := o.measure(word)
			if used > 0 && used+space+ww <= width {
				line.WriteByte(' ')
				line.WriteString(word)
				used += space + ww
				continue
			}
			if used > 0 {
				lines = append(lines, line.String())
				line.Reset()
			}
			for ww > width && utf8.RuneCountInString(word) > 1 {
				head, tail := o.split(word, width)
				lines = append(lines, head)
				word, ww = tail, o.measure(tail)
			}
			line.WriteString(word)
			used = ww
		}
		lines = append(lines, line.String())
	}
	return lines
}

// split returns the longest prefix of word that fits width, keeping at
// least one rune, and the remainder.
func (o *Oracle) split(word string, width float64) (string, string) {
	end := 0
	for i, r := range word {
		next := i + utf8.RuneLen(r)
		if end > 0 && o.measure(word[:next]) > width {
			break
		}
		end = next
	}
	return word[:end], word[end:]
}

// measure returns the advance width of s in layout units.
func (o *Oracle) measure(s string) float64 {
	adv := font.MeasureString(o.face, s)
	return float64(adv) / 64 * o.scale
}

var _ masonry.HeightOracle = (*Oracle)(nil)
