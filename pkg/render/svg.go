package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/pinboard/pkg/board"
	"github.com/matzehuels/pinboard/pkg/document"
	"github.com/matzehuels/pinboard/pkg/masonry"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style      Style
	metrics    board.Metrics
	region     *masonry.Rect
	background string
}

func WithStyle(s Style) SVGOption           { return func(r *svgRenderer) { r.style = s } }
func WithMetrics(m board.Metrics) SVGOption { return func(r *svgRenderer) { r.metrics = m } }
func WithBackground(c string) SVGOption     { return func(r *svgRenderer) { r.background = c } }

// WithRegion renders only the pins intersecting r, which is given in
// content coordinates, and crops the viewBox to it.
func WithRegion(r masonry.Rect) SVGOption {
	return func(s *svgRenderer) { s.region = &r }
}

// RenderSVG renders a computed layout as a standalone SVG document.
func RenderSVG(doc document.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	oracle := board.NewOracle(&board.Board{}, r.metrics)

	left, top := doc.Insets.Left, doc.Insets.Top
	vx, vy := 0.0, 0.0
	vw := doc.ContentWidth + left + doc.Insets.Right
	vh := doc.ContentHeight + top + doc.Insets.Bottom
	if r.region != nil {
		vx, vy = r.region.X+left, r.region.Y+top
		vw, vh = r.region.Width, r.region.Height
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		vx, vy, vw, vh, vw, vh)
	if doc.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", EscapeXML(doc.Title))
	}
	r.style.RenderDefs(&buf)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			vx, vy, vw, vh, EscapeXML(r.background))
	}

	fmt.Fprintf(&buf, `  <g transform="translate(%.2f %.2f)">`+"\n", left, top)
	for _, item := range visibleItems(doc, r.region) {
		r.style.RenderPin(&buf, buildPin(item, oracle, r.metrics))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: Simple{}, metrics: board.DefaultMetrics()}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// visibleItems returns the items overlapping region, or all items when
// region is nil.
func visibleItems(doc document.Layout, region *masonry.Rect) []document.Item {
	if region == nil {
		return doc.Items
	}
	var out []document.Item
	for _, item := range doc.Items {
		if item.Frame().Intersects(*region) {
			out = append(out, item)
		}
	}
	return out
}

func buildPin(item document.Item, oracle *board.Oracle, m board.Metrics) Pin {
	var lines []string
	if caption := strings.TrimSpace(item.Caption); caption != "" {
		lines = oracle.Wrap(caption, item.Width)
	}
	return Pin{
		Index:   item.Index,
		ID:      item.ID,
		Title:   item.Title,
		Lines:   lines,
		URL:     item.ImageURL,
		X:       item.X,
		Y:       item.Y,
		W:       item.Width,
		H:       item.Height,
		PhotoH:  item.PhotoHeight,
		Metrics: m,
	}
}
