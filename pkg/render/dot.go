package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pinboard/pkg/document"
	"github.com/matzehuels/pinboard/pkg/errors"
)

// Output formats produced by RenderDOT.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// pointsPerInch converts layout units, treated as points, to the inches
// Graphviz uses for node sizes.
const pointsPerInch = 72.0

// ToDOT converts a layout to an undirected Graphviz graph with one box per
// pin. Node positions are pinned to the computed frames, with the y axis
// flipped into Graphviz's bottom-up coordinates.
func ToDOT(doc document.Layout) string {
	var buf bytes.Buffer
	buf.WriteString("graph board {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if doc.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", doc.Title)
	}
	buf.WriteString("  node [shape=box, style=\"filled\", fillcolor=white, fixedsize=true, fontsize=10];\n")
	buf.WriteString("\n")

	for _, item := range doc.Items {
		cx := item.X + item.Width/2
		cy := doc.ContentHeight - (item.Y + item.Height/2)
		attrs := []string{
			fmt.Sprintf("label=%q", dotLabel(item)),
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", cx, cy),
			fmt.Sprintf("width=%.4f", item.Width/pointsPerInch),
			fmt.Sprintf("height=%.4f", item.Height/pointsPerInch),
		}
		if item.ImageURL != "" {
			attrs = append(attrs, fmt.Sprintf("URL=%q", item.ImageURL))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", dotID(item), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotID(item document.Item) string {
	if item.ID != "" {
		return item.ID
	}
	return fmt.Sprintf("pin-%d", item.Index)
}

func dotLabel(item document.Item) string {
	if item.Title != "" {
		return item.Title
	}
	return dotID(item)
}

// RenderDOT lays out a DOT graph with neato and renders it in format.
func RenderDOT(ctx context.Context, dot string, format string) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "graphviz cannot render %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPNG renders a layout as PNG through Graphviz.
func RenderPNG(ctx context.Context, doc document.Layout) ([]byte, error) {
	return RenderDOT(ctx, ToDOT(doc), FormatPNG)
}
