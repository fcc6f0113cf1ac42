package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/pinboard/pkg/document"
	"github.com/matzehuels/pinboard/pkg/observability"
	"github.com/matzehuels/pinboard/pkg/render"
)

// RenderFromLayout generates output artifacts in the requested formats.
func RenderFromLayout(ctx context.Context, doc document.Layout, opts Options) (map[string][]byte, error) {
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFormats(ctx, doc, opts)

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(ctx context.Context, doc document.Layout, opts Options) (map[string][]byte, error) {
	svgOpts, err := buildSVGOptions(opts)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.RenderSVG(doc, svgOpts...)
		case FormatJSON:
			data, err = document.MarshalLayout(doc)
		case FormatDOT:
			data = []byte(render.ToDOT(doc))
		case FormatPNG:
			data, err = render.RenderPNG(ctx, doc)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) ([]render.SVGOption, error) {
	style, err := render.ParseStyle(opts.Style)
	if err != nil {
		return nil, err
	}
	svgOpts := []render.SVGOption{
		render.WithStyle(style),
		render.WithMetrics(opts.Metrics()),
	}
	if opts.Region != nil {
		svgOpts = append(svgOpts, render.WithRegion(*opts.Region))
	}
	return svgOpts, nil
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(ctx context.Context, layoutData []byte, opts Options) (map[string][]byte, error) {
	doc, err := document.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return RenderFromLayout(ctx, doc, opts)
}
