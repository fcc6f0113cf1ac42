// Package render draws computed board layouts.
//
// # SVG
//
// [RenderSVG] writes one group per pin: a photo area of the pin's photo
// height and, below it, the annotation band with the title and the caption
// wrapped at the pin width. Two styles are available, "simple" and
// "outline" (see [ParseStyle]).
//
//	svg, err := render.RenderSVG(doc, render.WithStyle(render.Outline{}))
//
// [WithRegion] restricts the output to the pins intersecting a viewport
// and sets the SVG viewBox to it, the same query a scrolling host issues.
//
// # Graphviz
//
// [ToDOT] converts a layout to a DOT graph whose nodes are pinned to the
// computed frames. [RenderDOT] lays it out with neato, which keeps pinned
// positions, and renders SVG or PNG.
//
//	dot := render.ToDOT(doc)
//	png, err := render.RenderDOT(ctx, dot, render.FormatPNG)
package render
