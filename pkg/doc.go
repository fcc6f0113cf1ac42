// Package pkg holds the libraries behind pinboard, a masonry layout engine
// for photo boards.
//
// # Overview
//
// A board is a list of pins, each a photo with an optional title and
// caption. The engine splits the host width into equal columns and drops
// every pin into one of them, stacking pins downward. The packages are:
//
//  1. [masonry] - the layout engine: geometry, placement and region queries
//  2. [board] - board files, height measurement and image probing
//  3. [document] - the serializable layout snapshot
//  4. [render] - SVG, DOT and PNG output
//  5. [pipeline] - load, layout and render with caching, shared by CLI and API
//  6. [cache], [storage], [server] - caching, layout storage and the HTTP API
//
// # Data Flow
//
//	board file (JSON/TOML/YAML)
//	         ↓
//	    [board] package (parse, normalize, measure)
//	         ↓
//	    [masonry] package (column placement, frames)
//	         ↓
//	    [document] package (layout snapshot)
//	         ↓
//	    [render] package (SVG/DOT/PNG)
//
// # Quick Start
//
//	b, _ := board.ReadFile("travel.toml")
//	src := b.Source(masonry.Bounds{Width: 1200})
//	engine, _ := masonry.New(
//	    masonry.WithOracle(board.NewOracle(b, board.DefaultMetrics())),
//	    masonry.WithProvider(src),
//	    masonry.WithColumns(3),
//	)
//	visible := engine.AttributesInRect(masonry.NewRect(0, 0, 1200, 900))
//
// Most callers go through [pipeline.Runner] instead, which adds defaults,
// validation and caching.
//
// # Errors
//
// Functions return errors from [errors]; use errors.Is with an error code
// such as errors.ErrCodeInvalidConfig to classify them.
package pkg
