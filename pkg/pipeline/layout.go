package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/pinboard/pkg/board"
	"github.com/matzehuels/pinboard/pkg/document"
	"github.com/matzehuels/pinboard/pkg/masonry"
	"github.com/matzehuels/pinboard/pkg/observability"
)

// =============================================================================
// Engine Construction
// =============================================================================

// NewEngine builds a masonry engine over b configured from opts. The
// returned source is the engine's provider; callers change the host bounds
// through it and then call Refresh on the engine.
func NewEngine(b *board.Board, opts Options) (*masonry.Layout, *board.Source, error) {
	opts.SetLayoutDefaults()
	placement, err := masonry.ParsePlacement(opts.Placement)
	if err != nil {
		return nil, nil, err
	}

	source := b.Source(opts.Bounds())
	engine, err := masonry.New(
		masonry.WithColumns(opts.Columns),
		masonry.WithPadding(*opts.Padding),
		masonry.WithPlacement(placement),
		masonry.WithOracle(board.NewOracle(b, opts.Metrics())),
		masonry.WithProvider(source),
	)
	if err != nil {
		return nil, nil, err
	}
	return engine, source, nil
}

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout runs the engine over b and snapshots the result.
func ComputeLayout(ctx context.Context, b *board.Board, opts Options) (document.Layout, error) {
	engine, _, err := NewEngine(b, opts)
	if err != nil {
		return document.Layout{}, err
	}
	return Snapshot(ctx, engine, b, opts.Bounds()), nil
}

// Snapshot prepares engine and converts it to a document, emitting layout
// hooks around the computation.
func Snapshot(ctx context.Context, engine *masonry.Layout, b *board.Board, bounds masonry.Bounds) document.Layout {
	observability.Pipeline().OnLayoutStart(ctx, engine.Columns(), b.Len())
	start := time.Now()

	engine.Prepare()
	doc := document.FromEngine(engine, b, bounds)

	observability.Pipeline().OnLayoutComplete(ctx, len(doc.Items), time.Since(start), nil)
	return doc
}

// Query returns the items of engine intersecting region, emitting the
// query hook.
func Query(ctx context.Context, engine *masonry.Layout, region masonry.Rect) []masonry.Attributes {
	start := time.Now()
	attrs := engine.AttributesInRect(region)
	observability.Pipeline().OnQuery(ctx, len(attrs), time.Since(start))
	return attrs
}
