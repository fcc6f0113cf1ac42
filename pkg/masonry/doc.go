// Package masonry computes Pinterest-style masonry layouts.
//
// # Overview
//
// A masonry layout places items of variable height into a fixed number of
// equal-width columns. Each item's height comes from a [HeightOracle]
// that is asked for the photo and annotation height at the current cell
// width; the item count and the host bounds come from a [Provider].
//
// The engine computes every frame once, caches the result and answers
// geometry queries from the cache until it is invalidated:
//
//	l, err := masonry.New(
//	    masonry.WithColumns(3),
//	    masonry.WithPadding(6),
//	    masonry.WithOracle(oracle),
//	    masonry.WithProvider(provider),
//	)
//	if err != nil {
//	    return err
//	}
//	size := l.ContentSize()
//	visible := l.AttributesInRect(masonry.NewRect(0, scrollY, size.Width, viewportHeight))
//
// # Placement
//
// Items are placed in item order. With [PlacementRoundRobin] (the default)
// item i lands in column i mod columns regardless of column heights. With
// [PlacementShortest] each item goes to the column with the smallest
// accumulated height, lowest index first on ties.
//
// Each cell occupies a full column width; its stored frame is inset by the
// cell padding on every side. The content height is the bottom edge of the
// tallest column including padding.
//
// # Invalidation
//
// Changing the columns, padding, placement, oracle or provider clears the
// cache. Hosts that resize or change their item count call [Layout.Refresh]
// (or [Layout.Invalidate] explicitly) before the next query.
//
// # Concurrency
//
// A [Layout] must be used from one goroutine at a time. [Guarded] wraps it
// with a mutex for shared use.
package masonry
