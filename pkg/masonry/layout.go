package masonry

import (
	"math"

	"github.com/matzehuels/pinboard/pkg/errors"
)

// Default configuration values.
const (
	DefaultColumns = 2
	DefaultPadding = 6.0
)

// HeightOracle reports the content heights of items for a given column
// width. Implementations must return the same heights for the same index
// and width; otherwise the cached layout is stale until invalidated.
type HeightOracle interface {
	// PhotoHeight returns the height of the item's photo area.
	PhotoHeight(index int, width float64) float64

	// AnnotationHeight returns the height of the item's annotation area.
	AnnotationHeight(index int, width float64) float64
}

// Provider supplies the item count and host bounds at layout time.
type Provider interface {
	ItemCount() int
	Bounds() Bounds
}

// Layout computes and caches a masonry layout.
//
// The cache is either empty or holds one Attributes entry per item, in
// item order. Geometry reads populate it lazily; configuration changes
// clear it. Layout is not safe for concurrent use; wrap it in a Guarded
// when several goroutines share one instance.
type Layout struct {
	columns   int
	padding   float64
	placement Placement

	oracle   HeightOracle
	provider Provider

	cache         []Attributes
	contentHeight float64

	// Inputs the cache was computed from, used by ShouldInvalidate.
	preparedWidth float64
	preparedCount int
}

// Option configures a Layout in New.
type Option func(*Layout) error

// WithColumns sets the number of columns.
func WithColumns(n int) Option {
	return func(l *Layout) error { return l.SetColumns(n) }
}

// WithPadding sets the padding applied around every cell.
func WithPadding(p float64) Option {
	return func(l *Layout) error { return l.SetPadding(p) }
}

// WithPlacement sets the column selection strategy.
func WithPlacement(p Placement) Option {
	return func(l *Layout) error { return l.SetPlacement(p) }
}

// WithOracle sets the height oracle.
func WithOracle(o HeightOracle) Option {
	return func(l *Layout) error {
		l.SetOracle(o)
		return nil
	}
}

// WithProvider sets the item count and bounds provider.
func WithProvider(p Provider) Option {
	return func(l *Layout) error {
		l.SetProvider(p)
		return nil
	}
}

// New creates a Layout with two columns, 6.0 padding and round-robin
// placement, then applies opts in order.
func New(opts ...Option) (*Layout, error) {
	l := &Layout{
		columns:   DefaultColumns,
		padding:   DefaultPadding,
		placement: PlacementRoundRobin,
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Columns returns the configured number of columns.
func (l *Layout) Columns() int { return l.columns }

// Padding returns the configured cell padding.
func (l *Layout) Padding() float64 { return l.padding }

// Placement returns the configured column selection strategy.
func (l *Layout) Placement() Placement { return l.placement }

// SetColumns changes the number of columns and invalidates the layout.
func (l *Layout) SetColumns(n int) error {
	if n <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "number of columns must be positive, got %d", n)
	}
	l.columns = n
	l.Invalidate()
	return nil
}

// SetPadding changes the cell padding and invalidates the layout.
func (l *Layout) SetPadding(p float64) error {
	if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "cell padding must be a non-negative number, got %g", p)
	}
	l.padding = p
	l.Invalidate()
	return nil
}

// SetPlacement changes the column selection strategy and invalidates the
// layout.
func (l *Layout) SetPlacement(p Placement) error {
	if !p.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown placement %d", int(p))
	}
	l.placement = p
	l.Invalidate()
	return nil
}

// SetOracle replaces the height oracle and invalidates the layout.
func (l *Layout) SetOracle(o HeightOracle) {
	l.oracle = o
	l.Invalidate()
}

// SetProvider replaces the provider and invalidates the layout.
func (l *Layout) SetProvider(p Provider) {
	l.provider = p
	l.Invalidate()
}

// Invalidate drops the cached attributes. The next geometry read
// recomputes the whole layout.
func (l *Layout) Invalidate() {
	l.cache = nil
	l.contentHeight = 0
	l.preparedWidth = 0
	l.preparedCount = 0
}

// Prepared reports whether the cache is populated.
func (l *Layout) Prepared() bool { return len(l.cache) > 0 }

// Prepare computes the attributes of every item. It does nothing while
// the cache is populated; call Invalidate first to force a recompute.
//
// Prepare panics if no oracle or provider has been set.
func (l *Layout) Prepare() {
	if len(l.cache) > 0 {
		return
	}
	if l.oracle == nil {
		panic("masonry: Prepare called without a height oracle")
	}
	if l.provider == nil {
		panic("masonry: Prepare called without a provider")
	}

	count := l.provider.ItemCount()
	width := l.provider.Bounds().ContentWidth()
	l.preparedWidth = width
	l.preparedCount = count
	l.contentHeight = 0
	if count <= 0 {
		return
	}

	columnWidth := width / float64(l.columns)
	xOffset := make([]float64, l.columns)
	for col := range xOffset {
		xOffset[col] = float64(col) * columnWidth
	}
	yOffset := make([]float64, l.columns)

	cellWidth := math.Max(columnWidth-2*l.padding, 0)
	cursor := columnCursor{placement: l.placement}
	cache := make([]Attributes, 0, count)

	for item := 0; item < count; item++ {
		col := cursor.pick(yOffset)

		photo := clampHeight(l.oracle.PhotoHeight(item, cellWidth))
		annotation := clampHeight(l.oracle.AnnotationHeight(item, cellWidth))
		height := photo + annotation + 2*l.padding

		frame := NewRect(xOffset[col], yOffset[col], columnWidth, height)
		cache = append(cache, Attributes{
			Index:       item,
			Frame:       frame.Inset(l.padding, l.padding),
			PhotoHeight: photo,
		})

		l.contentHeight = math.Max(l.contentHeight, frame.MaxY())
		yOffset[col] += height
	}

	l.cache = cache
}

// clampHeight keeps oracle output out of the geometry when it is negative,
// infinite or not a number.
func clampHeight(h float64) float64 {
	if h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	return h
}

// ContentSize returns the size needed to display every item. The width is
// read live from the provider; the height comes from the cached layout,
// which is computed first if needed.
func (l *Layout) ContentSize() Size {
	l.Prepare()
	return Size{Width: l.provider.Bounds().ContentWidth(), Height: l.contentHeight}
}

// AttributesInRect returns the attributes of every item whose frame
// overlaps r with positive area, in item order. The returned slice is a
// copy.
func (l *Layout) AttributesInRect(r Rect) []Attributes {
	l.Prepare()
	var out []Attributes
	for _, attrs := range l.cache {
		if attrs.Frame.Intersects(r) {
			out = append(out, attrs)
		}
	}
	return out
}

// AttributesAt returns the attributes of the item at index.
func (l *Layout) AttributesAt(index int) (Attributes, bool) {
	l.Prepare()
	if index < 0 || index >= len(l.cache) {
		return Attributes{}, false
	}
	return l.cache[index], true
}

// All returns a copy of every cached attribute in item order.
func (l *Layout) All() []Attributes {
	l.Prepare()
	out := make([]Attributes, len(l.cache))
	copy(out, l.cache)
	return out
}

// Len returns the number of laid-out items.
func (l *Layout) Len() int {
	l.Prepare()
	return len(l.cache)
}

// ShouldInvalidate reports whether moving to the given bounds changes the
// column geometry of the current layout.
func (l *Layout) ShouldInvalidate(b Bounds) bool {
	return b.ContentWidth() != l.preparedWidth
}

// Refresh invalidates the layout when the provider reports a different
// item count or content width than the cached layout was computed with,
// then prepares it. It reports whether a recompute happened.
func (l *Layout) Refresh() bool {
	if l.Prepared() &&
		l.provider.ItemCount() == l.preparedCount &&
		!l.ShouldInvalidate(l.provider.Bounds()) {
		return false
	}
	l.Invalidate()
	l.Prepare()
	return true
}
