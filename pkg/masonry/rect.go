package masonry

import "math"

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
// Y grows downward, matching the scroll direction of a board.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect returns a rectangle with the given origin and size.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// MinX returns the left edge.
func (r Rect) MinX() float64 { return r.X }

// MinY returns the top edge.
func (r Rect) MinY() float64 { return r.Y }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Inset shrinks the rectangle by dx on the left and right and by dy on the
// top and bottom. The size never goes negative: an over-inset rectangle
// collapses to zero size around its center.
func (r Rect) Inset(dx, dy float64) Rect {
	out := Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width - 2*dx, Height: r.Height - 2*dy}
	if out.Width < 0 {
		out.X = r.X + r.Width/2
		out.Width = 0
	}
	if out.Height < 0 {
		out.Y = r.Y + r.Height/2
		out.Height = 0
	}
	return out
}

// Intersects reports whether r and other overlap with positive area.
// Rectangles that only share an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.X < other.MaxX() && other.X < r.MaxX() &&
		r.Y < other.MaxY() && other.Y < r.MaxY()
}

// Intersect returns the overlapping area of r and other, or the zero Rect
// when they do not intersect.
func (r Rect) Intersect(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	x := math.Max(r.X, other.X)
	y := math.Max(r.Y, other.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  math.Min(r.MaxX(), other.MaxX()) - x,
		Height: math.Min(r.MaxY(), other.MaxY()) - y,
	}
}

// Contains reports whether the point lies inside r (half-open on the
// right and bottom edges).
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.MaxX() && y >= r.Y && y < r.MaxY()
}

// Size is a width and height pair.
type Size struct {
	Width, Height float64
}

// Insets are margins subtracted from the bounds before layout.
type Insets struct {
	Top    float64 `json:"top,omitempty" toml:"top" yaml:"top"`
	Left   float64 `json:"left,omitempty" toml:"left" yaml:"left"`
	Bottom float64 `json:"bottom,omitempty" toml:"bottom" yaml:"bottom"`
	Right  float64 `json:"right,omitempty" toml:"right" yaml:"right"`
}

// Bounds describes the area the layout is hosted in.
type Bounds struct {
	Width  float64
	Insets Insets
}

// ContentWidth returns the width available to columns: the bounds width
// minus the horizontal insets, never negative.
func (b Bounds) ContentWidth() float64 {
	w := b.Width - b.Insets.Left - b.Insets.Right
	if w < 0 || math.IsNaN(w) {
		return 0
	}
	return w
}
