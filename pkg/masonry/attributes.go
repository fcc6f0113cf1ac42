package masonry

// Attributes is the computed placement of one item.
//
// Attributes is a plain value: copies never share state, so the engine can
// hand them out freely without exposing its cache.
type Attributes struct {
	// Index is the item's 0-based position in the sequence.
	Index int `json:"index"`

	// Frame is the item's rectangle after the cell padding has been applied.
	Frame Rect `json:"frame"`

	// PhotoHeight is the height the oracle reported for the photo area,
	// excluding the annotation and padding.
	PhotoHeight float64 `json:"photo_height"`
}

// Equal reports whether a and other describe the same placement.
func (a Attributes) Equal(other Attributes) bool {
	return a.Index == other.Index &&
		a.Frame == other.Frame &&
		a.PhotoHeight == other.PhotoHeight
}

// AnnotationFrame returns the part of the frame below the photo.
func (a Attributes) AnnotationFrame() Rect {
	h := a.Frame.Height - a.PhotoHeight
	if h < 0 {
		h = 0
	}
	return Rect{X: a.Frame.X, Y: a.Frame.Y + a.PhotoHeight, Width: a.Frame.Width, Height: h}
}

// PhotoFrame returns the photo area at the top of the frame.
func (a Attributes) PhotoFrame() Rect {
	h := a.PhotoHeight
	if h > a.Frame.Height {
		h = a.Frame.Height
	}
	return Rect{X: a.Frame.X, Y: a.Frame.Y, Width: a.Frame.Width, Height: h}
}
