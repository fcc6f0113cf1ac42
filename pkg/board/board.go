// Package board models a photo board and supplies item heights for the
// masonry engine.
//
// A board is an ordered list of pins. Each pin has a photo with an
// intrinsic size and an optional title and caption shown underneath it.
// [Oracle] turns a board into a [masonry.HeightOracle]: photos are scaled
// to the cell width keeping their aspect ratio, and annotations are as
// tall as their wrapped text.
//
// Boards can be read from JSON, TOML or YAML files:
//
//	b, err := board.ReadFile("travel.toml")
//	oracle := board.NewOracle(b, board.DefaultMetrics())
//	engine, err := masonry.New(
//	    masonry.WithOracle(oracle),
//	    masonry.WithProvider(b.Source(masonry.Bounds{Width: 1200})),
//	)
package board

import (
	"fmt"
	"math"

	"github.com/matzehuels/pinboard/pkg/errors"
	"github.com/matzehuels/pinboard/pkg/masonry"
)

// MaxImageSide bounds each image dimension. Non-zero sizes must lie in
// [1, MaxImageSide] so aspect ratios stay within a factor of MaxImageSide.
const MaxImageSide = 1e6

// Board is an ordered collection of pins.
type Board struct {
	Title string `json:"title,omitempty" toml:"title" yaml:"title,omitempty" bson:"title,omitempty"`
	Pins  []Pin  `json:"pins" toml:"pins" yaml:"pins" bson:"pins"`
}

// Pin is one item on a board.
type Pin struct {
	ID      string `json:"id,omitempty" toml:"id" yaml:"id,omitempty" bson:"id,omitempty"`
	Title   string `json:"title,omitempty" toml:"title" yaml:"title,omitempty" bson:"title,omitempty"`
	Caption string `json:"caption,omitempty" toml:"caption" yaml:"caption,omitempty" bson:"caption,omitempty"`
	Image   Image  `json:"image" toml:"image" yaml:"image" bson:"image"`
}

// Image describes a pin's photo by its intrinsic pixel size.
type Image struct {
	URL    string  `json:"url,omitempty" toml:"url" yaml:"url,omitempty" bson:"url,omitempty"`
	Width  float64 `json:"width" toml:"width" yaml:"width" bson:"width"`
	Height float64 `json:"height" toml:"height" yaml:"height" bson:"height"`
}

// AspectRatio returns height divided by width, or 0 when the size is
// unknown.
func (i Image) AspectRatio() float64 {
	if i.Width <= 0 || i.Height <= 0 {
		return 0
	}
	return i.Height / i.Width
}

// Len returns the number of pins.
func (b *Board) Len() int { return len(b.Pins) }

// Normalize fills in missing pin IDs with "pin-<index>".
func (b *Board) Normalize() {
	for i := range b.Pins {
		if b.Pins[i].ID == "" {
			b.Pins[i].ID = fmt.Sprintf("pin-%d", i)
		}
	}
}

// Validate checks that pin IDs are unique and image sizes are either zero
// (unknown) or between 1 and MaxImageSide.
func (b *Board) Validate() error {
	seen := make(map[string]int, len(b.Pins))
	for i, p := range b.Pins {
		if p.ID != "" {
			if prev, dup := seen[p.ID]; dup {
				return errors.New(errors.ErrCodeInvalidBoard, "pin %d reuses id %q of pin %d", i, p.ID, prev)
			}
			seen[p.ID] = i
		}
		for _, v := range []float64{p.Image.Width, p.Image.Height} {
			if v != 0 && (v < 1 || v > MaxImageSide || math.IsNaN(v)) {
				return errors.New(errors.ErrCodeInvalidBoard, "pin %d has an invalid image size %gx%g", i, p.Image.Width, p.Image.Height)
			}
		}
	}
	return nil
}

// Source returns a masonry.Provider reporting this board's pin count and
// the given bounds. The pin count is read on every call, so pins appended
// later are seen after the layout is refreshed.
func (b *Board) Source(bounds masonry.Bounds) *Source {
	return &Source{board: b, bounds: bounds}
}

// Source adapts a Board to masonry.Provider.
type Source struct {
	board  *Board
	bounds masonry.Bounds
}

// ItemCount implements masonry.Provider.
func (s *Source) ItemCount() int { return s.board.Len() }

// Bounds implements masonry.Provider.
func (s *Source) Bounds() masonry.Bounds { return s.bounds }

// SetBounds changes the reported bounds. Callers refresh the layout
// afterwards.
func (s *Source) SetBounds(b masonry.Bounds) { s.bounds = b }

var _ masonry.Provider = (*Source)(nil)
