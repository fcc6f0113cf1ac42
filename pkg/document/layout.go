// Package document defines the serialized form of a computed board layout.
//
// A [Layout] captures the engine configuration, the bounds it was computed
// for and every item frame. It is what the CLI writes to *.layout.json,
// what the cache stores and what the HTTP API returns.
package document

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/matzehuels/pinboard/pkg/board"
	"github.com/matzehuels/pinboard/pkg/masonry"
)

// Layout is the serialization format for a computed masonry layout.
type Layout struct {
	Title string `json:"title,omitempty" bson:"title,omitempty"`

	// Engine configuration
	Columns   int     `json:"columns" bson:"columns"`
	Padding   float64 `json:"padding" bson:"padding"`
	Placement string  `json:"placement" bson:"placement"`

	// Host bounds
	Width  float64        `json:"width" bson:"width"`
	Insets masonry.Insets `json:"insets" bson:"insets"`

	// Derived size
	ContentWidth  float64 `json:"content_width" bson:"content_width"`
	ContentHeight float64 `json:"content_height" bson:"content_height"`

	Items []Item `json:"items" bson:"items"`
}

// Item is one positioned pin.
type Item struct {
	Index int    `json:"index" bson:"index"`
	ID    string `json:"id" bson:"id"`

	X           float64 `json:"x" bson:"x"`
	Y           float64 `json:"y" bson:"y"`
	Width       float64 `json:"width" bson:"width"`
	Height      float64 `json:"height" bson:"height"`
	PhotoHeight float64 `json:"photo_height" bson:"photo_height"`

	// Metadata
	Title    string `json:"title,omitempty" bson:"title,omitempty"`
	Caption  string `json:"caption,omitempty" bson:"caption,omitempty"`
	ImageURL string `json:"image_url,omitempty" bson:"image_url,omitempty"`
}

// Frame returns the item's rectangle.
func (i Item) Frame() masonry.Rect {
	return masonry.NewRect(i.X, i.Y, i.Width, i.Height)
}

// Attributes converts the item back into engine attributes.
func (i Item) Attributes() masonry.Attributes {
	return masonry.Attributes{Index: i.Index, Frame: i.Frame(), PhotoHeight: i.PhotoHeight}
}

// FromEngine snapshots a computed layout. Pin metadata is copied from b;
// bounds must be the bounds the engine's provider reports.
func FromEngine(e *masonry.Layout, b *board.Board, bounds masonry.Bounds) Layout {
	all := e.All()
	size := e.ContentSize()

	out := Layout{
		Title:         b.Title,
		Columns:       e.Columns(),
		Padding:       e.Padding(),
		Placement:     e.Placement().String(),
		Width:         bounds.Width,
		Insets:        bounds.Insets,
		ContentWidth:  size.Width,
		ContentHeight: size.Height,
		Items:         make([]Item, len(all)),
	}

	for i, a := range all {
		var pin *board.Pin
		if a.Index < len(b.Pins) {
			pin = &b.Pins[a.Index]
		}
		out.Items[i] = NewItem(a, pin)
	}
	return out
}

// NewItem converts engine attributes to an item, copying metadata from
// pin when it is not nil.
func NewItem(a masonry.Attributes, pin *board.Pin) Item {
	item := Item{
		Index:       a.Index,
		X:           a.Frame.X,
		Y:           a.Frame.Y,
		Width:       a.Frame.Width,
		Height:      a.Frame.Height,
		PhotoHeight: a.PhotoHeight,
	}
	if pin != nil {
		item.ID = pin.ID
		item.Title = pin.Title
		item.Caption = pin.Caption
		item.ImageURL = pin.Image.URL
	}
	return item
}

// Validate checks the structural invariants of a layout: a positive column
// count, a known placement and items indexed 0..n-1 in order.
func (l *Layout) Validate() error {
	if l.Columns <= 0 {
		return fmt.Errorf("layout must have a positive column count, got %d", l.Columns)
	}
	if _, err := masonry.ParsePlacement(l.Placement); err != nil {
		return err
	}
	for i, item := range l.Items {
		if item.Index != i {
			return fmt.Errorf("item %d has index %d", i, item.Index)
		}
		if item.Width < 0 || item.Height < 0 {
			return fmt.Errorf("item %d has negative size", i)
		}
		for _, v := range []float64{item.X, item.Y, item.Width, item.Height} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("item %d has a non-finite frame", i)
			}
		}
	}
	return nil
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes and validates JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Placement == "" {
		l.Placement = masonry.PlacementRoundRobin.String()
	}
	if err := l.Validate(); err != nil {
		return Layout{}, fmt.Errorf("invalid layout: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
