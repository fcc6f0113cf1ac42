package board

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/pinboard/pkg/errors"
	"github.com/matzehuels/pinboard/pkg/masonry"
)

func TestReadFileFormats(t *testing.T) {
	for _, name := range []string{"travel.toml", "travel.yaml", "travel.json"} {
		t.Run(name, func(t *testing.T) {
			b, err := ReadFile(filepath.Join("testdata", name))
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if b.Title != "Travel" {
				t.Errorf("Title = %q", b.Title)
			}
			if b.Len() != 3 {
				t.Fatalf("Len() = %d, want 3", b.Len())
			}
			if b.Pins[0].Image.Width != 800 || b.Pins[0].Image.Height != 1200 {
				t.Errorf("pin 0 image = %+v", b.Pins[0].Image)
			}
			if b.Pins[2].ID != "pin-2" {
				t.Errorf("missing id should be normalized, got %q", b.Pins[2].ID)
			}
		})
	}
}

func TestReadFileErrors(t *testing.T) {
	if _, err := ReadFile("testdata/missing.json"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v", err)
	}
	if _, err := ReadFile("testdata/travel.csv"); !errors.Is(err, errors.ErrCodeInvalidBoard) {
		t.Errorf("bad extension: err = %v", err)
	}
}

func TestParseRejectsInvalidBoards(t *testing.T) {
	tests := map[string]struct {
		data   string
		format string
		code   errors.Code
	}{
		"malformed json":   {`{"pins": [`, FormatJSON, errors.ErrCodeInvalidBoard},
		"unknown field":    {`{"pins": [], "colour": "red"}`, FormatJSON, errors.ErrCodeInvalidBoard},
		"duplicate ids":    {`{"pins": [{"id": "a"}, {"id": "a"}]}`, FormatJSON, errors.ErrCodeInvalidBoard},
		"negative size":    {`{"pins": [{"image": {"width": -1, "height": 10}}]}`, FormatJSON, errors.ErrCodeInvalidBoard},
		"sub-pixel size":   {`{"pins": [{"image": {"width": 1e-300, "height": 10}}]}`, FormatJSON, errors.ErrCodeInvalidBoard},
		"oversized image":  {`{"pins": [{"image": {"width": 1, "height": 1e300}}]}`, FormatJSON, errors.ErrCodeInvalidBoard},
		"unknown format":   {`{}`, "xml", errors.ErrCodeInvalidFormat},
		"malformed toml":   {`pins = [`, FormatTOML, errors.ErrCodeInvalidBoard},
		"malformed yaml":   {"pins: [\n  - {", FormatYAML, errors.ErrCodeInvalidBoard},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestImageAspectRatio(t *testing.T) {
	tests := map[string]struct {
		img  Image
		want float64
	}{
		"portrait":  {Image{Width: 800, Height: 1200}, 1.5},
		"landscape": {Image{Width: 1200, Height: 600}, 0.5},
		"unknown":   {Image{}, 0},
		"no height": {Image{Width: 100}, 0},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.img.AspectRatio(); got != tt.want {
				t.Errorf("AspectRatio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSourceTracksPins(t *testing.T) {
	b := &Board{Pins: []Pin{{ID: "a"}}}
	src := b.Source(masonry.Bounds{Width: 300})
	if src.ItemCount() != 1 {
		t.Fatalf("ItemCount() = %d", src.ItemCount())
	}
	b.Pins = append(b.Pins, Pin{ID: "b"})
	if src.ItemCount() != 2 {
		t.Errorf("ItemCount() = %d, want 2", src.ItemCount())
	}
	src.SetBounds(masonry.Bounds{Width: 500})
	if src.Bounds().Width != 500 {
		t.Errorf("Bounds().Width = %v", src.Bounds().Width)
	}
}
