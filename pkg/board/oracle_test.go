package board

import (
	"testing"

	"github.com/matzehuels/pinboard/pkg/masonry"
)

// With the default 13-unit font every glyph, including space, is 7 units
// wide.

func TestOracleLines(t *testing.T) {
	o := NewOracle(&Board{}, DefaultMetrics())

	tests := map[string]struct {
		text  string
		width float64
		want  int
	}{
		"fits":             {"hello world", 100, 1},
		"exact fit":        {"hello world", 77, 1},
		"wraps":            {"hello world", 70, 2},
		"long word":        {"abcdefghijklmnopqrstu", 70, 3},
		"long word second": {"hi abcdefghijklmnopqrstu", 70, 4},
		"paragraphs":       {"a\n\nb", 100, 3},
		"zero width":       {"hello", 0, 0},
		"extra spaces":     {"  hello   world  ", 100, 1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := o.Lines(tt.text, tt.width); got != tt.want {
				t.Errorf("Lines(%q, %v) = %d, want %d", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestOracleWrap(t *testing.T) {
	o := NewOracle(&Board{}, DefaultMetrics())

	tests := map[string]struct {
		text  string
		width float64
		want  []string
	}{
		"fits":       {"hello world", 100, []string{"hello world"}},
		"wraps":      {"hello world", 70, []string{"hello", "world"}},
		"long word":  {"abcdefghijklmnopqrstu", 70, []string{"abcdefghij", "klmnopqrst", "u"}},
		"joins tail": {"abcdefghijklm no", 70, []string{"abcdefghij", "klm no"}},
		"paragraphs": {"a\n\nb", 100, []string{"a", "", "b"}},
		"too narrow": {"ab", 3, []string{"a", "b"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := o.Wrap(tt.text, tt.width)
			if len(got) != len(tt.want) {
				t.Fatalf("Wrap(%q, %v) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOraclePhotoHeight(t *testing.T) {
	b := &Board{Pins: []Pin{
		{Image: Image{Width: 800, Height: 1200}},
		{Image: Image{Width: 1200, Height: 800}},
		{},
	}}
	o := NewOracle(b, DefaultMetrics())

	tests := []struct {
		index int
		width float64
		want  float64
	}{
		{0, 100, 150},
		{1, 150, 100},
		{2, 100, 0},
		{3, 100, 0},
		{-1, 100, 0},
	}
	for _, tt := range tests {
		if got := o.PhotoHeight(tt.index, tt.width); got != tt.want {
			t.Errorf("PhotoHeight(%d, %v) = %v, want %v", tt.index, tt.width, got, tt.want)
		}
	}
}

func TestOracleAnnotationHeight(t *testing.T) {
	b := &Board{Pins: []Pin{
		{Title: "Lisbon", Caption: "hello world"},
		{Title: "Kyoto"},
		{Caption: "hello world"},
		{},
	}}
	o := NewOracle(b, DefaultMetrics())

	// padding 4 top and bottom, header 17, line height 13*1.25.
	tests := []struct {
		index int
		width float64
		want  float64
	}{
		{0, 100, 8 + 17 + 16.25},
		{0, 70, 8 + 17 + 2*16.25},
		{1, 100, 8 + 17},
		{2, 100, 8 + 16.25},
		{3, 100, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := o.AnnotationHeight(tt.index, tt.width); got != tt.want {
			t.Errorf("AnnotationHeight(%d, %v) = %v, want %v", tt.index, tt.width, got, tt.want)
		}
	}
}

func TestOracleFontScale(t *testing.T) {
	o := NewOracle(&Board{}, Metrics{FontSize: 26})
	// Glyphs are 14 units wide at twice the base size.
	if got := o.Lines("abcde", 70); got != 1 {
		t.Errorf("Lines() = %d, want 1", got)
	}
	if got := o.Lines("abcdef", 70); got != 2 {
		t.Errorf("Lines() = %d, want 2", got)
	}
}

func TestOracleDrivesEngine(t *testing.T) {
	b, err := ReadFile("testdata/travel.json")
	if err != nil {
		t.Fatal(err)
	}
	engine, err := masonry.New(
		masonry.WithPadding(0),
		masonry.WithOracle(NewOracle(b, DefaultMetrics())),
		masonry.WithProvider(b.Source(masonry.Bounds{Width: 400})),
	)
	if err != nil {
		t.Fatal(err)
	}

	all := engine.All()
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	// Column width 200: portrait photo 300 tall, landscape 133.33, square 200.
	if all[0].PhotoHeight != 300 {
		t.Errorf("photo 0 height = %v, want 300", all[0].PhotoHeight)
	}
	if all[2].PhotoHeight != 200 {
		t.Errorf("photo 2 height = %v, want 200", all[2].PhotoHeight)
	}
	if all[2].Frame.Y != all[0].Frame.MaxY() {
		t.Errorf("pin 2 should stack under pin 0: y = %v, want %v", all[2].Frame.Y, all[0].Frame.MaxY())
	}
}
