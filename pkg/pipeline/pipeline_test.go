package pipeline

import (
	"context"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/pinboard/pkg/board"
	"github.com/matzehuels/pinboard/pkg/errors"
	"github.com/matzehuels/pinboard/pkg/masonry"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"dot", false},
		{"png", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"outline", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestValidatePlacement(t *testing.T) {
	for _, p := range []string{"round-robin", "shortest"} {
		if err := ValidatePlacement(p); err != nil {
			t.Errorf("ValidatePlacement(%q): %v", p, err)
		}
	}
	if err := ValidatePlacement("zigzag"); !errors.Is(err, errors.ErrCodeInvalidPlacement) {
		t.Errorf("ValidatePlacement(zigzag) = %v", err)
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	var opts Options
	opts.SetLayoutDefaults()

	if opts.Columns != DefaultColumns {
		t.Errorf("Columns = %d, want %d", opts.Columns, DefaultColumns)
	}
	if opts.Padding == nil || *opts.Padding != DefaultPadding {
		t.Errorf("Padding = %v, want %v", opts.Padding, DefaultPadding)
	}
	if opts.Placement != "round-robin" {
		t.Errorf("Placement = %q", opts.Placement)
	}
	if opts.Width != DefaultWidth {
		t.Errorf("Width = %v, want %v", opts.Width, DefaultWidth)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Explicit zero padding survives defaults
	opts = Options{Padding: Float(0)}
	opts.SetLayoutDefaults()
	if *opts.Padding != 0 {
		t.Errorf("Padding = %v, want 0", *opts.Padding)
	}
}

func TestValidateForLayout(t *testing.T) {
	tests := map[string]struct {
		opts Options
		code errors.Code
	}{
		"negative columns": {Options{Columns: -1}, errors.ErrCodeInvalidConfig},
		"negative padding": {Options{Padding: Float(-1)}, errors.ErrCodeInvalidConfig},
		"negative width":   {Options{Width: -5}, errors.ErrCodeInvalidConfig},
		"too many columns": {Options{Columns: MaxColumns + 1}, errors.ErrCodeInvalidConfig},
		"huge width":       {Options{Width: 1e308}, errors.ErrCodeInvalidConfig},
		"infinite width":   {Options{Width: math.Inf(1)}, errors.ErrCodeInvalidConfig},
		"huge font size":   {Options{FontSize: 1e300}, errors.ErrCodeInvalidConfig},
		"bad placement":    {Options{Placement: "random"}, errors.ErrCodeInvalidPlacement},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestValidateForLoad(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("missing board should fail")
	}
	opts = Options{BoardPath: "board.csv"}
	if err := opts.ValidateForLoad(); !errors.Is(err, errors.ErrCodeInvalidBoard) {
		t.Errorf("bad extension: %v", err)
	}
	opts = Options{Board: &board.Board{}}
	if err := opts.ValidateForLoad(); err != nil {
		t.Errorf("inline board: %v", err)
	}
}

func TestValidateForRender(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG || opts.Style != DefaultStyle {
		t.Errorf("render defaults = %v %q", opts.Formats, opts.Style)
	}

	opts = Options{Region: &masonry.Rect{Width: -1}}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("negative region should fail")
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{BoardPath: "testdata/travel.toml"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	opts.Formats = []string{"bogus"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Error("second call should be a no-op")
	}
}

func TestKeyOpts(t *testing.T) {
	a := Options{Columns: 2, Padding: Float(6), Placement: "round-robin", Width: 800}
	b := a
	b.Placement = "shortest"
	if a.LayoutKeyOpts() == b.LayoutKeyOpts() {
		t.Error("placement should be part of the layout key")
	}

	a.Style = "simple"
	k := a.ArtifactKeyOpts("svg")
	if k.Format != "svg" || k.Style != "simple" || k.Region != nil {
		t.Errorf("ArtifactKeyOpts = %+v", k)
	}
	a.Region = &masonry.Rect{X: 1, Y: 2, Width: 3, Height: 4}
	if k := a.ArtifactKeyOpts("svg"); len(k.Region) != 4 {
		t.Errorf("region not in artifact key: %+v", k)
	}
}

func TestNewEngine(t *testing.T) {
	b, err := board.ReadFile("testdata/travel.toml")
	if err != nil {
		t.Fatal(err)
	}
	engine, source, err := NewEngine(b, Options{Columns: 3, Placement: "shortest", Width: 630})
	if err != nil {
		t.Fatal(err)
	}
	if engine.Columns() != 3 || engine.Placement() != masonry.PlacementShortest {
		t.Errorf("engine config = %d %v", engine.Columns(), engine.Placement())
	}
	if engine.Len() != 3 {
		t.Errorf("Len = %d, want 3", engine.Len())
	}

	// Column width 210, cell width 198 with default padding.
	a, _ := engine.AttributesAt(0)
	if a.Frame.Width != 198 {
		t.Errorf("frame width = %v, want 198", a.Frame.Width)
	}

	source.SetBounds(masonry.Bounds{Width: 330})
	if !engine.Refresh() {
		t.Error("Refresh should recompute after a width change")
	}
	a, _ = engine.AttributesAt(0)
	if a.Frame.Width != 98 {
		t.Errorf("frame width after resize = %v, want 98", a.Frame.Width)
	}
}

func TestQuery(t *testing.T) {
	b, err := board.ReadFile("testdata/travel.toml")
	if err != nil {
		t.Fatal(err)
	}
	engine, _, err := NewEngine(b, Options{Width: 400, Padding: Float(0)})
	if err != nil {
		t.Fatal(err)
	}
	// Only the right column.
	got := Query(context.Background(), engine, masonry.NewRect(250, 0, 10, 10))
	if len(got) != 1 || got[0].Index != 1 {
		t.Errorf("Query = %+v, want item 1", got)
	}
}

// memCache is an in-memory cache.Cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	opts := Options{
		BoardPath: "testdata/travel.toml",
		Width:     412,
		Insets:    masonry.Insets{Left: 6, Right: 6},
		Formats:   []string{FormatSVG, FormatJSON, FormatDOT},
	}
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}

	if res.Stats.PinCount != 3 || len(res.Layout.Items) != 3 {
		t.Fatalf("pins = %d, items = %d", res.Stats.PinCount, len(res.Layout.Items))
	}
	if res.Layout.ContentWidth != 400 {
		t.Errorf("ContentWidth = %v, want 400", res.Layout.ContentWidth)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	for _, f := range opts.Formats {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), `id="pin-2"`) {
		t.Error("SVG should contain every pin")
	}
	if res.BoardHash == "" {
		t.Error("BoardHash should be set")
	}

	again, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit the cache: %+v", again.CacheInfo)
	}

	// Refresh bypasses the layout cache
	opts.Refresh = true
	fresh, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheInfo.LayoutHit {
		t.Error("refresh should recompute the layout")
	}
}

func TestRunnerExecuteInlineBoard(t *testing.T) {
	b := &board.Board{Pins: []board.Pin{
		{Image: board.Image{Width: 1, Height: 1}},
		{Image: board.Image{Width: 1, Height: 2}},
	}}
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Board: b, Width: 200, Padding: Float(0), Formats: []string{"json"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Layout.Items[0].ID != "pin-0" {
		t.Errorf("inline board should be normalized, got id %q", res.Layout.Items[0].ID)
	}
	if res.Layout.ContentHeight != 200 {
		t.Errorf("ContentHeight = %v, want 200", res.Layout.ContentHeight)
	}
}

func TestRunnerExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{BoardPath: "testdata/missing.toml"}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}
	if _, err := r.Execute(ctx, Options{BoardPath: "testdata/travel.toml", Columns: -2}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad columns: %v", err)
	}
}

func TestRenderFromLayoutData(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	res, err := r.Execute(ctx, Options{BoardPath: "testdata/travel.toml", Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}

	out, err := RenderFromLayoutData(ctx, res.Artifacts[FormatJSON], Options{Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out[FormatDOT]), `"lisbon"`) {
		t.Error("DOT should name the pins")
	}

	if _, err := RenderFromLayoutData(ctx, []byte("{"), Options{}); err == nil {
		t.Error("invalid layout data should fail")
	}
}
