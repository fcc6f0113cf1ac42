// Package pipeline provides the load → layout → render pipeline shared by
// the CLI and the HTTP server.
//
// By centralizing this logic, both entry points apply the same defaults,
// validation and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a board file (JSON, TOML or YAML) or take an inline board
//  2. Layout: Run the masonry engine and snapshot the result as a document
//  3. Render: Generate output in various formats (SVG, JSON, DOT, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    BoardPath: "travel.toml",
//	    Columns:   3,
//	    Formats:   []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	b, err := runner.LoadBoard(ctx, opts)
//	doc, err := runner.ComputeLayout(ctx, b, opts)
//	artifacts, err := runner.Render(ctx, doc, opts)
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pinboard/pkg/board"
	"github.com/matzehuels/pinboard/pkg/cache"
	"github.com/matzehuels/pinboard/pkg/document"
	"github.com/matzehuels/pinboard/pkg/errors"
	"github.com/matzehuels/pinboard/pkg/masonry"
	"github.com/matzehuels/pinboard/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default host width in layout units.
	DefaultWidth = 800.0

	// DefaultColumns is the default number of columns.
	DefaultColumns = masonry.DefaultColumns

	// DefaultPadding is the default padding around every cell.
	DefaultPadding = masonry.DefaultPadding

	// DefaultStyle is the default visual style.
	DefaultStyle = render.StyleSimple
)

// Upper bounds on layout options. The engine allocates per column, and
// widths or font sizes beyond these overflow item heights.
const (
	MaxColumns  = 1000
	MaxWidth    = 1e6
	MaxFontSize = 1000.0
)

// DefaultPlacement is the default column selection strategy.
var DefaultPlacement = masonry.PlacementRoundRobin.String()

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	BoardPath string       `json:"board_path,omitempty"`
	Board     *board.Board `json:"board,omitempty"`
	Refresh   bool         `json:"refresh,omitempty"`

	// Prober fills in missing image sizes after loading. Nil skips probing.
	Prober *board.Prober `json:"-"`

	// Layout options. Padding is a pointer because zero is a valid value.
	Columns   int            `json:"columns,omitempty"`
	Padding   *float64       `json:"padding,omitempty"`
	Placement string         `json:"placement,omitempty"`
	Width     float64        `json:"width,omitempty"`
	Insets    masonry.Insets `json:"insets"`
	FontSize  float64        `json:"font_size,omitempty"`

	// Render options
	Formats []string      `json:"formats,omitempty"`
	Style   string        `json:"style,omitempty"`
	Region  *masonry.Rect `json:"region,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Board is the loaded board.
	Board *board.Board

	// BoardHash is the content hash of the board.
	BoardHash string

	// Layout is the computed layout.
	Layout document.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PinCount      int
	ContentHeight float64
	LoadTime      time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// Float returns a pointer to f, for setting Options.Padding.
func Float(f float64) *float64 { return &f }

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, dot, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if style == "" {
		return errors.New(errors.ErrCodeInvalidStyle, "style is required")
	}
	_, err := render.ParseStyle(style)
	return err
}

// ValidatePlacement checks that a placement strategy is valid.
func ValidatePlacement(placement string) error {
	_, err := masonry.ParsePlacement(placement)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that a board source is set.
func (o *Options) ValidateForLoad() error {
	if o.Board == nil && o.BoardPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "board or board_path is required")
	}
	if o.Board == nil {
		if err := errors.ValidateBoardFilename(o.BoardPath); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Columns == 0 {
		o.Columns = DefaultColumns
	}
	if o.Padding == nil {
		o.Padding = Float(DefaultPadding)
	}
	if o.Placement == "" {
		o.Placement = DefaultPlacement
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.FontSize == 0 {
		o.FontSize = board.DefaultMetrics().FontSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Columns < 0 || o.Columns > MaxColumns {
		return errors.New(errors.ErrCodeInvalidConfig, "columns must be between 1 and %d, got %d", MaxColumns, o.Columns)
	}
	if p := *o.Padding; p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "padding must be a non-negative number, got %g", p)
	}
	if o.Width < 0 || o.Width > MaxWidth || math.IsNaN(o.Width) {
		return errors.New(errors.ErrCodeInvalidConfig, "width must be between 0 and %g, got %g", MaxWidth, o.Width)
	}
	if o.FontSize < 0 || o.FontSize > MaxFontSize || math.IsNaN(o.FontSize) {
		return errors.New(errors.ErrCodeInvalidConfig, "font size must be between 0 and %g, got %g", MaxFontSize, o.FontSize)
	}
	return ValidatePlacement(o.Placement)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if r := o.Region; r != nil {
		if err := errors.ValidateRegion(r.X, r.Y, r.Width, r.Height); err != nil {
			return err
		}
	}
	return ValidateStyle(o.Style)
}

// Bounds returns the host bounds the layout is computed for.
func (o *Options) Bounds() masonry.Bounds {
	return masonry.Bounds{Width: o.Width, Insets: o.Insets}
}

// Metrics returns the text metrics for annotation heights.
func (o *Options) Metrics() board.Metrics {
	m := board.DefaultMetrics()
	if o.FontSize > 0 {
		m.FontSize = o.FontSize
	}
	return m
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	var padding float64
	if o.Padding != nil {
		padding = *o.Padding
	}
	return cache.LayoutKeyOpts{
		Columns:   o.Columns,
		Padding:   padding,
		Placement: o.Placement,
		Width:     o.Width,
		Insets:    o.Insets,
		FontSize:  o.FontSize,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format: format,
		Style:  o.Style,
	}
	if o.Region != nil {
		opts.Region = []float64{o.Region.X, o.Region.Y, o.Region.Width, o.Region.Height}
	}
	return opts
}
