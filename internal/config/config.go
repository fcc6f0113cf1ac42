// Package config reads the optional pinboard configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/pinboard/config.toml
// (falling back to ~/.config/pinboard/config.toml). PINBOARD_CONFIG
// overrides the location. A missing file is not an error: every value has
// a default in pkg/pipeline, and command-line flags override the file.
//
//	[layout]
//	columns = 3
//	padding = 8
//	placement = "shortest"
//	width = 1024
//
//	[render]
//	style = "outline"
//	formats = ["svg", "png"]
//
//	[cache]
//	disabled = false
//	dir = "/tmp/pinboard"
//
//	[server]
//	addr = ":8080"
//	redis_url = "redis://localhost:6379/0"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "pinboard"
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pinboard/pkg/masonry"
	"github.com/matzehuels/pinboard/pkg/pipeline"
)

const (
	appName  = "pinboard"
	fileName = "config.toml"

	// EnvPath overrides the config file location.
	EnvPath = "PINBOARD_CONFIG"
)

// Config mirrors the sections of the config file.
type Config struct {
	Layout Layout `toml:"layout"`
	Render Render `toml:"render"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`

	// Path is the file the config was read from, empty when none existed.
	Path string `toml:"-"`
}

// Layout holds engine defaults.
type Layout struct {
	Columns   int            `toml:"columns"`
	Padding   *float64       `toml:"padding"`
	Placement string         `toml:"placement"`
	Width     float64        `toml:"width"`
	FontSize  float64        `toml:"font_size"`
	Insets    masonry.Insets `toml:"insets"`
}

// Render holds output defaults.
type Render struct {
	Style   string   `toml:"style"`
	Formats []string `toml:"formats"`
}

// Cache configures the local layout cache.
type Cache struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
}

// Server configures the serve command.
type Server struct {
	Addr          string `toml:"addr"`
	RedisURL      string `toml:"redis_url"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// DefaultPath returns the config file location.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName, fileName), nil
}

// Load reads the config file at the default location.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config file at path. A missing file yields an empty
// Config.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes TOML data into cfg and rejects unknown keys.
func Parse(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg.Validate()
}

// Validate checks the values that can be checked without a board.
func (c *Config) Validate() error {
	if c.Layout.Columns < 0 || c.Layout.Columns > pipeline.MaxColumns {
		return fmt.Errorf("layout.columns must be between 1 and %d, got %d", pipeline.MaxColumns, c.Layout.Columns)
	}
	if c.Layout.Padding != nil && *c.Layout.Padding < 0 {
		return fmt.Errorf("layout.padding must not be negative, got %g", *c.Layout.Padding)
	}
	if c.Layout.Placement != "" {
		if err := pipeline.ValidatePlacement(c.Layout.Placement); err != nil {
			return err
		}
	}
	if c.Render.Style != "" {
		if err := pipeline.ValidateStyle(c.Render.Style); err != nil {
			return err
		}
	}
	return pipeline.ValidateFormats(c.Render.Formats)
}

// Apply fills every option the caller left unset from the config.
func (c *Config) Apply(opts *pipeline.Options) {
	if opts.Columns == 0 {
		opts.Columns = c.Layout.Columns
	}
	if opts.Padding == nil && c.Layout.Padding != nil {
		opts.Padding = pipeline.Float(*c.Layout.Padding)
	}
	if opts.Placement == "" {
		opts.Placement = c.Layout.Placement
	}
	if opts.Width == 0 {
		opts.Width = c.Layout.Width
	}
	if opts.FontSize == 0 {
		opts.FontSize = c.Layout.FontSize
	}
	if opts.Insets == (masonry.Insets{}) {
		opts.Insets = c.Layout.Insets
	}
	if opts.Style == "" {
		opts.Style = c.Render.Style
	}
	if len(opts.Formats) == 0 && len(c.Render.Formats) > 0 {
		opts.Formats = append([]string(nil), c.Render.Formats...)
	}
}
