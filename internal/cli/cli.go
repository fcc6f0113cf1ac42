package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pinboard/internal/config"
	"github.com/matzehuels/pinboard/pkg/board"
	"github.com/matzehuels/pinboard/pkg/buildinfo"
	"github.com/matzehuels/pinboard/pkg/cache"
	"github.com/matzehuels/pinboard/pkg/httputil"
	"github.com/matzehuels/pinboard/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pinboard"

	// layoutSuffix is appended to a board's base name for saved layouts.
	layoutSuffix = ".layout.json"

	// probeTTL is how long probed remote image sizes are trusted.
	probeTTL = 7 * 24 * time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is read lazily by the first command that needs it.
	Config *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pinboard",
		Short: "Pinboard lays out photo boards as masonry grids",
		Long: `Pinboard arranges pins of varying height into equal-width columns,
stacking each pin under the previous one in its column. It writes layouts as
JSON, renders them to SVG, DOT or PNG, answers region queries and serves
layouts over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadConfig returns the config file contents, reading them on first use.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.Config != nil {
		return c.Config, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	c.Config = cfg
	return cfg, nil
}

// resolveOptions layers flags over the config file over pipeline defaults.
// padding is the bound --padding value, used only when the flag was set.
func (c *CLI) resolveOptions(cmd *cobra.Command, opts *pipeline.Options, padding float64) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts.Padding = nil
	if f := cmd.Flags().Lookup("padding"); f != nil && f.Changed {
		opts.Padding = pipeline.Float(padding)
	}
	cfg.Apply(opts)
	opts.Logger = c.Logger
	if probe, _ := cmd.Flags().GetBool("probe"); probe {
		opts.Prober = newProber(cfg.Cache.Disabled, cfg.Cache.Dir)
	}
	return nil
}

// newProber returns an image prober whose remote lookups are cached next
// to the layout cache for probeTTL.
func newProber(noCache bool, dir string) *board.Prober {
	if noCache {
		return board.NewProber(nil)
	}
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return board.NewProber(nil)
		}
		dir = d
	}
	hc, err := httputil.NewCache(filepath.Join(dir, "http"), probeTTL)
	if err != nil {
		printWarning("Image size cache disabled: %v", err)
		return board.NewProber(nil)
	}
	return board.NewProber(hc)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	cc, err := newCache(noCache || cfg.Cache.Disabled, cfg.Cache.Dir)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

func newCache(noCache bool, dir string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			printWarning("Cache disabled: %v", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pinboard/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// layoutPath derives the default layout file name for a board file.
func layoutPath(input string) string {
	return trimExt(input) + layoutSuffix
}

// trimExt strips the extension from path, treating ".layout.json" as one.
func trimExt(path string) string {
	if strings.HasSuffix(path, layoutSuffix) {
		return strings.TrimSuffix(path, layoutSuffix)
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// =============================================================================
// Options Helpers
// =============================================================================

// addLayoutFlags registers the engine flags shared by several commands.
// widthFlag names the host width flag, which the query command renames.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options, padding *float64, widthFlag string) {
	cmd.Flags().IntVarP(&opts.Columns, "columns", "c", 0, "number of columns (default 2)")
	cmd.Flags().Float64VarP(padding, "padding", "p", pipeline.DefaultPadding, "padding around every cell")
	cmd.Flags().StringVar(&opts.Placement, "placement", "", "column choice: round-robin (default), shortest")
	cmd.Flags().Float64Var(&opts.Width, widthFlag, 0, "host width (default 800)")
	cmd.Flags().Float64Var(&opts.FontSize, "font-size", 0, "caption font size")
	cmd.Flags().Float64Var(&opts.Insets.Top, "inset-top", 0, "top content inset")
	cmd.Flags().Float64Var(&opts.Insets.Left, "inset-left", 0, "left content inset")
	cmd.Flags().Float64Var(&opts.Insets.Bottom, "inset-bottom", 0, "bottom content inset")
	cmd.Flags().Float64Var(&opts.Insets.Right, "inset-right", 0, "right content inset")
	cmd.Flags().Bool("probe", false, "read missing image sizes from the image files or URLs")
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string leaves the choice to the config file and defaults.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
