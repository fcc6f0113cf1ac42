package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pinboard/internal/config"
	"github.com/matzehuels/pinboard/pkg/cache"
	"github.com/matzehuels/pinboard/pkg/pipeline"
	"github.com/matzehuels/pinboard/pkg/server"
	"github.com/matzehuels/pinboard/pkg/storage"
)

const (
	defaultAddr          = ":8080"
	defaultMongoDatabase = "pinboard"

	// apiKeyPrefix scopes server cache keys away from CLI runs that share a
	// cache.
	apiKeyPrefix = "api:"
)

// serveOpts holds the backends chosen for the serve command.
type serveOpts struct {
	addr          string
	redisURL      string
	mongoURI      string
	mongoDatabase string
	noCache       bool
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve layouts over HTTP.

Layouts are stored in memory unless --mongo is given, and rendered artifacts
are cached on disk unless --redis is given. Settings from the [server]
section of the config file apply when the matching flag is not set.

Routes:
  POST   /v1/layouts             compute and store a layout
  GET    /v1/layouts             list stored layouts
  GET    /v1/layouts/{id}        fetch a stored layout
  PATCH  /v1/layouts/{id}        reconfigure and recompute
  DELETE /v1/layouts/{id}        delete a layout
  GET    /v1/layouts/{id}/items  pins in ?x=&y=&width=&height=
  GET    /v1/layouts/{id}/svg    rendered SVG`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.merge(cfg.Server)
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default "+defaultAddr+")")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "redis URL for the artifact cache")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "mongodb URI for layout storage")
	cmd.Flags().StringVar(&opts.mongoDatabase, "mongo-db", "", "mongodb database (default "+defaultMongoDatabase+")")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// merge fills unset options from the config file, then applies defaults.
func (o *serveOpts) merge(cfg config.Server) {
	if o.addr == "" {
		o.addr = cfg.Addr
	}
	if o.redisURL == "" {
		o.redisURL = cfg.RedisURL
	}
	if o.mongoURI == "" {
		o.mongoURI = cfg.MongoURI
	}
	if o.mongoDatabase == "" {
		o.mongoDatabase = cfg.MongoDatabase
	}
	if o.addr == "" {
		o.addr = defaultAddr
	}
	if o.mongoDatabase == "" {
		o.mongoDatabase = defaultMongoDatabase
	}
}

// runServe connects the backends and serves until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cc, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), apiKeyPrefix), logger)

	store, err := serveStore(ctx, opts)
	if err != nil {
		runner.Close()
		return err
	}

	srv := server.New(
		server.WithLogger(logger),
		server.WithStore(store),
		server.WithRunner(runner),
	)
	defer srv.Close()

	printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(opts.addr)))
	err = srv.ListenAndServe(ctx, opts.addr)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	prog.done("Server stopped")
	return err
}

// serveCache picks the artifact cache: redis when configured, otherwise
// the local file cache.
func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, opts.redisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		printKeyValue("Cache", "redis")
		return rc, nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	fc, err := newCache(cfg.Cache.Disabled, cfg.Cache.Dir)
	if err != nil {
		return nil, err
	}
	if f, ok := fc.(*cache.FileCache); ok {
		printKeyValue("Cache", f.Dir())
	}
	return fc, nil
}

// serveStore picks the layout store: mongodb when configured, otherwise
// memory.
func serveStore(ctx context.Context, opts serveOpts) (storage.Store, error) {
	if opts.mongoURI == "" {
		printKeyValue("Storage", "memory")
		return storage.NewMemoryStore(), nil
	}
	ms, err := storage.NewMongoStore(ctx, opts.mongoURI, opts.mongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	printKeyValue("Storage", "mongodb/"+opts.mongoDatabase)
	return ms, nil
}

// displayAddr turns a listen address into something clickable.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
