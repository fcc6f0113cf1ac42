// Package server exposes board layouts over HTTP.
//
// Routes:
//
//	GET    /healthz
//	POST   /v1/layouts                 compute and store a layout
//	GET    /v1/layouts                 list stored layouts
//	GET    /v1/layouts/{id}            fetch a stored layout
//	PATCH  /v1/layouts/{id}            reconfigure and recompute
//	DELETE /v1/layouts/{id}            delete a layout
//	GET    /v1/layouts/{id}/items      items intersecting ?x=&y=&width=&height=
//	GET    /v1/layouts/{id}/svg        rendered SVG, optionally cropped to a region
//
// Every stored layout is backed by a live masonry engine, kept behind a
// masonry.Guarded so concurrent requests share it safely. Engines are
// rebuilt from the stored board on first use after a restart.
package server

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pinboard/pkg/board"
	"github.com/matzehuels/pinboard/pkg/masonry"
	"github.com/matzehuels/pinboard/pkg/observability"
	"github.com/matzehuels/pinboard/pkg/pipeline"
	"github.com/matzehuels/pinboard/pkg/storage"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

// Server is the HTTP API.
type Server struct {
	router chi.Router
	store  storage.Store
	runner *pipeline.Runner
	log    *log.Logger

	mu   sync.Mutex
	live map[string]*liveLayout
}

// liveLayout is the engine behind one stored layout.
type liveLayout struct {
	engine *masonry.Guarded
	source *board.Source
	board  *board.Board
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithStore sets the record store. The default is an in-memory store.
func WithStore(store storage.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRunner sets the pipeline runner used for rendering. Its cache holds
// rendered artifacts.
func WithRunner(r *pipeline.Runner) Option {
	return func(s *Server) {
		if r != nil {
			s.runner = r
		}
	}
}

// New creates a server.
func New(opts ...Option) *Server {
	s := &Server{
		store: storage.NewMemoryStore(),
		log:   log.NewWithOptions(io.Discard, log.Options{}),
		live:  make(map[string]*liveLayout),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.log)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Patch("/", s.handlePatch)
			r.Delete("/", s.handleDelete)
			r.Get("/items", s.handleItems)
			r.Get("/svg", s.handleSVG)
		})
	})
	s.router = r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// instrument logs every request and reports it to the HTTP hooks.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnRequest(r.Context(), r.Method, route)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.log.Debug("request", "method", r.Method, "route", route, "status", status, "duration", time.Since(start))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Close releases the store and the runner's cache.
func (s *Server) Close() error {
	err := s.store.Close()
	if cerr := s.runner.Close(); err == nil {
		err = cerr
	}
	return err
}
