package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pinboard/pkg/board"
	"github.com/matzehuels/pinboard/pkg/document"
	"github.com/matzehuels/pinboard/pkg/errors"
	"github.com/matzehuels/pinboard/pkg/masonry"
	"github.com/matzehuels/pinboard/pkg/pipeline"
	"github.com/matzehuels/pinboard/pkg/storage"
)

type listResponse struct {
	Layouts []layoutSummary `json:"layouts"`
}

type layoutSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title,omitempty"`
	Items         int       `json:"items"`
	ContentHeight float64   `json:"content_height"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type itemsResponse struct {
	Region masonry.Rect    `json:"region"`
	Items  []document.Item `json:"items"`
}

// patchRequest lists the reconfigurable engine settings. Nil fields are
// left unchanged.
type patchRequest struct {
	Columns   *int            `json:"columns"`
	Padding   *float64        `json:"padding"`
	Placement *string         `json:"placement"`
	Width     *float64        `json:"width"`
	Insets    *masonry.Insets `json:"insets"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeJSON(r, &opts); err != nil {
		s.writeError(w, err)
		return
	}
	if opts.Board == nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "board is required"))
		return
	}
	if err := opts.ValidateForLayout(); err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	b, err := s.runner.LoadBoard(ctx, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	engine, source, err := pipeline.NewEngine(b, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	live := &liveLayout{engine: masonry.NewGuarded(engine), source: source, board: b}
	doc := s.snapshot(ctx, live)

	rec := storage.NewRecord(b, doc)
	rec.FontSize = opts.FontSize
	if err := s.store.Put(ctx, rec); err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	s.live[rec.ID] = live
	s.mu.Unlock()

	s.log.Info("created layout", "id", rec.ID, "items", len(doc.Items), "height", doc.ContentHeight)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := listResponse{Layouts: make([]layoutSummary, 0, len(recs))}
	for _, rec := range recs {
		resp.Layouts = append(resp.Layouts, layoutSummary{
			ID:            rec.ID,
			Title:         rec.Layout.Title,
			Items:         len(rec.Layout.Items),
			ContentHeight: rec.Layout.ContentHeight,
			UpdatedAt:     rec.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	rec, err := s.record(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// Validate the merged settings before touching the live engine.
	opts := optionsFromRecord(rec)
	if req.Columns != nil {
		opts.Columns = *req.Columns
	}
	if req.Padding != nil {
		opts.Padding = req.Padding
	}
	if req.Placement != nil {
		opts.Placement = *req.Placement
	}
	if req.Width != nil {
		opts.Width = *req.Width
	}
	if req.Insets != nil {
		opts.Insets = *req.Insets
	}
	if req.Columns != nil && *req.Columns <= 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidConfig, "columns must be positive, got %d", *req.Columns))
		return
	}
	if err := opts.ValidateForLayout(); err != nil {
		s.writeError(w, err)
		return
	}
	placement, _ := masonry.ParsePlacement(opts.Placement)

	live, err := s.liveLayout(ctx, rec)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var doc document.Layout
	err = live.engine.Do(func(l *masonry.Layout) error {
		if err := l.SetColumns(opts.Columns); err != nil {
			return err
		}
		if err := l.SetPadding(*opts.Padding); err != nil {
			return err
		}
		if err := l.SetPlacement(placement); err != nil {
			return err
		}
		live.source.SetBounds(opts.Bounds())
		l.Refresh()
		doc = pipeline.Snapshot(ctx, l, live.board, live.source.Bounds())
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec.Layout = doc
	rec.UpdatedAt = time.Now().UTC()
	if err := s.store.Put(ctx, rec); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("updated layout", "id", rec.ID, "columns", doc.Columns, "width", doc.Width)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateLayoutID(id); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	region, err := parseRegion(r, true)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ctx := r.Context()
	rec, err := s.record(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	live, err := s.liveLayout(ctx, rec)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := itemsResponse{Region: *region, Items: []document.Item{}}
	_ = live.engine.Do(func(l *masonry.Layout) error {
		for _, a := range pipeline.Query(ctx, l, *region) {
			var pin *board.Pin
			if a.Index < len(live.board.Pins) {
				pin = &live.board.Pins[a.Index]
			}
			resp.Items = append(resp.Items, document.NewItem(a, pin))
		}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	region, err := parseRegion(r, false)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.record(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := optionsFromRecord(rec)
	opts.Formats = []string{pipeline.FormatSVG}
	opts.Style = r.URL.Query().Get("style")
	opts.Region = region
	artifacts, err := s.runner.Render(r.Context(), rec.Layout, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(artifacts[pipeline.FormatSVG])
}

// record loads the record named by the {id} URL parameter.
func (s *Server) record(r *http.Request) (*storage.Record, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

// liveLayout returns the engine for rec, rebuilding it from the stored
// board when this process has not seen the record yet.
func (s *Server) liveLayout(ctx context.Context, rec *storage.Record) (*liveLayout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if live, ok := s.live[rec.ID]; ok {
		return live, nil
	}

	b := rec.Board
	if b == nil {
		return nil, errors.New(errors.ErrCodeInternal, "layout %s has no board", rec.ID)
	}
	engine, source, err := pipeline.NewEngine(b, optionsFromRecord(rec))
	if err != nil {
		return nil, err
	}
	live := &liveLayout{engine: masonry.NewGuarded(engine), source: source, board: b}
	s.live[rec.ID] = live
	s.log.Debug("rebuilt engine", "id", rec.ID)
	return live, nil
}

// snapshot prepares the live engine and returns its document.
func (s *Server) snapshot(ctx context.Context, live *liveLayout) document.Layout {
	var doc document.Layout
	_ = live.engine.Do(func(l *masonry.Layout) error {
		doc = pipeline.Snapshot(ctx, l, live.board, live.source.Bounds())
		return nil
	})
	return doc
}

// optionsFromRecord recovers the pipeline options a record was computed with.
func optionsFromRecord(rec *storage.Record) pipeline.Options {
	return pipeline.Options{
		Columns:   rec.Layout.Columns,
		Padding:   pipeline.Float(rec.Layout.Padding),
		Placement: rec.Layout.Placement,
		Width:     rec.Layout.Width,
		Insets:    rec.Layout.Insets,
		FontSize:  rec.FontSize,
	}
}
