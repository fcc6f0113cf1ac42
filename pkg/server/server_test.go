package server

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/pinboard/pkg/errors"
	"github.com/matzehuels/pinboard/pkg/observability"
	"github.com/matzehuels/pinboard/pkg/storage"
)

// createBody is a four-pin board of unit-aspect photos without text, laid
// out in two 100-unit columns without padding: pins 0 and 2 on the left,
// 1 and 3 on the right, each 100 tall.
const createBody = `{
	"board": {"title": "grid", "pins": [
		{"id": "a", "image": {"width": 1, "height": 1}},
		{"id": "b", "image": {"width": 1, "height": 1}},
		{"id": "c", "image": {"width": 1, "height": 1}},
		{"id": "d", "image": {"width": 1, "height": 1}}
	]},
	"width": 200,
	"padding": 0
}`

func do(t *testing.T, s http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
}

func create(t *testing.T, s http.Handler) storage.Record {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/v1/layouts", createBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d: %s", rec.Code, rec.Body.String())
	}
	var out storage.Record
	decode(t, rec, &out)
	return out
}

func TestHealth(t *testing.T) {
	rec := do(t, New(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body.String())
	}
}

func TestCreateAndGet(t *testing.T) {
	s := New()
	created := create(t, s)

	if created.ID == "" {
		t.Fatal("expected an id")
	}
	if got := len(created.Layout.Items); got != 4 {
		t.Fatalf("items = %d, want 4", got)
	}
	if created.Layout.ContentHeight != 200 {
		t.Errorf("content height = %v, want 200", created.Layout.ContentHeight)
	}
	if created.Layout.Items[1].X != 100 || created.Layout.Items[1].ID != "b" {
		t.Errorf("item 1 = %+v", created.Layout.Items[1])
	}

	rec := do(t, s, http.MethodGet, "/v1/layouts/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}
	var got storage.Record
	decode(t, rec, &got)
	if got.ID != created.ID || got.Layout.ContentHeight != 200 {
		t.Errorf("get = %+v", got)
	}

	rec = do(t, s, http.MethodGet, "/v1/layouts", "")
	var list listResponse
	decode(t, rec, &list)
	if len(list.Layouts) != 1 || list.Layouts[0].ID != created.ID || list.Layouts[0].Items != 4 {
		t.Errorf("list = %+v", list)
	}
}

func TestCreateErrors(t *testing.T) {
	s := New()
	tests := map[string]struct {
		body string
		code errors.Code
	}{
		"not json":      {`{`, errors.ErrCodeInvalidInput},
		"unknown field": {`{"bogus": 1}`, errors.ErrCodeInvalidInput},
		"no board":      {`{"width": 100}`, errors.ErrCodeInvalidInput},
		"bad columns":   {`{"board": {"pins": []}, "columns": -1}`, errors.ErrCodeInvalidConfig},
		"bad placement": {`{"board": {"pins": []}, "placement": "zigzag"}`, errors.ErrCodeInvalidPlacement},
		"duplicate ids": {`{"board": {"pins": [{"id": "x"}, {"id": "x"}]}}`, errors.ErrCodeInvalidBoard},
		"huge columns":  {`{"board": {"pins": [{"image": {"width": 1, "height": 1}}]}, "columns": 20000000}`, errors.ErrCodeInvalidConfig},
		"huge width":    {`{"board": {"pins": [{"image": {"width": 1, "height": 10}}]}, "columns": 1, "width": 1e308}`, errors.ErrCodeInvalidConfig},
		"huge font":     {`{"board": {"pins": [{"caption": "hi"}]}, "font_size": 1e300}`, errors.ErrCodeInvalidConfig},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/layouts", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			var e errorResponse
			decode(t, rec, &e)
			if e.Code != tt.code {
				t.Errorf("code = %s, want %s", e.Code, tt.code)
			}
		})
	}
}

func TestGetErrors(t *testing.T) {
	s := New()
	if rec := do(t, s, http.MethodGet, "/v1/layouts/not-a-uuid", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status %d", rec.Code)
	}
	missing := "/v1/layouts/9b2f4b4e-4f0a-4a8e-9f59-5d7a3c1e2b10"
	if rec := do(t, s, http.MethodGet, missing, ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing id: status %d", rec.Code)
	}
}

func TestItems(t *testing.T) {
	s := New()
	created := create(t, s)
	base := "/v1/layouts/" + created.ID + "/items"

	tests := map[string]struct {
		query string
		want  []string
	}{
		"left column":   {"?x=0&y=0&width=50&height=200", []string{"a", "c"}},
		"bottom row":    {"?x=0&y=150&width=200&height=10", []string{"c", "d"}},
		"touching edge": {"?x=100&y=200&width=10&height=10", []string{}},
		"everything":    {"?x=-10&y=-10&width=500&height=500", []string{"a", "b", "c", "d"}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, base+tt.query, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
			}
			var resp itemsResponse
			decode(t, rec, &resp)
			if len(resp.Items) != len(tt.want) {
				t.Fatalf("items = %+v, want %v", resp.Items, tt.want)
			}
			for i, id := range tt.want {
				if resp.Items[i].ID != id {
					t.Errorf("item %d = %s, want %s", i, resp.Items[i].ID, id)
				}
			}
		})
	}

	for _, q := range []string{"", "?x=0&y=0&width=10", "?x=a&y=0&width=1&height=1", "?x=0&y=0&width=-1&height=1"} {
		if rec := do(t, s, http.MethodGet, base+q, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("query %q: status %d, want 400", q, rec.Code)
		}
	}
}

func TestPatch(t *testing.T) {
	s := New()
	created := create(t, s)
	path := "/v1/layouts/" + created.ID

	rec := do(t, s, http.MethodPatch, path, `{"columns": 4, "width": 400}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: status %d: %s", rec.Code, rec.Body.String())
	}
	var got storage.Record
	decode(t, rec, &got)
	if got.Layout.Columns != 4 || got.Layout.ContentHeight != 100 {
		t.Errorf("patched layout = %d columns, height %v", got.Layout.Columns, got.Layout.ContentHeight)
	}
	if !got.UpdatedAt.After(created.UpdatedAt) && !got.UpdatedAt.Equal(created.UpdatedAt) {
		t.Error("UpdatedAt should advance")
	}

	// The live engine answers queries with the new geometry.
	rec = do(t, s, http.MethodGet, path+"/items?x=350&y=0&width=10&height=10", "")
	var items itemsResponse
	decode(t, rec, &items)
	if len(items.Items) != 1 || items.Items[0].ID != "d" {
		t.Errorf("items after patch = %+v", items.Items)
	}

	for _, body := range []string{`{"columns": 0}`, `{"columns": 20000000}`, `{"width": 1e308}`, `{"padding": -1}`, `{"placement": "zigzag"}`, `{"nope": true}`} {
		if rec := do(t, s, http.MethodPatch, path, body); rec.Code != http.StatusBadRequest {
			t.Errorf("patch %s: status %d, want 400", body, rec.Code)
		}
	}

	// Failed patches leave the stored layout untouched.
	rec = do(t, s, http.MethodGet, path, "")
	decode(t, rec, &got)
	if got.Layout.Columns != 4 {
		t.Errorf("columns = %d after rejected patches", got.Layout.Columns)
	}
}

func TestRebuildsEngineFromStore(t *testing.T) {
	store := storage.NewMemoryStore()
	first := New(WithStore(store))
	created := create(t, first)

	// A second server sharing the store has no live engine yet.
	second := New(WithStore(store))
	rec := do(t, second, http.MethodGet, "/v1/layouts/"+created.ID+"/items?x=150&y=150&width=1&height=1", "")
	var items itemsResponse
	decode(t, rec, &items)
	if len(items.Items) != 1 || items.Items[0].ID != "d" {
		t.Errorf("items from rebuilt engine = %+v", items.Items)
	}
}

func TestDelete(t *testing.T) {
	s := New()
	created := create(t, s)
	path := "/v1/layouts/" + created.ID

	if rec := do(t, s, http.MethodDelete, path, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d", rec.Code)
	}
}

func TestSVG(t *testing.T) {
	s := New()
	created := create(t, s)
	path := "/v1/layouts/" + created.ID + "/svg"

	rec := do(t, s, http.MethodGet, path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("svg: status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if n := strings.Count(rec.Body.String(), `class="pin"`); n != 4 {
		t.Errorf("rendered %d pins, want 4", n)
	}

	rec = do(t, s, http.MethodGet, path+"?x=0&y=0&width=50&height=50&style=outline", "")
	if n := strings.Count(rec.Body.String(), `class="pin"`); n != 1 {
		t.Errorf("region rendered %d pins, want 1", n)
	}

	if rec := do(t, s, http.MethodGet, path+"?style=neon", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad style: status %d", rec.Code)
	}
}

type countingHTTPHooks struct {
	observability.NoopHTTPHooks
	routes []string
}

func (h *countingHTTPHooks) OnResponse(_ context.Context, _, route string, _ int, _ time.Duration) {
	h.routes = append(h.routes, route)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &countingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	s := New()
	do(t, s, http.MethodGet, "/healthz", "")
	do(t, s, http.MethodGet, "/v1/layouts/9b2f4b4e-4f0a-4a8e-9f59-5d7a3c1e2b10", "")

	if len(hooks.routes) != 2 || !strings.HasPrefix(hooks.routes[1], "/v1/layouts/{id}") {
		t.Errorf("routes = %v", hooks.routes)
	}
}

func TestConcurrentQueries(t *testing.T) {
	s := New()
	created := create(t, s)
	path := "/v1/layouts/" + created.ID

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			if i%2 == 0 {
				do(t, s, http.MethodPatch, path, `{"columns": 2}`)
				return
			}
			do(t, s, http.MethodGet, path+"/items?x=0&y=0&width=200&height=200", "")
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestWriteJSONEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]float64{"height": math.Inf(1)})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var e errorResponse
	decode(t, rec, &e)
	if e.Code != errors.ErrCodeInternal {
		t.Errorf("code = %s, want %s", e.Code, errors.ErrCodeInternal)
	}
}
