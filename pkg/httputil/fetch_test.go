package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testFetcher() *Fetcher {
	f := NewFetcher()
	f.Delay = time.Millisecond
	return f
}

func TestFetch(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/flaky":
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		case "/missing":
			calls.Add(1)
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	tests := []struct {
		name       string
		path       string
		wantBody   string
		wantStatus int
		wantCalls  int32
	}{
		{"ok", "/ok", "ok", 0, 0},
		{"retries 5xx", "/flaky", "ok", 0, 3},
		{"404 not retried", "/missing", "", http.StatusNotFound, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls.Store(0)
			var body string
			err := testFetcher().Fetch(context.Background(), srv.URL+tt.path, func(r io.Reader) error {
				b, err := io.ReadAll(r)
				body = string(b)
				return err
			})

			if tt.wantStatus != 0 {
				var se *StatusError
				if !errors.As(err, &se) || se.Status != tt.wantStatus {
					t.Fatalf("err = %v, want status %d", err, tt.wantStatus)
				}
			} else if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
			if calls.Load() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls.Load(), tt.wantCalls)
			}
		})
	}
}

func TestFetchReadErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		io.WriteString(w, "garbage")
	}))
	defer srv.Close()

	errDecode := errors.New("decode")
	err := testFetcher().Fetch(context.Background(), srv.URL, func(io.Reader) error { return errDecode })
	if !errors.Is(err, errDecode) {
		t.Errorf("err = %v, want decode error", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}
