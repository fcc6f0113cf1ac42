package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher issues GET requests with retries.
type Fetcher struct {
	Client   *http.Client
	Attempts int
	Delay    time.Duration
}

// NewFetcher returns a Fetcher with a 10 second client timeout and three
// attempts.
func NewFetcher() *Fetcher {
	return &Fetcher{
		Client:   &http.Client{Timeout: 10 * time.Second},
		Attempts: 3,
		Delay:    500 * time.Millisecond,
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

// Fetch GETs url and passes the body to read. Network errors, 5xx and 429
// responses are retried; other statuses fail with a [*StatusError]. An
// error returned by read is not retried.
func (f *Fetcher) Fetch(ctx context.Context, url string, read func(io.Reader) error) error {
	return Retry(ctx, f.Attempts, f.Delay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := f.Client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &RetryableError{Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			serr := &StatusError{URL: url, Status: resp.StatusCode}
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return &RetryableError{Err: serr}
			}
			return serr
		}
		return read(resp.Body)
	})
}
