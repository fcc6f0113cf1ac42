// Package httputil provides the HTTP plumbing used to look up remote pin
// images.
//
// [Fetch] issues a GET with automatic retries for transient failures
// (network errors, 5xx responses, 429 rate limits) and hands the response
// body to a callback. [Retry] is the underlying backoff loop.
//
// [Cache] stores small JSON values on disk keyed by an arbitrary string, so
// probed image sizes survive between runs:
//
//	c, err := httputil.NewCache("", 7*24*time.Hour)
//	sizes := c.Namespace("image:")
//	var size Size
//	if ok, _ := sizes.Get(url, &size); !ok {
//	    size = probe(url)
//	    sizes.Set(url, size)
//	}
//
// Entries expire by file modification time. The default directory is
// ~/.cache/pinboard/http.
package httputil
