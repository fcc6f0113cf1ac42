// Package cache stores computed layouts and rendered artifacts.
//
// A [Cache] is a byte store with per-entry TTL. [FileCache] backs the CLI,
// [RedisCache] backs the HTTP server and [NullCache] disables caching.
// Keys are derived by a [Keyer] from a content hash of the input plus every
// option that changes the output, so identical requests hit the same entry.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/pinboard/pkg/masonry"
)

// Default time-to-live for cache entries.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backing resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a computed layout of the board with hash boardHash.
	LayoutKey(boardHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered output of the layout with hash layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists every input besides the board that changes a layout.
type LayoutKeyOpts struct {
	Columns   int            `json:"columns"`
	Padding   float64        `json:"padding"`
	Placement string         `json:"placement"`
	Width     float64        `json:"width"`
	Insets    masonry.Insets `json:"insets"`
	FontSize  float64        `json:"font_size,omitempty"`
}

// ArtifactKeyOpts lists every input besides the layout that changes a
// rendered artifact.
type ArtifactKeyOpts struct {
	Format string    `json:"format"`
	Style  string    `json:"style,omitempty"`
	Region []float64 `json:"region,omitempty"`
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(boardHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", boardHash, opts)
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), layoutHash, opts)
}
