// Package storage persists computed board layouts for the HTTP API.
//
// A [Record] holds the board, the layout computed from it and the text
// metrics used, so a server can rebuild a live engine for any stored
// layout. [MemoryStore] keeps records in process; [MongoStore] keeps them
// in a MongoDB collection.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/pinboard/pkg/board"
	"github.com/matzehuels/pinboard/pkg/document"
	"github.com/matzehuels/pinboard/pkg/errors"
)

// Record is a stored layout.
type Record struct {
	ID        string          `json:"id" bson:"_id"`
	Board     *board.Board    `json:"board" bson:"board"`
	Layout    document.Layout `json:"layout" bson:"layout"`
	FontSize  float64         `json:"font_size,omitempty" bson:"font_size,omitempty"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

// NewRecord returns a record with a fresh ID and timestamps.
func NewRecord(b *board.Board, doc document.Layout) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:        uuid.NewString(),
		Board:     b,
		Layout:    doc,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store persists records.
type Store interface {
	// Get returns the record with id, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)

	// Put inserts or replaces a record.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing record is a NOT_FOUND error.
	Delete(ctx context.Context, id string) error

	// List returns up to limit records, most recently updated first.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Close releases the backing resources.
	Close() error
}

// DefaultListLimit caps List when limit is not positive.
const DefaultListLimit = 100

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "layout %s not found", id)
}
