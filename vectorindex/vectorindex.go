// Package vectorindex provides named collections of (id, vector, payload)
// points with top-K cosine-similarity search.
package vectorindex

import (
	"context"

	shipathon "github.com/nakshatramandowara/Shipathon"
)

// Point is one indexed event: a stable identifier, its embedding, and the
// event record carried as payload. The vector is derived from the record at
// ingestion time and is never mutated independently of it.
type Point struct {
	ID      string
	Vector  []float32
	Payload shipathon.EventRecord
}

// Result is one query hit: the matched event and its cosine similarity to
// the query vector.
type Result struct {
	Score   float32
	Payload shipathon.EventRecord
}

// Index is a technology-agnostic interface for vector similarity search
// over named collections. Implementations can use an in-memory index,
// Qdrant, or any backend with cosine distance.
type Index interface {
	// EnsureCollection creates the collection with the index's configured
	// dimension and cosine metric if absent; otherwise it is a no-op.
	// Idempotent: concurrent callers racing to create the same collection
	// must all succeed.
	EnsureCollection(ctx context.Context, name string) error

	// Upsert inserts or replaces points by ID (last write wins). A failed
	// batch may be partially applied, but every applied point is queryable
	// afterward. Returns shipathon.ErrDimensionMismatch if any vector's
	// dimension differs from the collection's.
	Upsert(ctx context.Context, name string, points []Point) error

	// Query returns up to k nearest neighbors by cosine similarity in
	// descending score order. Fewer than k if the collection holds fewer
	// points; an empty slice if it is empty.
	Query(ctx context.Context, name string, vector []float32, k int) ([]Result, error)

	// Count returns the number of points in the collection.
	Count(ctx context.Context, name string) (int, error)

	// DeleteCollection removes the collection. For forced-reinitialization
	// testing paths.
	DeleteCollection(ctx context.Context, name string) error

	// Close releases any resources held by the index.
	Close() error
}

// DriverType represents the type of index backend.
type DriverType string

const (
	DriverMemory DriverType = "memory"
)

// New creates an Index backed by the given driver type. The Qdrant driver
// lives in the qdrant subpackage and is constructed directly from its own
// connection config.
func New(driver DriverType, dimensions int) (Index, error) {
	switch driver {
	case DriverMemory:
		if dimensions <= 0 {
			return nil, shipathon.ErrInvalidConfig
		}
		return newMemoryIndex(dimensions), nil

	default:
		return nil, shipathon.ErrInvalidStoreType
	}
}
