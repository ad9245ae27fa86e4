package vectorindex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	shipathon "github.com/nakshatramandowara/Shipathon"
)

// memoryIndex implements Index with brute-force cosine search over
// in-process maps. Collections live for the process lifetime only; no
// durability across restarts.
type memoryIndex struct {
	dimensions  int
	mu          sync.RWMutex
	collections map[string]map[string]Point
}

func newMemoryIndex(dimensions int) *memoryIndex {
	return &memoryIndex{
		dimensions:  dimensions,
		collections: make(map[string]map[string]Point),
	}
}

// EnsureCollection implements Index.
func (m *memoryIndex) EnsureCollection(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.collections[name]; !exists {
		m.collections[name] = make(map[string]Point)
	}
	return nil
}

// Upsert implements Index.
func (m *memoryIndex) Upsert(ctx context.Context, name string, points []Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll, exists := m.collections[name]
	if !exists {
		return fmt.Errorf("%w: %s", shipathon.ErrCollectionNotFound, name)
	}

	for _, p := range points {
		if len(p.Vector) != m.dimensions {
			return fmt.Errorf("%w: got %d, collection %q expects %d",
				shipathon.ErrDimensionMismatch, len(p.Vector), name, m.dimensions)
		}
		coll[p.ID] = p
	}
	return nil
}

// Query implements Index.
func (m *memoryIndex) Query(ctx context.Context, name string, vector []float32, k int) ([]Result, error) {
	if len(vector) != m.dimensions {
		return nil, fmt.Errorf("%w: query has %d, collection %q expects %d",
			shipathon.ErrDimensionMismatch, len(vector), name, m.dimensions)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	coll, exists := m.collections[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", shipathon.ErrCollectionNotFound, name)
	}

	results := make([]Result, 0, len(coll))
	for _, p := range coll {
		results = append(results, Result{
			Score:   cosine(vector, p.Vector),
			Payload: p.Payload,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k >= 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Count implements Index.
func (m *memoryIndex) Count(ctx context.Context, name string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	coll, exists := m.collections[name]
	if !exists {
		return 0, fmt.Errorf("%w: %s", shipathon.ErrCollectionNotFound, name)
	}
	return len(coll), nil
}

// DeleteCollection implements Index.
func (m *memoryIndex) DeleteCollection(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections, name)
	return nil
}

// Close implements Index.
func (m *memoryIndex) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.collections = nil
	return nil
}

// cosine returns the cosine similarity between two equal-length vectors.
// Stored vectors are not required to be unit-length, so both norms are
// computed here rather than assuming normalization.
func cosine(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return float32(dot / denom)
}

// Compile-time check that memoryIndex implements Index.
var _ Index = (*memoryIndex)(nil)
