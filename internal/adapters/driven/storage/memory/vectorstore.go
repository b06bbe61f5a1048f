// Package memory provides in-memory implementations of driven port
// interfaces for testing.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore for
// testing. Query ranks by cosine distance like the real store.
type VectorStore struct {
	mu          sync.RWMutex
	collections map[string][]driven.VectorRecord
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		collections: make(map[string][]driven.VectorRecord),
	}
}

// EnsureCollection creates the named collection if missing.
func (s *VectorStore) EnsureCollection(_ context.Context, name string, _ map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; !ok {
		s.collections[name] = nil
	}
	return nil
}

// Upsert inserts or replaces records by id.
func (s *VectorStore) Upsert(_ context.Context, collection string, records []driven.VectorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("collection %s: %w", collection, domain.ErrNotFound)
	}

	for _, rec := range records {
		replaced := false
		for i := range existing {
			if existing[i].ID == rec.ID {
				existing[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, rec)
		}
	}
	s.collections[collection] = existing
	return nil
}

// Query returns the n nearest records by cosine distance.
func (s *VectorStore) Query(_ context.Context, collection string, embedding []float32, n int) ([]driven.VectorHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", collection, domain.ErrNotFound)
	}

	hits := make([]driven.VectorHit, 0, len(records))
	for _, rec := range records {
		hits = append(hits, driven.VectorHit{
			ID:       rec.ID,
			Document: rec.Document,
			Metadata: rec.Metadata,
			Distance: cosineDistance(embedding, rec.Embedding),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if len(hits) > n {
		hits = hits[:n]
	}
	return hits, nil
}

// GetAll returns every stored record's text and metadata.
func (s *VectorStore) GetAll(_ context.Context, collection string) ([]driven.StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.collections[collection]
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", collection, domain.ErrNotFound)
	}

	out := make([]driven.StoredRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, driven.StoredRecord{Document: rec.Document, Metadata: rec.Metadata})
	}
	return out, nil
}

// DeleteWhere removes records whose metadata matches every filter key.
func (s *VectorStore) DeleteWhere(_ context.Context, collection string, where map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.collections[collection]
	if !ok {
		return fmt.Errorf("collection %s: %w", collection, domain.ErrNotFound)
	}

	var kept []driven.VectorRecord
	for _, rec := range records {
		if !matches(rec.Metadata, where) {
			kept = append(kept, rec)
		}
	}
	s.collections[collection] = kept
	return nil
}

// Close releases resources.
func (s *VectorStore) Close() error {
	return nil
}

// Count returns the number of records in a collection.
func (s *VectorStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func matches(metadata, where map[string]string) bool {
	for k, v := range where {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
