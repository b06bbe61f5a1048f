// Package chroma provides a VectorStore adapter backed by a Chroma
// server's REST API. Chroma owns vector persistence and similarity
// search; this client only moves records in and out.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DefaultTimeout bounds each API call.
const DefaultTimeout = 30 * time.Second

// Config holds configuration for the Chroma client.
type Config struct {
	// URL is the Chroma server base URL (e.g. http://localhost:8000).
	URL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Store is a minimal REST client to Chroma.
type Store struct {
	baseURL string
	client  *http.Client

	// Collection ids are stable per name; resolve once and cache.
	mu  sync.Mutex
	ids map[string]string
}

// New creates a new Chroma client.
func New(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		baseURL: cfg.URL,
		client:  &http.Client{Timeout: timeout},
		ids:     make(map[string]string),
	}
}

type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EnsureCollection creates the named collection if missing.
func (s *Store) EnsureCollection(ctx context.Context, name string, metadata map[string]string) error {
	body := map[string]any{
		"name":          name,
		"get_or_create": true,
	}
	if len(metadata) > 0 {
		body["metadata"] = metadata
	}

	var coll collectionResponse
	if err := s.postJSON(ctx, "/api/v1/collections", body, &coll); err != nil {
		return fmt.Errorf("ensure collection %s: %w", name, err)
	}

	s.mu.Lock()
	s.ids[name] = coll.ID
	s.mu.Unlock()
	return nil
}

// collectionID resolves a collection name to its id, caching the
// result. A missing collection is domain.ErrNotFound.
func (s *Store) collectionID(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	if id, ok := s.ids[name]; ok {
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	var coll collectionResponse
	err := s.getJSON(ctx, "/api/v1/collections/"+url.PathEscape(name), &coll)
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && (apiErr.status == http.StatusNotFound || apiErr.status == http.StatusInternalServerError) {
			// Chroma reports unknown collections as an error body;
			// treat both shapes as not-found.
			return "", fmt.Errorf("collection %s: %w", name, domain.ErrNotFound)
		}
		return "", fmt.Errorf("get collection %s: %w", name, err)
	}

	s.mu.Lock()
	s.ids[name] = coll.ID
	s.mu.Unlock()
	return coll.ID, nil
}

// Upsert inserts or replaces records by id.
func (s *Store) Upsert(ctx context.Context, collection string, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	id, err := s.collectionID(ctx, collection)
	if err != nil {
		return err
	}

	ids := make([]string, len(records))
	embeddings := make([][]float32, len(records))
	documents := make([]string, len(records))
	metadatas := make([]map[string]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
		embeddings[i] = r.Embedding
		documents[i] = r.Document
		metadatas[i] = r.Metadata
	}

	body := map[string]any{
		"ids":        ids,
		"embeddings": embeddings,
		"documents":  documents,
		"metadatas":  metadatas,
	}
	if err := s.postJSON(ctx, "/api/v1/collections/"+id+"/upsert", body, nil); err != nil {
		return fmt.Errorf("upsert %d records into %s: %w", len(records), collection, err)
	}
	return nil
}

type queryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

// Query returns the n nearest neighbours to the embedding.
func (s *Store) Query(ctx context.Context, collection string, embedding []float32, n int) ([]driven.VectorHit, error) {
	id, err := s.collectionID(ctx, collection)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"query_embeddings": [][]float32{embedding},
		"n_results":        n,
		"include":          []string{"metadatas", "documents", "distances"},
	}

	var resp queryResponse
	if err := s.postJSON(ctx, "/api/v1/collections/"+id+"/query", body, &resp); err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	if len(resp.Documents) == 0 {
		return nil, nil
	}

	rows := len(resp.Documents[0])
	hits := make([]driven.VectorHit, 0, rows)
	for i := 0; i < rows; i++ {
		hit := driven.VectorHit{
			Document: resp.Documents[0][i],
		}
		if len(resp.IDs) > 0 && i < len(resp.IDs[0]) {
			hit.ID = resp.IDs[0][i]
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			hit.Distance = resp.Distances[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			hit.Metadata = stringMetadata(resp.Metadatas[0][i])
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

type getResponse struct {
	IDs       []string         `json:"ids"`
	Documents []string         `json:"documents"`
	Metadatas []map[string]any `json:"metadatas"`
}

// GetAll returns every stored record's text and metadata.
func (s *Store) GetAll(ctx context.Context, collection string) ([]driven.StoredRecord, error) {
	id, err := s.collectionID(ctx, collection)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"include": []string{"metadatas", "documents"},
	}

	var resp getResponse
	if err := s.postJSON(ctx, "/api/v1/collections/"+id+"/get", body, &resp); err != nil {
		return nil, fmt.Errorf("get all from %s: %w", collection, err)
	}

	records := make([]driven.StoredRecord, 0, len(resp.Documents))
	for i, doc := range resp.Documents {
		rec := driven.StoredRecord{Document: doc}
		if i < len(resp.Metadatas) {
			rec.Metadata = stringMetadata(resp.Metadatas[i])
		}
		records = append(records, rec)
	}
	return records, nil
}

// DeleteWhere removes records whose metadata matches the filter.
func (s *Store) DeleteWhere(ctx context.Context, collection string, where map[string]string) error {
	id, err := s.collectionID(ctx, collection)
	if err != nil {
		return err
	}

	body := map[string]any{"where": whereClause(where)}
	if err := s.postJSON(ctx, "/api/v1/collections/"+id+"/delete", body, nil); err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// whereClause builds a Chroma filter. Multiple keys combine with $and.
func whereClause(where map[string]string) map[string]any {
	if len(where) == 1 {
		for k, v := range where {
			return map[string]any{k: v}
		}
	}
	conds := make([]map[string]any, 0, len(where))
	for k, v := range where {
		conds = append(conds, map[string]any{k: v})
	}
	return map[string]any{"$and": conds}
}

// stringMetadata narrows Chroma's loosely typed metadata to strings.
func stringMetadata(m map[string]any) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// apiError carries a non-2xx response.
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("chroma status %d: %s", e.status, e.body)
}

func (s *Store) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, out)
}

func (s *Store) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return s.do(req, out)
}

func (s *Store) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &apiError{status: resp.StatusCode, body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrUpstream, err)
	}
	return nil
}
