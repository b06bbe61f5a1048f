package driven

import "context"

// VectorStore provides access to the external embedded vector
// database. Storage, similarity search, and persistence are the
// store's responsibility; this port only moves records in and out.
//
// All chunks live in one shared collection; records are scoped by
// their metadata (kb_id, version, doc).
type VectorStore interface {
	// EnsureCollection creates the named collection if it does not
	// exist and returns without error when it already does.
	EnsureCollection(ctx context.Context, name string, metadata map[string]string) error

	// Upsert inserts or replaces records by id.
	Upsert(ctx context.Context, collection string, records []VectorRecord) error

	// Query returns the n nearest neighbours to the embedding by
	// store distance. A missing collection is ErrNotFound.
	Query(ctx context.Context, collection string, embedding []float32, n int) ([]VectorHit, error)

	// GetAll returns every stored record's document text and
	// metadata (no embeddings). A missing collection is ErrNotFound.
	GetAll(ctx context.Context, collection string) ([]StoredRecord, error)

	// DeleteWhere removes all records whose metadata matches every
	// key/value pair of the filter.
	DeleteWhere(ctx context.Context, collection string, where map[string]string) error

	// Close releases resources.
	Close() error
}

// VectorRecord is one (id, embedding, document, metadata) tuple.
type VectorRecord struct {
	ID        string
	Embedding []float32
	Document  string
	Metadata  map[string]string
}

// VectorHit is a similarity query result.
type VectorHit struct {
	ID       string
	Document string
	Metadata map[string]string

	// Distance is the store's embedding distance; the retrieval
	// service converts it to a similarity score as 1-distance.
	Distance float64
}

// StoredRecord is one record of a full collection scan.
type StoredRecord struct {
	Document string
	Metadata map[string]string
}
