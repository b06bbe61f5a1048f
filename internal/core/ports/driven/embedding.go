package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - Ollama (mxbai-embed-large, nomic-embed-text)
//   - OpenAI-compatible inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. The result
	// has one entry per input; entries may be empty when the backend
	// returned a malformed vector for that input. Callers filter.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model being used.
	// It is recorded in version metadata and feeds the version id.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request. Used at startup.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
