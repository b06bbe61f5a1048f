package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. HTTP adapters map
// them to status codes; services wrap them with context via %w.
var (
	// ErrNotFound indicates a requested entity does not exist
	// (file, knowledge base, chat session).
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as a
	// knowledge-base identifier with characters outside [a-z0-9-_] or
	// an unsupported target language.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIngestInProgress indicates another ingestion is already
	// running. Callers should retry after the current one finishes.
	ErrIngestInProgress = errors.New("ingest in progress")

	// ErrUpstream indicates the embedding/chat model or the vector
	// store failed or returned malformed data.
	ErrUpstream = errors.New("upstream service failure")

	// ErrEmbeddingFailed indicates the embedding service produced no
	// usable vectors for an entire file.
	ErrEmbeddingFailed = errors.New("embedding produced no valid vectors")

	// ErrOutputRejected indicates a translator guardrail rejected the
	// model output (explanation markers or wrong output language).
	ErrOutputRejected = errors.New("output rejected")

	// ErrTextTooLarge indicates the input text exceeds the configured
	// size limit.
	ErrTextTooLarge = errors.New("text too large")
)
