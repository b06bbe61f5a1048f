package domain

import "fmt"

// RawDocument is an uploaded file before text extraction.
type RawDocument struct {
	// Filename is the original base filename, including extension.
	Filename string

	// Path is the on-disk location of the uploaded bytes.
	Path string

	// Content holds the raw file bytes.
	Content []byte
}

// Chunk is a contiguous span of normalized text belonging to one
// heading section of a document. Chunks are the retrieval unit: each
// one is embedded and upserted into the vector store.
type Chunk struct {
	// Title is the owning section heading, or "document" when the
	// source has no headings.
	Title string

	// Text is the chunk body. Never empty; at most the configured
	// max-chars long unless the whole section fits in one chunk.
	Text string

	// Index is the ordinal position within the source document.
	Index int
}

// ChunkID derives the deterministic vector-store id for a chunk of
// the named document. Re-ingesting the same file overwrites the same
// ids instead of accumulating duplicates.
func ChunkID(doc string, index int) string {
	return fmt.Sprintf("%s::chunk%d", doc, index)
}
