package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// SupportedExtensions lists the file types the ingestion pipeline
// accepts. Files outside this set yield an empty manifest.
var SupportedExtensions = []string{".md", ".pdf", ".docx"}

// SupportedExtension reports whether the path has an ingestible
// extension.
func SupportedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

var kbIDPattern = regexp.MustCompile(`^[a-z0-9\-_]+$`)

// SlugifyFilename derives a knowledge-base id from a filename:
// the base name without extension, lowercased, internal spaces
// replaced with hyphens. Underscores and hyphens pass through
// untouched. Anything outside [a-z0-9-_] is rejected.
func SlugifyFilename(filename string) (string, error) {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(base)), " ", "-")
	if !kbIDPattern.MatchString(slug) {
		return "", fmt.Errorf("%w: knowledge-base id %q must use only letters, numbers, '-' or '_'", ErrInvalidInput, base)
	}
	return slug, nil
}

// ManifestEntry records one source file of a knowledge-base version.
type ManifestEntry struct {
	// Path is the base filename within the version's source dir.
	Path string `json:"path"`

	// Digest is the hex BLAKE2b-128 digest of the raw file bytes.
	Digest string `json:"digest"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`
}

// Manifest aggregates the source files of one ingestion. Immutable
// once written; the Digest feeds the version id derivation.
type Manifest struct {
	// Files holds one entry per ingested source file.
	Files []ManifestEntry

	// Bytes is the total size of all entries.
	Bytes int64

	// Digest is the hex BLAKE2b-128 digest over the JSON-serialized
	// entry list. Empty when Files is empty.
	Digest string
}

// Empty reports whether the manifest contains no ingestible files.
func (m Manifest) Empty() bool {
	return len(m.Files) == 0
}

// ChunkingParams are the splitter settings recorded with a version.
type ChunkingParams struct {
	Mode         string `json:"mode"`
	MaxChars     int    `json:"max_chars"`
	OverlapChars int    `json:"overlap_chars"`
}

// SourceStats summarises the ingested inputs of a version.
type SourceStats struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}

// VersionHashes carries the digests a version id was derived from.
type VersionHashes struct {
	SourceManifest string `json:"source_manifest"`
	FullVersion    string `json:"full_version"`
}

// VersionMeta is the durable record of one knowledge-base version.
// Written once at the end of ingestion; the only later mutation is
// setting Archived on soft delete.
type VersionMeta struct {
	KBID        string         `json:"kb_id"`
	VersionID   string         `json:"kb_version_id"`
	CreatedAt   time.Time      `json:"created_at"`
	SourceStats SourceStats    `json:"source_stats"`
	Chunking    ChunkingParams `json:"chunking"`
	EmbedModel  string         `json:"embedding_model"`
	IndexEngine string         `json:"index_engine"`
	Chunks      int            `json:"chunks"`
	Hashes      VersionHashes  `json:"hashes"`
	Archived    bool           `json:"archived"`
}

// IngestResult is the per-file outcome of an ingestion call.
type IngestResult struct {
	KBID        string    `json:"kb_id"`
	VersionID   string    `json:"kb_version_id"`
	Files       int       `json:"files"`
	Chunks      int       `json:"chunks"`
	CreatedAt   time.Time `json:"created_at"`
	EmbedModel  string    `json:"embedding"`
	IndexEngine string    `json:"index_engine"`
}

// KBSummary is one row of the knowledge-base listing.
type KBSummary struct {
	KBID          string     `json:"kb_id"`
	ActiveVersion string     `json:"active_version,omitempty"`
	Files         int        `json:"files"`
	Chunks        int        `json:"chunks"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	SizeMB        float64    `json:"size_mb"`
}

// KBVersionSummary is one version row of the knowledge-base detail.
type KBVersionSummary struct {
	VersionID   string    `json:"kb_version_id"`
	CreatedAt   time.Time `json:"created_at"`
	Files       int       `json:"files"`
	Chunks      int       `json:"chunks"`
	EmbedModel  string    `json:"embedding"`
	IndexEngine string    `json:"index_engine"`
}

// KBDetail describes one knowledge base with its version history.
type KBDetail struct {
	KBID          string             `json:"kb_id"`
	Versions      []KBVersionSummary `json:"versions"`
	ActiveVersion string             `json:"active_version,omitempty"`
	SampleDocs    []string           `json:"sample_docs"`
}
