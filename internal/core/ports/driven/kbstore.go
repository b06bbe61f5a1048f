package driven

import (
	"context"

	"github.com/ampdesk/ampdesk/internal/core/domain"
)

// KBStore persists knowledge-base version metadata and normalized
// source text on durable storage.
type KBStore interface {
	// WriteSource persists normalized source text under the
	// version's source directory.
	WriteSource(ctx context.Context, kbID, versionID, filename, text string) error

	// WriteMeta writes the version metadata record.
	WriteMeta(ctx context.Context, meta domain.VersionMeta) error

	// ReadMeta returns the metadata for one version or ErrNotFound.
	ReadMeta(ctx context.Context, kbID, versionID string) (domain.VersionMeta, error)

	// ListKnowledgeBases returns all knowledge-base ids.
	ListKnowledgeBases(ctx context.Context) ([]string, error)

	// ListVersions returns a knowledge base's version ids, sorted.
	// Empty (not an error) for unknown knowledge bases.
	ListVersions(ctx context.Context, kbID string) ([]string, error)

	// ActiveVersion returns the most recent non-archived version id,
	// or "" when none exists. Derived, never stored.
	ActiveVersion(ctx context.Context, kbID string) (string, error)

	// ArchiveAll marks every version of the knowledge base archived.
	// Returns true when at least one version changed.
	ArchiveAll(ctx context.Context, kbID string) (bool, error)

	// Size returns the total bytes under the knowledge base's
	// version directories.
	Size(ctx context.Context, kbID string) (int64, error)

	// SampleSources returns up to limit source document names of the
	// given version.
	SampleSources(ctx context.Context, kbID, versionID string, limit int) ([]string, error)
}
