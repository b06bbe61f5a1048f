package driving

import (
	"context"

	"github.com/ampdesk/ampdesk/internal/core/domain"
)

// IngestService turns files on disk into versioned, embedded,
// searchable knowledge bases.
type IngestService interface {
	// IngestFiles ingests each file independently (best effort):
	// a failing file is reported in the returned errors slice,
	// indexed like paths, and the remaining files still run. The
	// call returns a non-nil error only when no file succeeded.
	// Returns domain.ErrIngestInProgress when another ingestion
	// holds the lock.
	IngestFiles(ctx context.Context, paths []string) ([]domain.IngestResult, []error, error)
}
