package driving

import (
	"context"

	"github.com/ampdesk/ampdesk/internal/core/domain"
)

// KnowledgeBaseService exposes read and lifecycle operations over
// ingested knowledge bases.
type KnowledgeBaseService interface {
	// List summarises every knowledge base.
	List(ctx context.Context) ([]domain.KBSummary, error)

	// Detail returns one knowledge base with its version history,
	// or ErrNotFound.
	Detail(ctx context.Context, kbID string) (domain.KBDetail, error)

	// SoftDelete removes the knowledge base's vectors from the
	// store and archives all its versions. Returns whether any
	// version changed; ErrNotFound for unknown ids.
	SoftDelete(ctx context.Context, kbID string) (bool, error)
}
