package services

import (
	"context"
	"fmt"

	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
	"github.com/ampdesk/ampdesk/internal/core/ports/driving"
	"github.com/ampdesk/ampdesk/internal/logger"
)

// Ensure KBService implements the interface.
var _ driving.KnowledgeBaseService = (*KBService)(nil)

// sampleDocLimit caps how many source names the detail view shows.
const sampleDocLimit = 5

// KBService exposes read and lifecycle operations over ingested
// knowledge bases.
type KBService struct {
	kbStore    driven.KBStore
	vectors    driven.VectorStore
	collection string
}

// NewKBService creates a new knowledge-base service.
func NewKBService(kbStore driven.KBStore, vectors driven.VectorStore, collection string) *KBService {
	if collection == "" {
		collection = "chatbot"
	}
	return &KBService{kbStore: kbStore, vectors: vectors, collection: collection}
}

// List summarises every knowledge base. Stats come from the active
// version; fully archived knowledge bases list with empty stats.
func (s *KBService) List(ctx context.Context) ([]domain.KBSummary, error) {
	ids, err := s.kbStore.ListKnowledgeBases(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing knowledge bases: %w", err)
	}

	summaries := make([]domain.KBSummary, 0, len(ids))
	for _, kbID := range ids {
		summary := domain.KBSummary{KBID: kbID}

		active, err := s.kbStore.ActiveVersion(ctx, kbID)
		if err != nil {
			return nil, err
		}
		if active != "" {
			meta, err := s.kbStore.ReadMeta(ctx, kbID, active)
			if err != nil {
				return nil, err
			}
			createdAt := meta.CreatedAt
			summary.ActiveVersion = active
			summary.Files = meta.SourceStats.Files
			summary.Chunks = meta.Chunks
			summary.CreatedAt = &createdAt
		}

		size, err := s.kbStore.Size(ctx, kbID)
		if err != nil {
			return nil, err
		}
		summary.SizeMB = float64(size) / (1024 * 1024)

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Detail returns one knowledge base with its version history.
func (s *KBService) Detail(ctx context.Context, kbID string) (domain.KBDetail, error) {
	versions, err := s.kbStore.ListVersions(ctx, kbID)
	if err != nil {
		return domain.KBDetail{}, err
	}
	if len(versions) == 0 {
		return domain.KBDetail{}, fmt.Errorf("knowledge base %s: %w", kbID, domain.ErrNotFound)
	}

	detail := domain.KBDetail{KBID: kbID}
	for _, versionID := range versions {
		meta, err := s.kbStore.ReadMeta(ctx, kbID, versionID)
		if err != nil {
			return domain.KBDetail{}, err
		}
		detail.Versions = append(detail.Versions, domain.KBVersionSummary{
			VersionID:   versionID,
			CreatedAt:   meta.CreatedAt,
			Files:       meta.SourceStats.Files,
			Chunks:      meta.Chunks,
			EmbedModel:  meta.EmbedModel,
			IndexEngine: meta.IndexEngine,
		})
	}

	if detail.ActiveVersion, err = s.kbStore.ActiveVersion(ctx, kbID); err != nil {
		return domain.KBDetail{}, err
	}
	if detail.ActiveVersion != "" {
		samples, err := s.kbStore.SampleSources(ctx, kbID, detail.ActiveVersion, sampleDocLimit)
		if err != nil {
			return domain.KBDetail{}, err
		}
		detail.SampleDocs = samples
	}
	return detail, nil
}

// SoftDelete removes the knowledge base's vectors and archives all its
// versions. The source files and metadata stay on disk.
func (s *KBService) SoftDelete(ctx context.Context, kbID string) (bool, error) {
	versions, err := s.kbStore.ListVersions(ctx, kbID)
	if err != nil {
		return false, err
	}
	if len(versions) == 0 {
		return false, fmt.Errorf("knowledge base %s: %w", kbID, domain.ErrNotFound)
	}

	if err := s.vectors.DeleteWhere(ctx, s.collection, map[string]string{"kb_id": kbID}); err != nil {
		// Vectors may be gone already when nothing was ever ingested
		// into the collection.
		logger.Warn("deleting vectors of %s: %v", kbID, err)
	}

	changed, err := s.kbStore.ArchiveAll(ctx, kbID)
	if err != nil {
		return changed, fmt.Errorf("archiving %s: %w", kbID, err)
	}
	logger.Info("soft-deleted knowledge base %s (changed=%t)", kbID, changed)
	return changed, nil
}
