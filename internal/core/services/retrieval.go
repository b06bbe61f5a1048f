package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
	"github.com/ampdesk/ampdesk/internal/logger"
)

// keywordScore is the flat score a keyword substring hit carries. Not
// comparable to vector scores; fusion only needs a stable ordering.
const keywordScore = 0.8

// minFusedResults floors the fused result cap so small k values still
// surface enough context for the prompt builder.
const minFusedResults = 12

// RetrieverConfig holds retrieval settings.
type RetrieverConfig struct {
	// Collection is the shared vector collection name.
	Collection string

	// KPerKB is how many vector hits to pull per query.
	KPerKB int
}

// Retriever fuses vector similarity with keyword matching over the
// shared collection.
type Retriever struct {
	embedder driven.EmbeddingService
	vectors  driven.VectorStore
	cfg      RetrieverConfig
}

// NewRetriever creates a new retriever.
func NewRetriever(embedder driven.EmbeddingService, vectors driven.VectorStore, cfg RetrieverConfig) *Retriever {
	if cfg.Collection == "" {
		cfg.Collection = "chatbot"
	}
	if cfg.KPerKB <= 0 {
		cfg.KPerKB = 8
	}
	return &Retriever{embedder: embedder, vectors: vectors, cfg: cfg}
}

// Retrieve returns fused, deduplicated hits for the query, best first.
// At most one hit per source document survives. An absent collection
// (nothing ingested yet) yields an empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]domain.RetrievalItem, error) {
	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	var items []domain.RetrievalItem

	hits, err := r.vectors.Query(ctx, r.cfg.Collection, embedding, r.cfg.KPerKB)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("collection %s absent, returning no hits", r.cfg.Collection)
			return nil, nil
		}
		return nil, fmt.Errorf("vector query: %w", err)
	}
	for _, hit := range hits {
		items = append(items, domain.RetrievalItem{
			ID:     hit.ID,
			Doc:    hit.Metadata["doc"],
			Title:  hit.Metadata["title"],
			Text:   hit.Document,
			Score:  1 - hit.Distance,
			Origin: domain.OriginVector,
		})
	}

	keyword, err := r.keywordScan(ctx, query)
	if err != nil {
		return nil, err
	}
	items = append(items, keyword...)

	return fuse(items, max(minFusedResults, r.cfg.KPerKB)), nil
}

// keywordScan walks every stored chunk looking for the query as a
// case-insensitive substring of the text or section title.
func (r *Retriever) keywordScan(ctx context.Context, query string) ([]domain.RetrievalItem, error) {
	records, err := r.vectors.GetAll(ctx, r.cfg.Collection)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("keyword scan: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, nil
	}

	var items []domain.RetrievalItem
	for _, rec := range records {
		title := rec.Metadata["title"]
		if !strings.Contains(strings.ToLower(rec.Document), needle) &&
			!strings.Contains(strings.ToLower(title), needle) {
			continue
		}
		items = append(items, domain.RetrievalItem{
			Doc:    rec.Metadata["doc"],
			Title:  title,
			Text:   rec.Document,
			Score:  keywordScore,
			Origin: domain.OriginKeyword,
		})
	}
	return items, nil
}

// fuse sorts by score descending and keeps the best hit per document.
func fuse(items []domain.RetrievalItem, limit int) []domain.RetrievalItem {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	seen := make(map[string]bool, len(items))
	fused := make([]domain.RetrievalItem, 0, limit)
	for _, item := range items {
		if seen[item.Doc] {
			continue
		}
		seen[item.Doc] = true
		fused = append(fused, item)
		if len(fused) == limit {
			break
		}
	}
	return fused
}
