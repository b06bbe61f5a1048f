package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
	"github.com/ampdesk/ampdesk/internal/core/ports/driving"
	"github.com/ampdesk/ampdesk/internal/logger"
	"github.com/ampdesk/ampdesk/internal/normalisers"
	"github.com/ampdesk/ampdesk/internal/text"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// embedBatchSize caps how many chunks go to the embedder per batch.
const embedBatchSize = 64

// IndexEngine names the vector backend recorded in version metadata.
const IndexEngine = "chroma"

// IngestConfig holds ingestion settings.
type IngestConfig struct {
	// Collection is the shared vector collection name.
	Collection string

	// Chunking configures the heading-aware splitter.
	Chunking domain.ChunkingParams
}

// IngestService turns files into versioned, embedded knowledge bases.
// A process-wide mutex serializes ingestions; concurrent calls fail
// fast with ErrIngestInProgress instead of queueing.
type IngestService struct {
	registry *normalisers.Registry
	embedder driven.EmbeddingService
	vectors  driven.VectorStore
	kbStore  driven.KBStore
	cfg      IngestConfig

	mu sync.Mutex

	// now is swappable for tests.
	now func() time.Time
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	registry *normalisers.Registry,
	embedder driven.EmbeddingService,
	vectors driven.VectorStore,
	kbStore driven.KBStore,
	cfg IngestConfig,
) *IngestService {
	if cfg.Collection == "" {
		cfg.Collection = "chatbot"
	}
	if cfg.Chunking.Mode == "" {
		cfg.Chunking.Mode = "heading_aware"
	}
	return &IngestService{
		registry: registry,
		embedder: embedder,
		vectors:  vectors,
		kbStore:  kbStore,
		cfg:      cfg,
		now:      time.Now,
	}
}

// IngestFiles ingests each file independently. A failing file lands in
// the errors slice at the same index as its path; remaining files
// still run. The final error is non-nil only when nothing succeeded.
func (s *IngestService) IngestFiles(ctx context.Context, paths []string) ([]domain.IngestResult, []error, error) {
	if !s.mu.TryLock() {
		return nil, nil, domain.ErrIngestInProgress
	}
	defer s.mu.Unlock()

	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("%w: no files given", domain.ErrInvalidInput)
	}

	if err := s.vectors.EnsureCollection(ctx, s.cfg.Collection, map[string]string{"hnsw:space": "cosine"}); err != nil {
		return nil, nil, fmt.Errorf("ensuring collection: %w", err)
	}

	results := make([]domain.IngestResult, 0, len(paths))
	errs := make([]error, len(paths))
	succeeded := 0

	for i, path := range paths {
		if ctx.Err() != nil {
			return results, errs, ctx.Err()
		}

		result, err := s.ingestFile(ctx, path)
		if err != nil {
			logger.Warn("ingest %s failed: %v", filepath.Base(path), err)
			errs[i] = fmt.Errorf("%s: %w", filepath.Base(path), err)
			continue
		}
		logger.Info("ingested %s as %s/%s (%d chunks)",
			filepath.Base(path), result.KBID, result.VersionID, result.Chunks)
		results = append(results, result)
		succeeded++
	}

	if succeeded == 0 {
		return results, errs, fmt.Errorf("all %d files failed: first error: %w", len(paths), firstError(errs))
	}
	return results, errs, nil
}

// ingestFile runs the full pipeline for one file: manifest, normalize,
// chunk, embed, upsert, persist.
func (s *IngestService) ingestFile(ctx context.Context, path string) (domain.IngestResult, error) {
	filename := filepath.Base(path)

	kbID, err := domain.SlugifyFilename(filename)
	if err != nil {
		return domain.IngestResult{}, err
	}

	manifest, err := ComputeManifest([]string{path})
	if err != nil {
		return domain.IngestResult{}, err
	}
	if manifest.Empty() {
		return domain.IngestResult{}, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, filepath.Ext(path))
	}

	versionID, versionDigest, err := VersionID(manifest.Digest, s.cfg.Chunking, s.embedder.ModelName(), s.now())
	if err != nil {
		return domain.IngestResult{}, err
	}

	normalized, err := s.normalize(ctx, path, filename)
	if err != nil {
		return domain.IngestResult{}, err
	}

	chunks := text.SplitHeadingAware(normalized, s.cfg.Chunking.MaxChars, s.cfg.Chunking.OverlapChars)
	if len(chunks) == 0 {
		return domain.IngestResult{}, fmt.Errorf("%w: no text extracted", domain.ErrInvalidInput)
	}

	if err := s.embedAndUpsert(ctx, kbID, versionID, filename, chunks); err != nil {
		return domain.IngestResult{}, err
	}

	if err := s.kbStore.WriteSource(ctx, kbID, versionID, filename, normalized); err != nil {
		return domain.IngestResult{}, err
	}

	createdAt := s.now().UTC()
	meta := domain.VersionMeta{
		KBID:        kbID,
		VersionID:   versionID,
		CreatedAt:   createdAt,
		SourceStats: domain.SourceStats{Files: len(manifest.Files), Bytes: manifest.Bytes},
		Chunking:    s.cfg.Chunking,
		EmbedModel:  s.embedder.ModelName(),
		IndexEngine: IndexEngine,
		Chunks:      len(chunks),
		Hashes: domain.VersionHashes{
			SourceManifest: manifest.Digest,
			FullVersion:    versionDigest,
		},
	}
	// Meta is written last: its presence marks the version complete.
	if err := s.kbStore.WriteMeta(ctx, meta); err != nil {
		return domain.IngestResult{}, err
	}

	return domain.IngestResult{
		KBID:        kbID,
		VersionID:   versionID,
		Files:       len(manifest.Files),
		Chunks:      len(chunks),
		CreatedAt:   createdAt,
		EmbedModel:  meta.EmbedModel,
		IndexEngine: meta.IndexEngine,
	}, nil
}

func (s *IngestService) normalize(ctx context.Context, path, filename string) (string, error) {
	normaliser, err := s.registry.ForPath(path)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filename, err)
	}

	raw, err := normaliser.Normalise(ctx, &domain.RawDocument{
		Filename: filename,
		Path:     path,
		Content:  content,
	})
	if err != nil {
		return "", fmt.Errorf("normalising %s: %w", filename, err)
	}
	return text.Normalize(raw), nil
}

// embedAndUpsert embeds chunks in batches and writes them to the
// vector store. Chunks whose embedding failed are dropped; a file
// where every chunk failed is ErrEmbeddingFailed.
func (s *IngestService) embedAndUpsert(ctx context.Context, kbID, versionID, filename string, chunks []domain.Chunk) error {
	var records []driven.VectorRecord

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}

		embeddings, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch: %w", err)
		}

		for i, embedding := range embeddings {
			if len(embedding) == 0 {
				continue
			}
			chunk := batch[i]
			records = append(records, driven.VectorRecord{
				ID:        domain.ChunkID(filename, chunk.Index),
				Embedding: embedding,
				Document:  chunk.Text,
				Metadata: map[string]string{
					"kb_id":   kbID,
					"version": versionID,
					"doc":     filename,
					"title":   chunk.Title,
				},
			})
		}
	}

	if len(records) == 0 {
		return fmt.Errorf("%s: %w", filename, domain.ErrEmbeddingFailed)
	}

	if err := s.vectors.Upsert(ctx, s.cfg.Collection, records); err != nil {
		return fmt.Errorf("upserting vectors: %w", err)
	}
	return nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return fmt.Errorf("unknown failure")
}
