package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampdesk/ampdesk/internal/adapters/driven/storage/memory"
	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
)

type kbFixture struct {
	svc     *KBService
	kbStore *memory.KBStore
	vectors *memory.VectorStore
}

func newKBFixture(t *testing.T) *kbFixture {
	t.Helper()
	ctx := context.Background()

	kbStore := memory.NewKBStore()
	vectors := memory.NewVectorStore()
	require.NoError(t, vectors.EnsureCollection(ctx, "chatbot", nil))

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, kbStore.WriteMeta(ctx, domain.VersionMeta{
		KBID: "billing", VersionID: "v1", CreatedAt: base,
		SourceStats: domain.SourceStats{Files: 1, Bytes: 100},
		Chunks:      3, EmbedModel: "stub-embed", IndexEngine: "chroma",
	}))
	require.NoError(t, kbStore.WriteMeta(ctx, domain.VersionMeta{
		KBID: "billing", VersionID: "v2", CreatedAt: base.Add(time.Hour),
		SourceStats: domain.SourceStats{Files: 2, Bytes: 300},
		Chunks:      5, EmbedModel: "stub-embed", IndexEngine: "chroma",
	}))
	require.NoError(t, kbStore.WriteSource(ctx, "billing", "v2", "guide.md", "normalized text"))
	require.NoError(t, vectors.Upsert(ctx, "chatbot", []driven.VectorRecord{
		{ID: "guide.md::chunk0", Embedding: []float32{1}, Document: "text", Metadata: map[string]string{"kb_id": "billing"}},
		{ID: "other.md::chunk0", Embedding: []float32{1}, Document: "text", Metadata: map[string]string{"kb_id": "support"}},
	}))

	return &kbFixture{
		svc:     NewKBService(kbStore, vectors, "chatbot"),
		kbStore: kbStore,
		vectors: vectors,
	}
}

func TestKBList(t *testing.T) {
	f := newKBFixture(t)

	summaries, err := f.svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, summaries, 1)
	summary := summaries[0]
	assert.Equal(t, "billing", summary.KBID)
	assert.Equal(t, "v2", summary.ActiveVersion)
	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 5, summary.Chunks)
	require.NotNil(t, summary.CreatedAt)
	assert.Positive(t, summary.SizeMB)
}

func TestKBDetail(t *testing.T) {
	f := newKBFixture(t)

	detail, err := f.svc.Detail(context.Background(), "billing")

	require.NoError(t, err)
	assert.Equal(t, "billing", detail.KBID)
	require.Len(t, detail.Versions, 2)
	assert.Equal(t, "v2", detail.ActiveVersion)
	assert.Equal(t, []string{"guide.md"}, detail.SampleDocs)
}

func TestKBDetail_NotFound(t *testing.T) {
	f := newKBFixture(t)

	_, err := f.svc.Detail(context.Background(), "nope")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSoftDelete(t *testing.T) {
	f := newKBFixture(t)
	ctx := context.Background()

	changed, err := f.svc.SoftDelete(ctx, "billing")

	require.NoError(t, err)
	assert.True(t, changed)

	// Vectors of the knowledge base are gone; others survive.
	records, err := f.vectors.GetAll(ctx, "chatbot")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "support", records[0].Metadata["kb_id"])

	// No active version remains, but the listing still shows the kb.
	active, err := f.kbStore.ActiveVersion(ctx, "billing")
	require.NoError(t, err)
	assert.Empty(t, active)

	summaries, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Empty(t, summaries[0].ActiveVersion)
}

func TestSoftDelete_NotFound(t *testing.T) {
	f := newKBFixture(t)

	_, err := f.svc.SoftDelete(context.Background(), "nope")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSoftDelete_Twice(t *testing.T) {
	f := newKBFixture(t)
	ctx := context.Background()

	changed, err := f.svc.SoftDelete(ctx, "billing")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = f.svc.SoftDelete(ctx, "billing")
	require.NoError(t, err)
	assert.False(t, changed)
}
