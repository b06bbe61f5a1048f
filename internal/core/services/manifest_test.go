package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampdesk/ampdesk/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestComputeManifest(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.md", "# Hello")
	b := writeFile(t, dir, "b.md", "content")

	manifest, err := ComputeManifest([]string{b, a})

	require.NoError(t, err)
	require.Len(t, manifest.Files, 2)
	// Entries sort by path regardless of input order.
	assert.Equal(t, "a.md", manifest.Files[0].Path)
	assert.Equal(t, "b.md", manifest.Files[1].Path)
	assert.Equal(t, int64(len("# Hello")+len("content")), manifest.Bytes)
	assert.Len(t, manifest.Digest, 32) // 128-bit hex
	assert.Len(t, manifest.Files[0].Digest, 32)
}

func TestComputeManifest_Deterministic(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.md", "# Hello")
	b := writeFile(t, dir, "b.md", "content")

	first, err := ComputeManifest([]string{a, b})
	require.NoError(t, err)
	second, err := ComputeManifest([]string{b, a})
	require.NoError(t, err)

	assert.Equal(t, first.Digest, second.Digest)
}

func TestComputeManifest_UnsupportedIsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "image.png", "not text")

	manifest, err := ComputeManifest([]string{path})

	require.NoError(t, err)
	assert.True(t, manifest.Empty())
	assert.Empty(t, manifest.Digest)
}

func TestComputeManifest_MissingFile(t *testing.T) {
	_, err := ComputeManifest([]string{"/nonexistent/file.md"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVersionID(t *testing.T) {
	chunking := domain.ChunkingParams{MaxChars: 2200, OverlapChars: 220}
	now := time.Date(2025, 6, 15, 23, 30, 0, 0, time.FixedZone("ICT", 7*3600))

	id, digest, err := VersionID("abc123", chunking, "mxbai-embed-large", now)

	require.NoError(t, err)
	// Date is taken in UTC, not the local zone.
	assert.Equal(t, "2025-06-15--b3_"+digest, id)
	assert.Len(t, digest, 12) // 48-bit hex

	// Same inputs, same id.
	again, _, err := VersionID("abc123", chunking, "mxbai-embed-large", now)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestVersionID_SensitiveToParams(t *testing.T) {
	now := time.Now()
	base := domain.ChunkingParams{MaxChars: 2200, OverlapChars: 220}

	_, d1, err := VersionID("abc", base, "mxbai-embed-large", now)
	require.NoError(t, err)
	_, d2, err := VersionID("abc", domain.ChunkingParams{MaxChars: 1000, OverlapChars: 220}, "mxbai-embed-large", now)
	require.NoError(t, err)
	_, d3, err := VersionID("abc", base, "other-model", now)
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2)
	assert.NotEqual(t, d1, d3)
}
