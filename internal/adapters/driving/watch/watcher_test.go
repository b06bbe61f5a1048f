package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampdesk/ampdesk/internal/core/domain"
)

type recordingIngest struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingIngest) IngestFiles(_ context.Context, paths []string) ([]domain.IngestResult, []error, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, paths...)
	return nil, make([]error, len(paths)), nil
}

func (r *recordingIngest) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestWatcher_IngestsNewSupportedFile(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngest{}
	watcher := New(ingest, dir, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(dir, "guide.md")
	require.NoError(t, os.WriteFile(path, []byte("# Guide"), 0o644))

	assert.Eventually(t, func() bool {
		for _, seen := range ingest.seen() {
			if seen == path {
				return true
			}
		}
		return false
	}, 3*time.Second, 50*time.Millisecond)
}

func TestWatcher_IgnoresUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	ingest := &recordingIngest{}
	watcher := New(ingest, dir, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, ingest.seen())
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	watcher := New(&recordingIngest{}, dir, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	watcher := New(&recordingIngest{}, "/nonexistent-dir-xyz", 0)

	err := watcher.Run(context.Background())

	require.Error(t, err)
}
