// Package watch ingests files dropped into an inbox directory. It is
// an optional convenience for operators who sync documentation into a
// folder instead of calling the upload endpoint.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driving"
	"github.com/ampdesk/ampdesk/internal/logger"
)

// DefaultSettle is how long a file must stay quiet before ingestion.
// Sync tools write in bursts; ingesting a half-written file wastes an
// embedding run.
const DefaultSettle = 2 * time.Second

// Watcher ingests supported files that appear in a directory.
type Watcher struct {
	ingest driving.IngestService
	dir    string
	settle time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher over dir.
func New(ingest driving.IngestService, dir string, settle time.Duration) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{
		ingest:  ingest,
		dir:     dir,
		settle:  settle,
		pending: make(map[string]*time.Timer),
	}
}

// Run watches until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("watching %s for new documents", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !domain.SupportedExtension(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// schedule (re)arms the settle timer for a path. Every write event
// pushes ingestion back until the file goes quiet.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if _, _, err := w.ingest.IngestFiles(ctx, []string{path}); err != nil {
			logger.Warn("inbox ingest of %s failed: %v", path, err)
			return
		}
		logger.Info("inbox ingested %s", path)
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
