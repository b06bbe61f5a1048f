package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
)

// Ensure KBStore implements the interface.
var _ driven.KBStore = (*KBStore)(nil)

type versionKey struct {
	kbID      string
	versionID string
}

// KBStore is an in-memory implementation of driven.KBStore for testing.
type KBStore struct {
	mu      sync.RWMutex
	metas   map[versionKey]domain.VersionMeta
	sources map[versionKey]map[string]string
}

// NewKBStore creates a new in-memory knowledge-base store.
func NewKBStore() *KBStore {
	return &KBStore{
		metas:   make(map[versionKey]domain.VersionMeta),
		sources: make(map[versionKey]map[string]string),
	}
}

// WriteSource stores normalized source text.
func (s *KBStore) WriteSource(_ context.Context, kbID, versionID, filename, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := versionKey{kbID, versionID}
	if s.sources[key] == nil {
		s.sources[key] = make(map[string]string)
	}
	s.sources[key][filename] = text
	return nil
}

// WriteMeta writes the version metadata record.
func (s *KBStore) WriteMeta(_ context.Context, meta domain.VersionMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metas[versionKey{meta.KBID, meta.VersionID}] = meta
	return nil
}

// ReadMeta returns the metadata for one version or ErrNotFound.
func (s *KBStore) ReadMeta(_ context.Context, kbID, versionID string) (domain.VersionMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, ok := s.metas[versionKey{kbID, versionID}]
	if !ok {
		return domain.VersionMeta{}, fmt.Errorf("version %s/%s: %w", kbID, versionID, domain.ErrNotFound)
	}
	return meta, nil
}

// ListKnowledgeBases returns all knowledge-base ids.
func (s *KBStore) ListKnowledgeBases(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var ids []string
	for key := range s.metas {
		if !seen[key.kbID] {
			seen[key.kbID] = true
			ids = append(ids, key.kbID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ListVersions returns a knowledge base's version ids, sorted.
func (s *KBStore) ListVersions(_ context.Context, kbID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for key := range s.metas {
		if key.kbID == kbID {
			ids = append(ids, key.versionID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ActiveVersion returns the most recent non-archived version id, or ""
// when none exists.
func (s *KBStore) ActiveVersion(_ context.Context, kbID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active domain.VersionMeta
	for key, meta := range s.metas {
		if key.kbID != kbID || meta.Archived {
			continue
		}
		if active.VersionID == "" || meta.CreatedAt.After(active.CreatedAt) {
			active = meta
		}
	}
	return active.VersionID, nil
}

// ArchiveAll marks every version of the knowledge base archived.
func (s *KBStore) ArchiveAll(_ context.Context, kbID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for key, meta := range s.metas {
		if key.kbID != kbID || meta.Archived {
			continue
		}
		meta.Archived = true
		s.metas[key] = meta
		changed = true
	}
	return changed, nil
}

// Size returns the total bytes of stored source text.
func (s *KBStore) Size(_ context.Context, kbID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for key, files := range s.sources {
		if key.kbID != kbID {
			continue
		}
		for _, text := range files {
			total += int64(len(text))
		}
	}
	return total, nil
}

// SampleSources returns up to limit source document names of the given
// version.
func (s *KBStore) SampleSources(_ context.Context, kbID, versionID string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := s.sources[versionKey{kbID, versionID}]
	var names []string
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}
