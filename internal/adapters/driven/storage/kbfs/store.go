// Package kbfs stores knowledge-base versions on the local filesystem.
//
// Layout:
//
//	<root>/<kb_id>/versions/<version_id>/meta.json
//	<root>/<kb_id>/versions/<version_id>/source/<filename>
//
// meta.json is written last so a version directory without it is an
// aborted ingestion and is ignored by listing.
package kbfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
)

var _ driven.KBStore = (*Store)(nil)

const metaFilename = "meta.json"

// Store is a filesystem-backed knowledge-base version store.
type Store struct {
	root string
}

// New creates a store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating kb root: %w", err)
	}
	return &Store{root: dir}, nil
}

// Root returns the store's base directory.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) versionDir(kbID, versionID string) string {
	return filepath.Join(s.root, kbID, "versions", versionID)
}

// WriteSource persists normalized source text under the version's
// source directory.
func (s *Store) WriteSource(_ context.Context, kbID, versionID, filename, text string) error {
	dir := filepath.Join(s.versionDir(kbID, versionID), "source")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating source directory: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing source %s: %w", filename, err)
	}
	return nil
}

// WriteMeta writes the version metadata record.
func (s *Store) WriteMeta(_ context.Context, meta domain.VersionMeta) error {
	dir := s.versionDir(meta.KBID, meta.VersionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating version directory: %w", err)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling meta: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, metaFilename), data, 0o644); err != nil {
		return fmt.Errorf("writing meta: %w", err)
	}
	return nil
}

// ReadMeta returns the metadata for one version or ErrNotFound.
func (s *Store) ReadMeta(_ context.Context, kbID, versionID string) (domain.VersionMeta, error) {
	data, err := os.ReadFile(filepath.Join(s.versionDir(kbID, versionID), metaFilename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.VersionMeta{}, fmt.Errorf("version %s/%s: %w", kbID, versionID, domain.ErrNotFound)
		}
		return domain.VersionMeta{}, fmt.Errorf("reading meta: %w", err)
	}

	var meta domain.VersionMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return domain.VersionMeta{}, fmt.Errorf("parsing meta for %s/%s: %w", kbID, versionID, err)
	}
	return meta, nil
}

// ListKnowledgeBases returns all knowledge-base ids.
func (s *Store) ListKnowledgeBases(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading kb root: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ListVersions returns a knowledge base's version ids, sorted. Empty
// for unknown knowledge bases.
func (s *Store) ListVersions(ctx context.Context, kbID string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, kbID, "versions"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading versions of %s: %w", kbID, err)
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		// Skip aborted ingestions without meta.json.
		if _, err := s.ReadMeta(ctx, kbID, entry.Name()); err != nil {
			continue
		}
		ids = append(ids, entry.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// ActiveVersion returns the most recent non-archived version id, or ""
// when none exists. Derived from the metadata, never stored.
func (s *Store) ActiveVersion(ctx context.Context, kbID string) (string, error) {
	versions, err := s.ListVersions(ctx, kbID)
	if err != nil {
		return "", err
	}

	var active domain.VersionMeta
	for _, versionID := range versions {
		meta, err := s.ReadMeta(ctx, kbID, versionID)
		if err != nil {
			return "", err
		}
		if meta.Archived {
			continue
		}
		if active.VersionID == "" || meta.CreatedAt.After(active.CreatedAt) {
			active = meta
		}
	}
	return active.VersionID, nil
}

// ArchiveAll marks every version of the knowledge base archived.
func (s *Store) ArchiveAll(ctx context.Context, kbID string) (bool, error) {
	versions, err := s.ListVersions(ctx, kbID)
	if err != nil {
		return false, err
	}

	changed := false
	for _, versionID := range versions {
		meta, err := s.ReadMeta(ctx, kbID, versionID)
		if err != nil {
			return changed, err
		}
		if meta.Archived {
			continue
		}
		meta.Archived = true
		if err := s.WriteMeta(ctx, meta); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}

// Size returns the total bytes under the knowledge base's version
// directories.
func (s *Store) Size(_ context.Context, kbID string) (int64, error) {
	var total int64
	root := filepath.Join(s.root, kbID)
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("walking %s: %w", kbID, err)
	}
	return total, nil
}

// SampleSources returns up to limit source document names of the given
// version.
func (s *Store) SampleSources(_ context.Context, kbID, versionID string, limit int) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.versionDir(kbID, versionID), "source"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading sources of %s/%s: %w", kbID, versionID, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
		if len(names) == limit {
			break
		}
	}
	return names, nil
}
