package services

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/ampdesk/ampdesk/internal/core/domain"
)

// Digest sizes. File and manifest digests are 128-bit; the version
// digest is truncated to 48 bits because it only feeds a short
// human-readable id.
const (
	fileDigestSize    = 16
	versionDigestSize = 6
)

// ComputeManifest hashes the given files into a deterministic
// manifest. Files with unsupported extensions are skipped, so a call
// with only unsupported inputs yields an empty manifest rather than an
// error. A missing file is ErrNotFound.
func ComputeManifest(paths []string) (domain.Manifest, error) {
	var manifest domain.Manifest
	for _, path := range paths {
		if !domain.SupportedExtension(path) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return domain.Manifest{}, fmt.Errorf("source file %s: %w", path, domain.ErrNotFound)
			}
			return domain.Manifest{}, fmt.Errorf("reading %s: %w", path, err)
		}

		digest, err := hashBytes(data, fileDigestSize)
		if err != nil {
			return domain.Manifest{}, err
		}
		manifest.Files = append(manifest.Files, domain.ManifestEntry{
			Path:   filepath.Base(path),
			Digest: digest,
			Size:   int64(len(data)),
		})
		manifest.Bytes += int64(len(data))
	}

	if manifest.Empty() {
		return manifest, nil
	}

	sort.Slice(manifest.Files, func(i, j int) bool {
		return manifest.Files[i].Path < manifest.Files[j].Path
	})

	encoded, err := json.Marshal(manifest.Files)
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("encoding manifest: %w", err)
	}
	if manifest.Digest, err = hashBytes(encoded, fileDigestSize); err != nil {
		return domain.Manifest{}, err
	}
	return manifest, nil
}

// VersionID derives the deterministic version id for a manifest,
// chunking configuration, and embedding model. The same inputs on the
// same UTC day produce the same id, making re-ingestion idempotent.
func VersionID(manifestDigest string, chunking domain.ChunkingParams, embedModel string, now time.Time) (string, string, error) {
	payload := fmt.Sprintf("%s|max%d|ov%d|embed:%s",
		manifestDigest, chunking.MaxChars, chunking.OverlapChars, embedModel)

	digest, err := hashBytes([]byte(payload), versionDigestSize)
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("%s--b3_%s", now.UTC().Format("2006-01-02"), digest), digest, nil
}

func hashBytes(data []byte, size int) (string, error) {
	h, err := blake2b.New(size, nil)
	if err != nil {
		return "", fmt.Errorf("creating digest: %w", err)
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
