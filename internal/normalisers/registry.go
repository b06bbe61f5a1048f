package normalisers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ampdesk/ampdesk/internal/adapters/driven/runner"
	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
	"github.com/ampdesk/ampdesk/internal/normalisers/docx"
	"github.com/ampdesk/ampdesk/internal/normalisers/markdown"
	"github.com/ampdesk/ampdesk/internal/normalisers/pdf"
)

// Registry routes files to normalisers by extension.
type Registry struct {
	byExt map[string]driven.Normaliser
}

// NewRegistry creates a registry with the given normalisers.
// Later registrations win on extension collisions.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{byExt: make(map[string]driven.Normaliser)}
	for _, n := range normalisers {
		for _, ext := range n.SupportedExtensions() {
			r.byExt[strings.ToLower(ext)] = n
		}
	}
	return r
}

// NewDefaultRegistry creates a registry with the built-in
// markdown, PDF, and DOCX normalisers.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		markdown.New(),
		pdf.New(runner.New()),
		docx.New(),
	)
}

// ForPath returns the normaliser for the path's extension, or
// ErrInvalidInput for unsupported file types.
func (r *Registry) ForPath(path string) (driven.Normaliser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	n, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, ext)
	}
	return n, nil
}

// Extensions returns the registered extensions, for diagnostics.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}
