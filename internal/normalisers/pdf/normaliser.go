// Package pdf provides text extraction for PDF documents using the
// external pdftotext tool (poppler-utils).
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF documents by shelling out to pdftotext.
type Normaliser struct {
	runner driven.CommandRunner
}

// New creates a new PDF normaliser with the given command runner.
func New(runner driven.CommandRunner) *Normaliser {
	return &Normaliser{runner: runner}
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Normalise extracts the text layer of a PDF. The raw bytes are
// written to a temp file when the document has no on-disk path,
// because pdftotext reads from a file.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}

	path := raw.Path
	if path == "" {
		tmp, err := os.CreateTemp("", "ampdesk-*.pdf")
		if err != nil {
			return "", fmt.Errorf("create temp pdf: %w", err)
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.Write(raw.Content); err != nil {
			tmp.Close()
			return "", fmt.Errorf("write temp pdf: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return "", fmt.Errorf("close temp pdf: %w", err)
		}
		path = tmp.Name()
	}

	// "-" writes the extracted text to stdout.
	out, err := n.runner.Run(ctx, "pdftotext", "-layout", filepath.Clean(path), "-")
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
