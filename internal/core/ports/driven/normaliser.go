package driven

import (
	"context"

	"github.com/ampdesk/ampdesk/internal/core/domain"
)

// Normaliser extracts plain text from one document format.
// Each normaliser handles specific file extensions (e.g. PDF, DOCX).
type Normaliser interface {
	// SupportedExtensions returns the lowercased file extensions
	// this normaliser handles, including the leading dot.
	SupportedExtensions() []string

	// Normalise extracts the plain text of a raw document.
	Normalise(ctx context.Context, raw *domain.RawDocument) (string, error)
}

// CommandRunner executes an external command and returns its stdout.
// Lets normalisers that shell out (PDF extraction) be tested with a
// fake runner.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
