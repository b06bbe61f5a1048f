package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampdesk/ampdesk/internal/core/domain"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func TestSupportedExtensions(t *testing.T) {
	n := New(&mockRunner{})
	assert.Equal(t, []string{".pdf"}, n.SupportedExtensions())
}

func TestNormalise_NilDocument(t *testing.T) {
	n := New(&mockRunner{})

	out, err := n.Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, out)
}

func TestNormalise_ReturnsTrimmedStdout(t *testing.T) {
	n := New(&mockRunner{output: []byte("Page one text\n\n\f")})

	out, err := n.Normalise(context.Background(), &domain.RawDocument{
		Filename: "doc.pdf",
		Path:     "/tmp/doc.pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, "Page one text", out)
}

func TestNormalise_RunnerFailure(t *testing.T) {
	n := New(&mockRunner{err: errors.New("pdftotext not installed")})

	_, err := n.Normalise(context.Background(), &domain.RawDocument{
		Filename: "doc.pdf",
		Path:     "/tmp/doc.pdf",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract pdf text")
}

func TestNormalise_BytesOnlyDocumentUsesTempFile(t *testing.T) {
	n := New(&mockRunner{output: []byte("from bytes")})

	out, err := n.Normalise(context.Background(), &domain.RawDocument{
		Filename: "doc.pdf",
		Content:  []byte("%PDF-1.4 fake"),
	})

	require.NoError(t, err)
	assert.Equal(t, "from bytes", out)
}
