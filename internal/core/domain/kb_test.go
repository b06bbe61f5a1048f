package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugifyFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "plain markdown file",
			input:    "Manual.md",
			expected: "manual",
		},
		{
			name:     "spaces become hyphens",
			input:    "User Guide.pdf",
			expected: "user-guide",
		},
		{
			name:     "underscores and hyphens kept",
			input:    "release_notes-v2.docx",
			expected: "release_notes-v2",
		},
		{
			name:     "path stripped to base name",
			input:    "/tmp/uploads/Faq.md",
			expected: "faq",
		},
		{
			name:    "illegal characters rejected",
			input:   "notes!.md",
			wantErr: true,
		},
		{
			name:    "empty base name rejected",
			input:   ".md",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, err := SlugifyFilename(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, slug)
		})
	}
}

func TestSupportedExtension(t *testing.T) {
	assert.True(t, SupportedExtension("a.md"))
	assert.True(t, SupportedExtension("b.PDF"))
	assert.True(t, SupportedExtension("dir/c.docx"))
	assert.False(t, SupportedExtension("d.txt"))
	assert.False(t, SupportedExtension("e"))
}

func TestManifestEmpty(t *testing.T) {
	assert.True(t, Manifest{}.Empty())
	assert.False(t, Manifest{Files: []ManifestEntry{{Path: "a.md"}}}.Empty())
}

func TestChunkID(t *testing.T) {
	assert.Equal(t, "guide.md::chunk0", ChunkID("guide.md", 0))
	assert.Equal(t, "guide.md::chunk12", ChunkID("guide.md", 12))
}
