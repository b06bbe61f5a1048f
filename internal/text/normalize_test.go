package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "crlf to lf",
			input:    "line one\r\nline two",
			expected: "line one\nline two",
		},
		{
			name:     "bare cr to lf",
			input:    "line one\rline two",
			expected: "line one\nline two",
		},
		{
			name:     "strips leading bom",
			input:    "\uFEFF# Title\nBody",
			expected: "# Title\nBody",
		},
		{
			name:     "collapses three newlines to two",
			input:    "para one\n\n\npara two",
			expected: "para one\n\npara two",
		},
		{
			name:     "collapses many newlines to two",
			input:    "para one\n\n\n\n\n\npara two",
			expected: "para one\n\npara two",
		},
		{
			name:     "trims surrounding whitespace",
			input:    "  \n\nbody text\n\n  ",
			expected: "body text",
		},
		{
			name:     "preserves double newlines",
			input:    "a\n\nb",
			expected: "a\n\nb",
		},
		{
			name:     "mixed endings and blanks",
			input:    "\uFEFFa\r\n\r\n\r\nb\rc",
			expected: "a\n\nb\nc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_WhitespaceOnly(t *testing.T) {
	assert.Equal(t, "", Normalize(" \r\n \n\n\n "))
}
