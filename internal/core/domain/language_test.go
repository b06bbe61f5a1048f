package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"en", "English", true},
		{"English", "English", true},
		{"  english  ", "English", true},
		{"TH", "Thai", true},
		{"zh-cn", "Chinese", true},
		{"zh-TW", "Chinese", true},
		{"xx", "", false},
		{"", "", false},
		{"klingon", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			canon, ok := CanonicalLanguage(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, canon)
		})
	}
}

func TestAllowedTargetLanguages(t *testing.T) {
	langs := AllowedTargetLanguages()

	require.NotEmpty(t, langs)
	assert.Contains(t, langs, "English")
	assert.Contains(t, langs, "Thai")
	assert.Contains(t, langs, "Malay")
	assert.IsIncreasing(t, langs)

	// Display names are unique.
	seen := map[string]bool{}
	for _, l := range langs {
		assert.False(t, seen[l], "duplicate language %s", l)
		seen[l] = true
	}
}
