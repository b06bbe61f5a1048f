package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 2200, cfg.Chunking.MaxChars)
	assert.Equal(t, 220, cfg.Chunking.OverlapChars)
	assert.Equal(t, 8, cfg.Retrieval.KPerKB)
	assert.InDelta(t, 0.20, cfg.Retrieval.ConfidenceThreshold, 1e-9)
	assert.Equal(t, "mxbai-embed-large", cfg.Ollama.EmbedModel)
	assert.Equal(t, "llama3:8b", cfg.Ollama.ChatModel)
	assert.Equal(t, "chatbot", cfg.Chroma.Collection)
	assert.Equal(t, 4000, cfg.Translator.MaxTextChars)
	assert.False(t, cfg.Watch.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
data_root = "/srv/ampdesk"

[chunking]
max_chars = 1000
overlap_chars = 100

[ollama]
base_url = "http://ollama:11434"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/srv/ampdesk", cfg.DataRoot)
	assert.Equal(t, 1000, cfg.Chunking.MaxChars)
	assert.Equal(t, 100, cfg.Chunking.OverlapChars)
	assert.Equal(t, "http://ollama:11434", cfg.Ollama.BaseURL)
	// Untouched sections keep defaults.
	assert.Equal(t, 8, cfg.Retrieval.KPerKB)
}

func TestLoad_MissingExplicitFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AMPDESK_MAX_CHARS", "500")
	t.Setenv("AMPDESK_EMBED_MODEL", "nomic-embed-text")
	t.Setenv("AMPDESK_WATCH_ENABLED", "true")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Chunking.MaxChars)
	assert.Equal(t, "nomic-embed-text", cfg.Ollama.EmbedModel)
	assert.True(t, cfg.Watch.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(*Config) {}, false},
		{"zero max chars", func(c *Config) { c.Chunking.MaxChars = 0 }, true},
		{"negative overlap", func(c *Config) { c.Chunking.OverlapChars = -1 }, true},
		{"overlap >= max", func(c *Config) { c.Chunking.OverlapChars = c.Chunking.MaxChars }, true},
		{"zero k", func(c *Config) { c.Retrieval.KPerKB = 0 }, true},
		{"zero translator cap", func(c *Config) { c.Translator.MaxTextChars = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDerivedDirs(t *testing.T) {
	cfg := Default()
	cfg.DataRoot = "/data"

	assert.Equal(t, filepath.Join("/data", "uploads"), cfg.UploadsDir())
	assert.Equal(t, filepath.Join("/data", "kb"), cfg.KBDir())
	assert.Equal(t, filepath.Join("/data", "chats"), cfg.ChatsDir())
}
