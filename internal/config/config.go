// Package config loads the ampdesk configuration: defaults, an
// optional TOML file, a local .env file, and AMPDESK_* environment
// overrides, merged into one typed Config constructed at process
// start and passed down explicitly.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// OllamaConfig configures the local LLM runtime clients.
type OllamaConfig struct {
	BaseURL     string  `toml:"base_url"`
	EmbedModel  string  `toml:"embed_model"`
	ChatModel   string  `toml:"chat_model"`
	TimeoutSecs int     `toml:"timeout_secs"`
	EmbedRPS    float64 `toml:"embed_rps"`
}

// Timeout returns the request timeout as a duration.
func (c OllamaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ChromaConfig configures the vector store client.
type ChromaConfig struct {
	URL         string `toml:"url"`
	Collection  string `toml:"collection"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

// Timeout returns the request timeout as a duration.
func (c ChromaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ChunkingConfig configures the heading-aware splitter.
type ChunkingConfig struct {
	MaxChars     int `toml:"max_chars"`
	OverlapChars int `toml:"overlap_chars"`
}

// RetrievalConfig configures retrieval fusion and abstention.
type RetrievalConfig struct {
	KPerKB              int     `toml:"k_per_kb"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
}

// ServerConfig configures the HTTP listeners.
type ServerConfig struct {
	BotAddr        string `toml:"bot_addr"`
	TranslatorAddr string `toml:"translator_addr"`
}

// TranslatorConfig configures the translation service.
type TranslatorConfig struct {
	Model        string `toml:"model"`
	MaxTextChars int    `toml:"max_text_chars"`
}

// WatchConfig configures the optional inbox watcher.
type WatchConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Config is the root configuration.
type Config struct {
	DataRoot   string           `toml:"data_root"`
	Ollama     OllamaConfig     `toml:"ollama"`
	Chroma     ChromaConfig     `toml:"chroma"`
	Chunking   ChunkingConfig   `toml:"chunking"`
	Retrieval  RetrievalConfig  `toml:"retrieval"`
	Server     ServerConfig     `toml:"server"`
	Translator TranslatorConfig `toml:"translator"`
	Watch      WatchConfig      `toml:"watch"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataRoot: "./data",
		Ollama: OllamaConfig{
			BaseURL:     "http://localhost:11434",
			EmbedModel:  "mxbai-embed-large",
			ChatModel:   "llama3:8b",
			TimeoutSecs: 120,
			EmbedRPS:    10,
		},
		Chroma: ChromaConfig{
			URL:         "http://localhost:8000",
			Collection:  "chatbot",
			TimeoutSecs: 30,
		},
		Chunking: ChunkingConfig{
			MaxChars:     2200,
			OverlapChars: 220,
		},
		Retrieval: RetrievalConfig{
			KPerKB:              8,
			ConfidenceThreshold: 0.20,
		},
		Server: ServerConfig{
			BotAddr:        ":8080",
			TranslatorAddr: ":8081",
		},
		Translator: TranslatorConfig{
			Model:        "llama3:8b",
			MaxTextChars: 4000,
		},
		Watch: WatchConfig{
			Enabled: false,
		},
	}
}

// Derived data directories.

// UploadsDir is where multipart uploads are materialized.
func (c Config) UploadsDir() string { return filepath.Join(c.DataRoot, "uploads") }

// KBDir holds knowledge-base version directories.
func (c Config) KBDir() string { return filepath.Join(c.DataRoot, "kb") }

// ChatsDir holds the chat session database.
func (c Config) ChatsDir() string { return filepath.Join(c.DataRoot, "chats") }

// Load builds the configuration: defaults, then the TOML file at path
// (skipped when path is empty and the default file is absent), then a
// .env file if present, then AMPDESK_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	// .env values become visible to the env override pass below.
	// A missing .env is fine.
	_ = godotenv.Load()

	explicit := path != ""
	if path == "" {
		path = "config.toml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file; defaults + env only.
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays AMPDESK_* environment variables.
func applyEnv(cfg *Config) {
	setString(&cfg.DataRoot, "AMPDESK_DATA_ROOT")
	setString(&cfg.Ollama.BaseURL, "AMPDESK_OLLAMA_BASE_URL")
	setString(&cfg.Ollama.EmbedModel, "AMPDESK_EMBED_MODEL")
	setString(&cfg.Ollama.ChatModel, "AMPDESK_CHAT_MODEL")
	setString(&cfg.Chroma.URL, "AMPDESK_CHROMA_URL")
	setString(&cfg.Chroma.Collection, "AMPDESK_CHROMA_COLLECTION")
	setString(&cfg.Server.BotAddr, "AMPDESK_BOT_ADDR")
	setString(&cfg.Server.TranslatorAddr, "AMPDESK_TRANSLATOR_ADDR")
	setString(&cfg.Translator.Model, "AMPDESK_TRANSLATOR_MODEL")
	setString(&cfg.Watch.Dir, "AMPDESK_WATCH_DIR")
	setInt(&cfg.Chunking.MaxChars, "AMPDESK_MAX_CHARS")
	setInt(&cfg.Chunking.OverlapChars, "AMPDESK_OVERLAP_CHARS")
	setInt(&cfg.Retrieval.KPerKB, "AMPDESK_RETRIEVAL_K_PER_KB")
	setFloat(&cfg.Retrieval.ConfidenceThreshold, "AMPDESK_CONFIDENCE_THRESHOLD")
	setBool(&cfg.Watch.Enabled, "AMPDESK_WATCH_ENABLED")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Chunking.MaxChars <= 0 {
		return fmt.Errorf("chunking.max_chars must be positive, got %d", c.Chunking.MaxChars)
	}
	if c.Chunking.OverlapChars < 0 {
		return fmt.Errorf("chunking.overlap_chars must be non-negative, got %d", c.Chunking.OverlapChars)
	}
	if c.Chunking.OverlapChars >= c.Chunking.MaxChars {
		return fmt.Errorf("chunking.overlap_chars (%d) must be smaller than max_chars (%d)",
			c.Chunking.OverlapChars, c.Chunking.MaxChars)
	}
	if c.Retrieval.KPerKB <= 0 {
		return fmt.Errorf("retrieval.k_per_kb must be positive, got %d", c.Retrieval.KPerKB)
	}
	if c.Translator.MaxTextChars <= 0 {
		return fmt.Errorf("translator.max_text_chars must be positive, got %d", c.Translator.MaxTextChars)
	}
	return nil
}
