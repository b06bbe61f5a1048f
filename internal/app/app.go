// Package app is the composition root: it builds the adapter stack
// from configuration and hands ready services to the entrypoints.
package app

import (
	"fmt"

	"github.com/ampdesk/ampdesk/internal/adapters/driven/embedding/ollama"
	"github.com/ampdesk/ampdesk/internal/adapters/driven/langdetect/lingua"
	llmollama "github.com/ampdesk/ampdesk/internal/adapters/driven/llm/ollama"
	"github.com/ampdesk/ampdesk/internal/adapters/driven/storage/kbfs"
	"github.com/ampdesk/ampdesk/internal/adapters/driven/storage/sqlite"
	"github.com/ampdesk/ampdesk/internal/adapters/driven/vector/chroma"
	"github.com/ampdesk/ampdesk/internal/config"
	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/services"
	"github.com/ampdesk/ampdesk/internal/normalisers"
)

// App holds the wired service graph.
type App struct {
	Config config.Config

	Ingest    *services.IngestService
	KB        *services.KBService
	Chat      *services.ChatService
	Translate *services.TranslateService

	chats   *sqlite.ChatStore
	vectors *chroma.Store
}

// New wires the full application from configuration.
func New(cfg config.Config) (*App, error) {
	embedder := ollama.NewEmbeddingService(ollama.Config{
		BaseURL:           cfg.Ollama.BaseURL,
		Model:             cfg.Ollama.EmbedModel,
		Timeout:           cfg.Ollama.Timeout(),
		RequestsPerSecond: cfg.Ollama.EmbedRPS,
	})
	chatLLM := llmollama.NewLLMService(llmollama.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.ChatModel,
		Timeout: cfg.Ollama.Timeout(),
	})
	translatorLLM := llmollama.NewLLMService(llmollama.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Translator.Model,
		Timeout: cfg.Ollama.Timeout(),
	})

	vectors := chroma.New(chroma.Config{
		URL:     cfg.Chroma.URL,
		Timeout: cfg.Chroma.Timeout(),
	})

	kbStore, err := kbfs.New(cfg.KBDir())
	if err != nil {
		return nil, fmt.Errorf("opening kb store: %w", err)
	}
	chats, err := sqlite.NewChatStore(cfg.ChatsDir())
	if err != nil {
		return nil, fmt.Errorf("opening chat store: %w", err)
	}

	chunking := domain.ChunkingParams{
		Mode:         "heading_aware",
		MaxChars:     cfg.Chunking.MaxChars,
		OverlapChars: cfg.Chunking.OverlapChars,
	}

	ingest := services.NewIngestService(
		normalisers.NewDefaultRegistry(),
		embedder,
		vectors,
		kbStore,
		services.IngestConfig{Collection: cfg.Chroma.Collection, Chunking: chunking},
	)
	retriever := services.NewRetriever(embedder, vectors, services.RetrieverConfig{
		Collection: cfg.Chroma.Collection,
		KPerKB:     cfg.Retrieval.KPerKB,
	})
	chat := services.NewChatService(retriever, chatLLM, chats, services.ChatConfig{
		ConfidenceThreshold: cfg.Retrieval.ConfidenceThreshold,
	})
	kb := services.NewKBService(kbStore, vectors, cfg.Chroma.Collection)
	translate := services.NewTranslateService(translatorLLM, lingua.New(), services.TranslateConfig{
		MaxTextChars: cfg.Translator.MaxTextChars,
	})

	return &App{
		Config:    cfg,
		Ingest:    ingest,
		KB:        kb,
		Chat:      chat,
		Translate: translate,
		chats:     chats,
		vectors:   vectors,
	}, nil
}

// Close releases held resources.
func (a *App) Close() error {
	var firstErr error
	if err := a.chats.Close(); err != nil {
		firstErr = err
	}
	if err := a.vectors.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
