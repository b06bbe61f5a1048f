package services

import (
	"context"
	"fmt"

	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
)

// stubEmbedder returns small deterministic vectors. Failing texts
// yield empty entries like the real adapter.
type stubEmbedder struct {
	model   string
	failAll bool
	vector  []float32
}

var _ driven.EmbeddingService = (*stubEmbedder)(nil)

func newStubEmbedder() *stubEmbedder {
	return &stubEmbedder{model: "stub-embed", vector: []float32{0.1, 0.2, 0.3}}
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.failAll {
		return nil, fmt.Errorf("embedder down")
	}
	out := make([]float32, len(s.vector))
	copy(out, s.vector)
	// Nudge the first component so different texts differ.
	out[0] += float32(len(text)%7) / 100
	return out, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	if s.failAll {
		return out, nil
	}
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			continue
		}
		out[i] = vec
	}
	return out, nil
}

func (s *stubEmbedder) ModelName() string          { return s.model }
func (s *stubEmbedder) Ping(context.Context) error { return nil }
func (s *stubEmbedder) Close() error               { return nil }

// stubLLM replays a canned reply and records the messages it saw.
type stubLLM struct {
	reply    string
	err      error
	messages []driven.ChatMessage
	options  driven.ChatOptions
}

var _ driven.LLMService = (*stubLLM)(nil)

func (s *stubLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	s.messages = messages
	s.options = opts
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubLLM) ModelName() string          { return "stub-llm" }
func (s *stubLLM) Ping(context.Context) error { return nil }
func (s *stubLLM) Close() error               { return nil }

// stubDetector reports a fixed language.
type stubDetector struct {
	name string
	ok   bool
}

var _ driven.LanguageDetector = (*stubDetector)(nil)

func (s *stubDetector) Detect(string) (string, bool) { return s.name, s.ok }
