package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampdesk/ampdesk/internal/adapters/driven/storage/memory"
	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
)

type chatFixture struct {
	svc   *ChatService
	llm   *stubLLM
	chats *memory.ChatStore
}

func newChatFixture(t *testing.T, reply string) *chatFixture {
	t.Helper()
	ctx := context.Background()

	vectors := memory.NewVectorStore()
	require.NoError(t, vectors.EnsureCollection(ctx, "chatbot", nil))
	require.NoError(t, vectors.Upsert(ctx, "chatbot", []driven.VectorRecord{
		{
			ID:        "refunds.md::chunk0",
			Embedding: []float32{1, 0},
			Document:  "Refunds are processed within 5 business days of the request.",
			Metadata:  map[string]string{"doc": "refunds.md", "title": "Refunds", "kb_id": "billing"},
		},
		{
			ID:        "invoices.md::chunk0",
			Embedding: []float32{0.8, 0.2},
			Document:  "Invoices are emailed monthly to the billing contact.",
			Metadata:  map[string]string{"doc": "invoices.md", "title": "Invoices", "kb_id": "billing"},
		},
	}))

	retriever := NewRetriever(&fixedEmbedder{vector: []float32{1, 0}}, vectors, RetrieverConfig{KPerKB: 8})
	llm := &stubLLM{reply: reply}
	chats := memory.NewChatStore()
	svc := NewChatService(retriever, llm, chats, ChatConfig{ConfidenceThreshold: 0.20})
	return &chatFixture{svc: svc, llm: llm, chats: chats}
}

func TestStart(t *testing.T) {
	f := newChatFixture(t, "Refunds take 5 business days [1].")

	reply, err := f.svc.Start(context.Background(), "How long do refunds take?")

	require.NoError(t, err)
	assert.NotEmpty(t, reply.ChatID)
	assert.Equal(t, "Refunds take 5 business days [1].", reply.Reply)
	assert.False(t, reply.Abstained)
	assert.False(t, reply.RaiseTicket)
	require.Len(t, reply.Citations, 1)
	assert.Equal(t, "refunds.md", reply.Citations[0].Doc)

	// Both turns are logged.
	history, err := f.svc.History(context.Background(), reply.ChatID, 50)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
}

func TestStart_PromptShape(t *testing.T) {
	f := newChatFixture(t, "ok")

	_, err := f.svc.Start(context.Background(), "How long do refunds take?")

	require.NoError(t, err)
	require.Len(t, f.llm.messages, 2)
	assert.Equal(t, domain.RoleSystem, f.llm.messages[0].Role)
	assert.Contains(t, f.llm.messages[0].Content, "support assistant")
	assert.Contains(t, f.llm.messages[1].Content, "[1] refunds.md")
	assert.Contains(t, f.llm.messages[1].Content, "How long do refunds take?")
	assert.Zero(t, f.llm.options.Temperature)
}

func TestReply_UnknownChat(t *testing.T) {
	f := newChatFixture(t, "ok")

	_, err := f.svc.Reply(context.Background(), "missing", "hello")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReply_ContinuesSession(t *testing.T) {
	f := newChatFixture(t, "First answer.")

	started, err := f.svc.Start(context.Background(), "How long do refunds take?")
	require.NoError(t, err)

	f.llm.reply = "Second answer."
	reply, err := f.svc.Reply(context.Background(), started.ChatID, "And invoices?")
	require.NoError(t, err)

	assert.Equal(t, started.ChatID, reply.ChatID)
	history, err := f.svc.History(context.Background(), started.ChatID, 50)
	require.NoError(t, err)
	assert.Len(t, history, 4)
}

func TestAnswer_AbstainsOnModelDeclaration(t *testing.T) {
	f := newChatFixture(t, "I do not have enough information to answer that.")

	reply, err := f.svc.Start(context.Background(), "What is the meaning of life?")

	require.NoError(t, err)
	assert.True(t, reply.Abstained)
}

func TestAnswer_AbstainsOnLowConfidence(t *testing.T) {
	// No vectors at all: confidence stays zero.
	retriever := NewRetriever(&fixedEmbedder{vector: []float32{1}}, memory.NewVectorStore(), RetrieverConfig{})
	svc := NewChatService(retriever, &stubLLM{reply: "Confident-sounding nonsense."}, memory.NewChatStore(), ChatConfig{ConfidenceThreshold: 0.20})

	reply, err := svc.Start(context.Background(), "anything")

	require.NoError(t, err)
	assert.True(t, reply.Abstained)
	assert.Empty(t, reply.Citations)
}

func TestAnswer_RaiseTicket(t *testing.T) {
	f := newChatFixture(t, "Let me connect you.")

	reply, err := f.svc.Start(context.Background(), "This isn't helpful, I want to talk to agent")

	require.NoError(t, err)
	assert.True(t, reply.RaiseTicket)
}

func TestExtractCitations_Markers(t *testing.T) {
	items := []domain.RetrievalItem{
		{Doc: "a.md", Text: "alpha", Score: 0.9},
		{Doc: "b.md", Text: "beta", Score: 0.8},
		{Doc: "c.md", Text: "gamma", Score: 0.7},
	}

	citations := extractCitations(items, "See [2] and [3], also [9] which is out of range.")

	require.Len(t, citations, 2)
	assert.Equal(t, "b.md", citations[0].Doc)
	assert.Equal(t, "c.md", citations[1].Doc)
}

func TestExtractCitations_Fallback(t *testing.T) {
	items := []domain.RetrievalItem{
		{Doc: "a.md", Text: strings.Repeat("x", 500), Score: 0.9},
		{Doc: "b.md", Text: "beta", Score: 0.8},
	}

	citations := extractCitations(items, "No markers in this reply.")

	require.Len(t, citations, 2)
	assert.Equal(t, "a.md", citations[0].Doc)
	assert.Len(t, citations[0].Snippet, citationSnippetChars)
}

func TestHistory_UnknownChat(t *testing.T) {
	f := newChatFixture(t, "ok")

	_, err := f.svc.History(context.Background(), "missing", 50)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
