package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
)

// Ensure ChatStore implements the interface.
var _ driven.ChatStore = (*ChatStore)(nil)

// ChatStore is an in-memory implementation of driven.ChatStore for
// testing.
type ChatStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.ChatSession
	messages map[string][]domain.ChatMessage
}

// NewChatStore creates a new in-memory chat store.
func NewChatStore() *ChatStore {
	return &ChatStore{
		sessions: make(map[string]domain.ChatSession),
		messages: make(map[string][]domain.ChatMessage),
	}
}

// CreateChat creates a new session.
func (s *ChatStore) CreateChat(_ context.Context) (domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	session := domain.ChatSession{
		ID:        ulid.Make().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[session.ID] = session
	return session, nil
}

// GetChat returns the session or ErrNotFound.
func (s *ChatStore) GetChat(_ context.Context, chatID string) (domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return domain.ChatSession{}, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}
	return session, nil
}

// AppendMessage appends one message and bumps the session's updated
// timestamp.
func (s *ChatStore) AppendMessage(_ context.Context, chatID, role, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}

	now := time.Now().UTC()
	session.UpdatedAt = now
	s.sessions[chatID] = session
	s.messages[chatID] = append(s.messages[chatID], domain.ChatMessage{
		Role: role,
		Text: text,
		At:   now,
	})
	return nil
}

// Messages returns up to limit most recent messages, oldest first.
func (s *ChatStore) Messages(_ context.Context, chatID string, limit int) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.messages[chatID]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]domain.ChatMessage, len(all))
	copy(out, all)
	return out, nil
}

// Close releases resources.
func (s *ChatStore) Close() error {
	return nil
}
