package driven

import (
	"context"

	"github.com/ampdesk/ampdesk/internal/core/domain"
)

// ChatStore persists chat sessions and their message logs.
type ChatStore interface {
	// CreateChat creates a new session and returns it.
	CreateChat(ctx context.Context) (domain.ChatSession, error)

	// GetChat returns the session or ErrNotFound.
	GetChat(ctx context.Context, chatID string) (domain.ChatSession, error)

	// AppendMessage appends one message and bumps the session's
	// updated timestamp.
	AppendMessage(ctx context.Context, chatID, role, text string) error

	// Messages returns up to limit most recent messages,
	// oldest first.
	Messages(ctx context.Context, chatID string, limit int) ([]domain.ChatMessage, error)

	// Close releases resources.
	Close() error
}
