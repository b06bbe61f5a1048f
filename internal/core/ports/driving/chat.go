package driving

import (
	"context"

	"github.com/ampdesk/ampdesk/internal/core/domain"
)

// ChatService runs retrieval-augmented support conversations.
type ChatService interface {
	// Start creates a session and answers the first user message.
	Start(ctx context.Context, message string) (domain.ChatReply, error)

	// Reply answers a follow-up message in an existing session.
	// ErrNotFound for unknown chat ids.
	Reply(ctx context.Context, chatID, message string) (domain.ChatReply, error)

	// History returns up to limit messages of a session, oldest
	// first. ErrNotFound for unknown chat ids.
	History(ctx context.Context, chatID string, limit int) ([]domain.ChatMessage, error)
}
