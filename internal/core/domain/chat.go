package domain

import "time"

// Message roles within a chat session.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatSession is a conversation between a user and the support bot.
// Messages are an append-only log; sessions are never deleted.
type ChatSession struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ChatMessage is one turn in a session.
type ChatMessage struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"ts"`
}

// Citation points a reply back at a retrieved context item.
type Citation struct {
	Doc     string  `json:"doc"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// ChatReply is the outcome of one support-bot turn.
type ChatReply struct {
	ChatID string `json:"chat_id"`

	// Reply is the model answer.
	Reply string `json:"reply"`

	// Citations map the reply back to retrieved context.
	Citations []Citation `json:"citations"`

	// Abstained is set when retrieval confidence fell below the
	// threshold or the model declared it lacked information.
	Abstained bool `json:"abstained"`

	// LatencyMS is the chat-completion round trip in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// RaiseTicket is set when the user message trips the
	// dissatisfaction detector and should be escalated.
	RaiseTicket bool `json:"is_raise_ticket"`
}
