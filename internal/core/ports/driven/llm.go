package driven

import "context"

// LLMService provides chat completion for the support bot and the
// translator.
type LLMService interface {
	// Chat conducts a conversation and returns the completion text.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request. Used at startup.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// Temperature controls randomness (0.0 = deterministic).
	// Both services run at 0 so answers stay reproducible.
	Temperature float64
}
