package driving

import "context"

// TranslateRequest is one guarded translation call.
type TranslateRequest struct {
	// Text is the text to translate.
	Text string

	// TargetLang is a language code or name that must resolve
	// through the canonical language table.
	TargetLang string

	// SourceLang optionally hints the source language. When empty
	// the model infers it.
	SourceLang string
}

// TranslateService translates text with output guardrails.
type TranslateService interface {
	// Translate returns the translated text or a guardrail error:
	// ErrInvalidInput (unsupported target), ErrTextTooLarge,
	// ErrUpstream (model failure/empty output), ErrOutputRejected
	// (explanation markers or wrong output language).
	Translate(ctx context.Context, req TranslateRequest) (string, error)
}
