package port

import "context"

// CompletionInput carries the prompt pair sent to a generation provider.
type CompletionInput struct {
	SystemPrompt string
	UserPrompt   string
}

// CompletionOutput contains the text produced by a generation provider.
type CompletionOutput struct {
	Text        string
	ModelUsed   string
	TotalTokens int
}

// GenerationProvider abstracts a remote chat-completion API.
type GenerationProvider interface {
	Name() string
	Complete(ctx context.Context, input CompletionInput) (*CompletionOutput, error)
}
