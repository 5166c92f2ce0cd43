package core

import "context"

// Completer performs a single non-streaming chat completion and returns the raw reply text.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}

// ModelLister lists model identifiers available at the provider, in provider order.
type ModelLister interface {
	Models(ctx context.Context) ([]string, error)
}
