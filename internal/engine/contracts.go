package engine

import "context"

// Request is a single generation call to a translation engine.
type Request struct {
	Model     string
	MaxTokens int
	Prompt    string
}

// Engine sends one prompt to a language-model service and returns the
// generated text. Implementations return only the first text block of the
// response; everything else the provider sends is ignored.
type Engine interface {
	Generate(ctx context.Context, req Request) (string, error)
}
