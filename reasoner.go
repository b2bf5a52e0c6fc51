package scout

import "context"

// Reasoner produces free-form text for a prompt. Implementations live in
// the provider packages; the reasoning loop only depends on this interface.
type Reasoner interface {
	Generate(ctx context.Context, prompt string, opts ...Option) (string, error)
}

// ReasonerFunc adapts a function to the Reasoner interface.
type ReasonerFunc func(ctx context.Context, prompt string, opts ...Option) (string, error)

// Generate calls f.
func (f ReasonerFunc) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return f(ctx, prompt, opts...)
}
