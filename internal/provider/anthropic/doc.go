// Package anthropic provides a Claude reasoner implementing [scout.Reasoner].
//
// The client sends each reasoning prompt as a single user message and
// returns the text blocks of the reply. API failures are categorized as
// transient, permanent, or user input errors.
//
//	r := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
//	text, err := r.Generate(ctx, prompt, scout.WithTemperature(0.2))
package anthropic
