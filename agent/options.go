package agent

import (
	"log/slog"
	"time"

	ai "github.com/spetersoncode/scout"
)

// Defaults for the loop bounds.
const (
	DefaultMaxIterations = 10
	DefaultResultLimit   = 2000
	DefaultPreviewLimit  = 500
	DefaultFallbackLimit = 300
)

// Options contains configuration for an Agent.
type Options struct {
	// MaxIterations bounds the number of tool calls per question. Default is 10.
	MaxIterations int

	// ResultLimit caps each tool result kept for the reasoner, in characters. Default is 2000.
	ResultLimit int

	// PreviewLimit caps the tool result shown in ToolResult events. Default is 500.
	PreviewLimit int

	// FallbackLimit caps each result quoted in a synthesized answer. Default is 300.
	FallbackLimit int

	// Instructions opens every prompt. Default is DefaultInstructions.
	Instructions string

	// Timeout bounds the whole question. Zero means only ctx applies.
	Timeout time.Duration

	// HistoryLimit is the number of turns kept in the rolling history. Default is 20.
	HistoryLimit int

	// ReasonerOptions are passed to every Generate call.
	ReasonerOptions []ai.Option

	Logger *slog.Logger
}

// Option is a functional option for configuring an Agent.
type Option func(*Options)

// WithMaxIterations sets the maximum number of tool calls per question.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		o.MaxIterations = n
	}
}

// WithResultLimit sets the per-result character cap kept for the reasoner.
func WithResultLimit(n int) Option {
	return func(o *Options) {
		o.ResultLimit = n
	}
}

// WithPreviewLimit sets the character cap of ToolResult previews.
func WithPreviewLimit(n int) Option {
	return func(o *Options) {
		o.PreviewLimit = n
	}
}

// WithFallbackLimit sets the per-result character cap of synthesized answers.
func WithFallbackLimit(n int) Option {
	return func(o *Options) {
		o.FallbackLimit = n
	}
}

// WithInstructions replaces the instructions that open every prompt.
func WithInstructions(s string) Option {
	return func(o *Options) {
		o.Instructions = s
	}
}

// WithTimeout sets a deadline for each question.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithHistoryLimit sets how many turns the rolling history keeps.
func WithHistoryLimit(n int) Option {
	return func(o *Options) {
		o.HistoryLimit = n
	}
}

// WithReasonerOptions passes options through to the Reasoner.
func WithReasonerOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.ReasonerOptions = append(o.ReasonerOptions, opts...)
	}
}

// WithModel is a convenience option to set the reasoner model.
func WithModel(model string) Option {
	return WithReasonerOptions(ai.WithModel(model))
}

// WithTemperature is a convenience option to set the reasoner temperature.
func WithTemperature(t float64) Option {
	return WithReasonerOptions(ai.WithTemperature(t))
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// ApplyOptions applies functional options to an Options struct with defaults.
// Non-positive limits fall back to their defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxIterations: DefaultMaxIterations,
		ResultLimit:   DefaultResultLimit,
		PreviewLimit:  DefaultPreviewLimit,
		FallbackLimit: DefaultFallbackLimit,
		Instructions:  DefaultInstructions,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.ResultLimit <= 0 {
		o.ResultLimit = DefaultResultLimit
	}
	if o.PreviewLimit <= 0 {
		o.PreviewLimit = DefaultPreviewLimit
	}
	if o.FallbackLimit <= 0 {
		o.FallbackLimit = DefaultFallbackLimit
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
