package scout

// Options contains configuration for a reasoning request.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature *float64
	TopP        *float64
	// System is an optional system instruction sent alongside the prompt.
	System string
}

// Option is a functional option for configuring reasoning requests.
type Option func(*Options)

// WithModel sets the model to use for the request.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature (0.0 to 2.0).
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithTopP sets nucleus sampling probability mass.
func WithTopP(p float64) Option {
	return func(o *Options) {
		o.TopP = &p
	}
}

// WithSystem sets a system instruction.
func WithSystem(s string) Option {
	return func(o *Options) {
		o.System = s
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
