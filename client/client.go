package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ai "github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/internal/provider/anthropic"
	"github.com/spetersoncode/scout/internal/provider/google"
	"github.com/spetersoncode/scout/internal/provider/openai"
	"github.com/spetersoncode/scout/internal/provider/vertex"
)

// Config selects and authenticates a reasoning backend.
type Config struct {
	// Provider picks the backend. Defaults to ProviderGoogle.
	Provider ai.Provider

	// APIKey authenticates anthropic, openai and google. Vertex ignores it.
	APIKey string

	// Model overrides the provider's default model.
	Model string

	// Project and Location configure the vertex provider.
	Project  string
	Location string

	// Logger receives request logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// ErrMissingAPIKey is returned when a provider that needs a key has none.
type ErrMissingAPIKey struct {
	Provider ai.Provider
}

func (e *ErrMissingAPIKey) Error() string {
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// ErrUnknownProvider is returned for a provider name the client cannot build.
type ErrUnknownProvider struct {
	Provider ai.Provider
}

func (e *ErrUnknownProvider) Error() string {
	return fmt.Sprintf("unknown provider %q", e.Provider)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultTemperature sets the default temperature for requests.
// Per-request options override this default.
func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.defaultOpts = append(c.defaultOpts, ai.WithTemperature(t))
	}
}

// WithDefaultMaxTokens sets the default max tokens for requests.
// Per-request options override this default.
func WithDefaultMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.defaultOpts = append(c.defaultOpts, ai.WithMaxTokens(n))
	}
}

// WithDefaultOptions sets default options for all requests.
// Per-request options override these defaults.
func WithDefaultOptions(opts ...ai.Option) ClientOption {
	return func(c *Client) {
		c.defaultOpts = append(c.defaultOpts, opts...)
	}
}

// Client is a configured reasoning backend.
type Client struct {
	provider    ai.Provider
	model       string
	reasoner    ai.Reasoner
	defaultOpts []ai.Option
	log         *slog.Logger
}

// New builds the Client for cfg.Provider.
func New(ctx context.Context, cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.Provider == "" {
		cfg.Provider = ai.ProviderGoogle
	}
	r, model, err := newReasoner(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return wrap(cfg.Provider, model, r, cfg.Logger, opts...), nil
}

func wrap(p ai.Provider, model string, r ai.Reasoner, logger *slog.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		provider: p,
		model:    model,
		reasoner: r,
		log:      logger.With("component", "reasoner", "provider", string(p)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newReasoner(ctx context.Context, cfg Config) (ai.Reasoner, string, error) {
	switch cfg.Provider {
	case ai.ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, "", &ErrMissingAPIKey{Provider: cfg.Provider}
		}
		var opts []anthropic.ClientOption
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(anthropic.ChatModel(cfg.Model)))
		}
		c := anthropic.New(cfg.APIKey, opts...)
		return c, c.Model().String(), nil

	case ai.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, "", &ErrMissingAPIKey{Provider: cfg.Provider}
		}
		var opts []openai.ClientOption
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(openai.ChatModel(cfg.Model)))
		}
		c := openai.New(cfg.APIKey, opts...)
		return c, c.Model().String(), nil

	case ai.ProviderGoogle:
		if cfg.APIKey == "" {
			return nil, "", &ErrMissingAPIKey{Provider: cfg.Provider}
		}
		c, err := google.New(ctx, cfg.APIKey, googleOptions(cfg)...)
		if err != nil {
			return nil, "", fmt.Errorf("google client: %w", err)
		}
		return c, c.Model().String(), nil

	case ai.ProviderVertex:
		c, err := vertex.New(ctx, cfg.Project, cfg.Location, googleOptions(cfg)...)
		if err != nil {
			return nil, "", fmt.Errorf("vertex client: %w", err)
		}
		return c, c.Model().String(), nil

	default:
		return nil, "", &ErrUnknownProvider{Provider: cfg.Provider}
	}
}

func googleOptions(cfg Config) []google.ClientOption {
	if cfg.Model == "" {
		return nil
	}
	return []google.ClientOption{google.WithModel(google.ChatModel(cfg.Model))}
}

// Provider returns the selected provider.
func (c *Client) Provider() ai.Provider {
	return c.provider
}

// Model returns the default model name.
func (c *Client) Model() string {
	return c.model
}

// Generate sends prompt to the backend. Default options are applied first so
// opts override them.
func (c *Client) Generate(ctx context.Context, prompt string, opts ...ai.Option) (string, error) {
	all := make([]ai.Option, 0, len(c.defaultOpts)+len(opts))
	all = append(all, c.defaultOpts...)
	all = append(all, opts...)

	model := c.model
	if m := ai.ApplyOptions(all...).Model; m != "" {
		model = m
	}

	start := time.Now()
	c.log.Debug("generate started", "model", model, "prompt_chars", len(prompt))

	text, err := c.reasoner.Generate(ctx, prompt, all...)
	if err != nil {
		c.log.Warn("generate failed",
			"model", model,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return "", err
	}

	c.log.Debug("generate completed",
		"model", model,
		"duration_ms", time.Since(start).Milliseconds(),
		"response_chars", len(text),
	)
	return text, nil
}
