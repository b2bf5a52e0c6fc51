package anthropic

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	ai "github.com/spetersoncode/scout"
)

// DefaultMaxTokens bounds a completion when the caller sets no limit.
const DefaultMaxTokens = 4096

// Client wraps the Anthropic SDK to implement scout.Reasoner.
type Client struct {
	client *anthropic.Client
	model  ChatModel
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultChatModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the Anthropic client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model ChatModel) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// Model returns the default model.
func (c *Client) Model() ChatModel {
	return c.model
}

// Generate sends a single prompt and returns the concatenated text blocks
// of the reply.
func (c *Client) Generate(ctx context.Context, prompt string, opts ...ai.Option) (string, error) {
	resp, err := c.client.Messages.New(ctx, c.buildParams(prompt, ai.ApplyOptions(opts...)))
	if err != nil {
		return "", wrapError(err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

func (c *Client) buildParams(prompt string, options *ai.Options) anthropic.MessageNewParams {
	model := c.model
	if options.Model != "" {
		model = ChatModel(options.Model)
	}

	maxTokens := int64(DefaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model.String()),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if options.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: options.System}}
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}
	if options.TopP != nil {
		params.TopP = anthropic.Float(*options.TopP)
	}
	return params
}
