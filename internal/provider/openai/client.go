package openai

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	ai "github.com/spetersoncode/scout"
)

// Client wraps the OpenAI SDK to implement scout.Reasoner.
type Client struct {
	client *openai.Client
	model  ChatModel
}

// New creates a new OpenAI client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultChatModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the OpenAI client.
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

// Generate sends a single prompt and returns the first choice's content.
func (c *Client) Generate(ctx context.Context, prompt string, opts ...ai.Option) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, c.buildParams(prompt, ai.ApplyOptions(opts...)))
	if err != nil {
		return "", wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", ai.NewTransientError("response has no choices", 0, nil)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) buildParams(prompt string, options *ai.Options) openai.ChatCompletionNewParams {
	model := c.model
	if options.Model != "" {
		model = ChatModel(options.Model)
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if options.System != "" {
		messages = append(messages, openai.SystemMessage(options.System))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:    model.String(),
		Messages: messages,
	}
	if options.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(options.MaxTokens))
	}
	// Reasoning models reject sampling parameters.
	if model.SupportsSampling() {
		if options.Temperature != nil {
			params.Temperature = openai.Float(*options.Temperature)
		}
		if options.TopP != nil {
			params.TopP = openai.Float(*options.TopP)
		}
	}
	return params
}
