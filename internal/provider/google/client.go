package google

import (
	"context"
	"fmt"
	"strings"

	ai "github.com/spetersoncode/scout"
	"google.golang.org/genai"
)

// Generation defaults applied when the caller leaves a setting unset.
const (
	DefaultTemperature = 0.2
	DefaultTopP        = 0.95
	DefaultMaxTokens   = 4096
)

// Client wraps the Google GenAI SDK to implement scout.Reasoner.
type Client struct {
	client *genai.Client
	model  ChatModel
}

// New creates a new Google GenAI client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return Wrap(client, opts...), nil
}

// Wrap builds a Client around an already configured SDK client. The Vertex
// provider uses it to share the generation path.
func Wrap(client *genai.Client, opts ...ClientOption) *Client {
	c := &Client{
		client: client,
		model:  DefaultChatModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the Google client.
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

// Generate sends a single prompt and returns the model's text.
func (c *Client) Generate(ctx context.Context, prompt string, opts ...ai.Option) (string, error) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = ChatModel(options.Model)
	}

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: prompt}},
	}}
	resp, err := c.client.Models.GenerateContent(ctx, model.String(), contents, buildConfig(options))
	if err != nil {
		return "", wrapError(err)
	}
	return responseText(resp)
}

// buildConfig maps scout options onto a generation config, filling the
// package defaults for anything unset.
func buildConfig(options *ai.Options) *genai.GenerateContentConfig {
	temp := float32(DefaultTemperature)
	if options.Temperature != nil {
		temp = float32(*options.Temperature)
	}
	topP := float32(DefaultTopP)
	if options.TopP != nil {
		topP = float32(*options.TopP)
	}
	maxTokens := int32(DefaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int32(options.MaxTokens)
	}

	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		MaxOutputTokens: maxTokens,
	}
	if options.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: options.System}},
		}
	}
	return config
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ai.NewTransientError("empty response", 0, nil)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		blocked := &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)}
		return "", ai.NewUserInputError(blocked.Error(), 0, blocked)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ai.NewTransientError("response has no candidates", 0, nil)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}

// BlockedError indicates the request was blocked by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request blocked: %s", e.Reason)
}
