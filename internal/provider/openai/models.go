package openai

import "strings"

// ChatModel represents an OpenAI chat model.
type ChatModel string

const (
	GPT52    ChatModel = "gpt-5.2"
	GPT5Mini ChatModel = "gpt-5-mini"
	GPT41    ChatModel = "gpt-4.1"
	O4Mini   ChatModel = "o4-mini"

	// DefaultChatModel is the recommended default model.
	DefaultChatModel ChatModel = GPT41
)

// SupportsSampling reports whether the model accepts temperature and top_p.
// The GPT-5 and o-series reasoning models do not.
func (m ChatModel) SupportsSampling() bool {
	s := string(m)
	return !strings.HasPrefix(s, "gpt-5") && !strings.HasPrefix(s, "o")
}

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }
