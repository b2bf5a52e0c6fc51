package google

import "slices"

// ChatModel represents a Google Gemini model.
type ChatModel string

const (
	Gemini3Pro        ChatModel = "gemini-3.0-pro"
	Gemini25Pro       ChatModel = "gemini-2.5-pro"
	Gemini25Flash     ChatModel = "gemini-2.5-flash"
	Gemini25FlashLite ChatModel = "gemini-2.5-flash-lite"

	// DefaultChatModel is the recommended default model.
	DefaultChatModel ChatModel = Gemini25Flash
)

var knownModels = []ChatModel{Gemini3Pro, Gemini25Pro, Gemini25Flash, Gemini25FlashLite}

// Known reports whether m is one of the listed Gemini models. Unlisted
// names are still passed through to the API.
func (m ChatModel) Known() bool {
	return slices.Contains(knownModels, m)
}

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }
