package scout

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ToolParameter describes one input of a tool.
type ToolParameter struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// ToolDescriptor describes a tool exposed by the tool backend.
type ToolDescriptor struct {
	// Name is the unique identifier for the tool.
	Name string `json:"name"`
	// Description explains what the tool does. Only its first line is shown to the reasoner.
	Description string `json:"description"`
	// Parameters lists the tool inputs in the order the backend declares them.
	Parameters []ToolParameter `json:"parameters"`
}

// Summary returns the first line of the description.
func (d ToolDescriptor) Summary() string {
	line, _, _ := strings.Cut(strings.TrimSpace(d.Description), "\n")
	return strings.TrimSpace(line)
}

// Params holds tool arguments in insertion order, so they render and encode
// the same way the reasoner wrote them.
type Params = orderedmap.OrderedMap[string, any]

// NewParams creates an empty parameter map.
func NewParams() *Params {
	return orderedmap.New[string, any]()
}

// ParamsOf builds a parameter map from alternating key/value pairs.
// A trailing key without a value is ignored.
func ParamsOf(kv ...any) *Params {
	p := NewParams()
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		p.Set(key, kv[i+1])
	}
	return p
}

// FormatParams renders params as compact JSON. Nil or empty params render as "{}".
func FormatParams(p *Params) string {
	if p == nil || p.Len() == 0 {
		return "{}"
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ToolInvocation records one tool call made while answering a question.
type ToolInvocation struct {
	Tool   string  `json:"tool"`
	Params *Params `json:"params"`
	// Result is the tool output as observed by the reasoner, already truncated.
	Result string `json:"result"`
}

// ToolOutcome is the normalized result of a tool call. Exactly one of
// Result or Error is meaningful: Error is set when the backend reported a
// tool-level failure.
type ToolOutcome struct {
	Result string
	Error  *RemoteError
}

// IsError reports whether the backend reported a tool-level failure.
func (o ToolOutcome) IsError() bool {
	return o.Error != nil
}

// Text returns the outcome as text for the reasoner: the result, or the
// rendered error.
func (o ToolOutcome) Text() string {
	if o.Error != nil {
		return o.Error.Error()
	}
	return o.Result
}

// Truncate returns at most limit characters of s. Characters are counted as
// runes so multi-byte text is never split. A limit <= 0 returns s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

// Preview truncates s to limit characters and appends "..." when anything
// was cut.
func Preview(s string, limit int) string {
	t := Truncate(s, limit)
	if len(t) < len(s) {
		return t + "..."
	}
	return t
}
