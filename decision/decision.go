// Package decision turns free-form reasoner output into a structured
// decision: call one tool, or answer.
//
// The reasoner is asked to reply with a single JSON object:
//
//	{"action": "CALL_TOOL", "thinking": "...", "tool": "name", "params": {...}}
//	{"action": "ANSWER", "thinking": "...", "answer": "..."}
//
// optionally wrapped in a fenced code block.
package decision

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	ai "github.com/spetersoncode/scout"
)

// Action tags recognized in reasoner output.
const (
	ActionCallTool = "CALL_TOOL"
	ActionAnswer   = "ANSWER"
)

// ErrNoJSON is wrapped by a ParseError when no candidate decodes as a JSON object.
var ErrNoJSON = errors.New("no JSON object found")

// Decision is either ContinueWithTool or Terminate.
type Decision interface {
	// Reasoning returns the reasoner's stated thinking, possibly empty.
	Reasoning() string
	isDecision()
}

// ContinueWithTool asks the loop to invoke one tool.
type ContinueWithTool struct {
	Thinking string
	Tool     string
	Params   *ai.Params
}

func (d ContinueWithTool) Reasoning() string { return d.Thinking }
func (ContinueWithTool) isDecision()         {}

// Terminate ends the question with an answer.
type Terminate struct {
	Thinking string
	Answer   string
}

func (d Terminate) Reasoning() string { return d.Thinking }
func (Terminate) isDecision()         {}

// wire is the JSON shape of a decision before it is checked.
type wire struct {
	Action   actionTag       `json:"action" validate:"required"`
	Thinking string          `json:"thinking"`
	Tool     string          `json:"tool" validate:"required_if=Action CALL_TOOL"`
	Params   json.RawMessage `json:"params"`
	Answer   string          `json:"answer" validate:"required_if=Action ANSWER"`
}

// actionTag accepts any JSON value. A non-string tag keeps its JSON text so
// it reads as an unrecognized action rather than a decoding failure.
type actionTag string

func (a *actionTag) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = actionTag(s)
		return nil
	}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	*a = actionTag(b)
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var (
	jsonFence = regexp.MustCompile("(?s)```json[ \\t]*\\r?\\n?(.*?)(?:```|$)")
	anyFence  = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \\t]*\\r?\\n?(.*?)(?:```|$)")
)

// Parse extracts a decision from text. Candidates are tried in order: the
// first block fenced as json, the first fenced block of any kind, then the
// whole text. The first candidate that decodes as a JSON object is checked
// against the decision shapes.
//
// It returns a *scout.ParseError when no candidate decodes or the object does
// not fit either shape, and a *scout.UnknownActionError when the object is
// well formed but names an unrecognized action.
func Parse(text string) (Decision, error) {
	obj, err := extract(text)
	if err != nil {
		return nil, &ai.ParseError{Text: text, Err: err}
	}

	var w wire
	if err := json.Unmarshal(obj, &w); err != nil {
		return nil, &ai.ParseError{Text: text, Err: err}
	}
	if w.Action != "" && w.Action != ActionCallTool && w.Action != ActionAnswer {
		return nil, &ai.UnknownActionError{Action: string(w.Action)}
	}
	if err := validate.Struct(w); err != nil {
		return nil, &ai.ParseError{Text: text, Err: describe(err)}
	}

	switch w.Action {
	case ActionCallTool:
		params, err := decodeParams(w.Params)
		if err != nil {
			return nil, &ai.ParseError{Text: text, Err: err}
		}
		return ContinueWithTool{Thinking: w.Thinking, Tool: w.Tool, Params: params}, nil
	default:
		return Terminate{Thinking: w.Thinking, Answer: w.Answer}, nil
	}
}

// Candidates returns the texts Parse tries, in order.
func Candidates(text string) []string {
	var out []string
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		out = append(out, strings.TrimSpace(m[1]))
	}
	if m := anyFence.FindStringSubmatch(text); m != nil {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return append(out, strings.TrimSpace(text))
}

func extract(text string) ([]byte, error) {
	for _, c := range Candidates(text) {
		b := []byte(c)
		if len(b) == 0 || b[0] != '{' || !json.Valid(b) {
			continue
		}
		return b, nil
	}
	return nil, ErrNoJSON
}

func decodeParams(raw json.RawMessage) (*ai.Params, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ai.NewParams(), nil
	}
	if raw[0] != '{' {
		return nil, fmt.Errorf("params must be an object")
	}
	p := ai.NewParams()
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}
	return p, nil
}

// describe flattens validator errors into one message naming the missing fields.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return fmt.Errorf("missing required field(s): %s", strings.Join(fields, ", "))
}
