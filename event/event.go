// Package event defines the ordered event stream produced while a question is
// being researched. A stream carries any number of progress events followed by
// exactly one terminal event (Answer or Error), after which it is closed.
package event

import (
	"context"
	"time"

	ai "github.com/spetersoncode/scout"
)

// Type identifies the kind of event.
type Type string

const (
	// Thinking carries the reasoner's stated reasoning for a step.
	Thinking Type = "thinking"

	// ToolCall fires before a tool is invoked (contains tool name and params).
	ToolCall Type = "tool_call"

	// ToolResult carries a preview of a tool's output.
	ToolResult Type = "tool_result"

	// Answer is the terminal success event.
	Answer Type = "answer"

	// Error is the terminal failure event.
	Error Type = "error"
)

// IsTerminal reports whether events of type t end a stream.
func (t Type) IsTerminal() bool {
	return t == Answer || t == Error
}

// Event represents an observable occurrence while answering a question.
// Its JSON form is the consumer contract:
//
//	{"type": "...", "content": "...", "tool_name": "...", "tool_params": {...}}
//
// with tool_name and tool_params omitted when empty.
type Event struct {
	// Type identifies the kind of event.
	Type Type `json:"type"`

	// Content is the human-readable payload: thinking text, result preview,
	// answer, or error message.
	Content string `json:"content"`

	// ToolName is set on ToolCall and ToolResult events.
	ToolName string `json:"tool_name,omitempty"`

	// ToolParams is set on ToolCall events.
	ToolParams *ai.Params `json:"tool_params,omitempty"`

	// Step is the iteration the event belongs to (1-indexed, 0 before the first step).
	Step int `json:"-"`

	// Timestamp is when the event was emitted.
	Timestamp time.Time `json:"-"`
}

// IsTerminal reports whether the event ends its stream.
func (e Event) IsTerminal() bool {
	return e.Type.IsTerminal()
}

// NewThinking creates a Thinking event.
func NewThinking(step int, text string) Event {
	return Event{Type: Thinking, Step: step, Content: text}
}

// NewToolCall creates a ToolCall event.
func NewToolCall(step int, tool string, params *ai.Params) Event {
	if params == nil {
		params = ai.NewParams()
	}
	return Event{Type: ToolCall, Step: step, ToolName: tool, ToolParams: params, Content: tool + " " + ai.FormatParams(params)}
}

// NewToolResult creates a ToolResult event carrying a preview of the output.
func NewToolResult(step int, tool, preview string) Event {
	return Event{Type: ToolResult, Step: step, ToolName: tool, Content: preview}
}

// NewAnswer creates the terminal Answer event.
func NewAnswer(step int, answer string) Event {
	return Event{Type: Answer, Step: step, Content: answer}
}

// NewError creates the terminal Error event from err.
func NewError(step int, err error) Event {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Event{Type: Error, Step: step, Content: msg}
}

// Emit stamps e and sends it on ch, blocking until the consumer receives it
// or ctx is done. It returns ctx.Err() when the event could not be delivered.
func Emit(ctx context.Context, ch chan<- Event, e Event) error {
	e.Timestamp = time.Now()
	select {
	case ch <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewChannel creates an unbuffered event channel, so the producer advances
// only as fast as the consumer pulls.
func NewChannel() chan Event {
	return make(chan Event)
}

// Collect drains ch and returns every event received.
func Collect(ch <-chan Event) []Event {
	var out []Event
	for e := range ch {
		out = append(out, e)
	}
	return out
}
