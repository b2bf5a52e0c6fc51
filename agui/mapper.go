package agui

import (
	"context"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"github.com/google/uuid"

	ai "github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/event"
)

// RoleAssistant is the AG-UI role of every text message the agent sends.
const RoleAssistant = "assistant"

// Mapper converts scout events to AG-UI events.
//
// Create a new Mapper for each run using NewMapper. The Mapper is not
// safe for concurrent use; it remembers the open tool call so the following
// result can reference it.
type Mapper struct {
	threadID string
	runID    string

	toolCallID string
}

// NewMapper creates a new Mapper for a single run.
// The threadID and runID are used in lifecycle events (RUN_STARTED, RUN_FINISHED).
func NewMapper(threadID, runID string) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Mapper{
		threadID: threadID,
		runID:    runID,
	}
}

// ThreadID returns the thread ID for this mapper.
func (m *Mapper) ThreadID() string {
	return m.threadID
}

// RunID returns the run ID for this mapper.
func (m *Mapper) RunID() string {
	return m.runID
}

// RunStarted returns a RUN_STARTED event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// RunFinished returns a RUN_FINISHED event.
func (m *Mapper) RunFinished() events.Event {
	return events.NewRunFinishedEvent(m.threadID, m.runID)
}

// RunError returns a RUN_ERROR event.
func (m *Mapper) RunError(msg string) events.Event {
	if msg == "" {
		msg = "unknown error"
	}
	return events.NewRunErrorEvent(msg)
}

// MapEvent converts one scout event to its AG-UI sequence:
//
//	thinking, answer  TEXT_MESSAGE_START, TEXT_MESSAGE_CONTENT, TEXT_MESSAGE_END
//	tool_call         TOOL_CALL_START, TOOL_CALL_ARGS, TOOL_CALL_END
//	tool_result       TOOL_CALL_RESULT
//	error             RUN_ERROR
//
// Run lifecycle events other than RUN_ERROR are added by MapStream.
func (m *Mapper) MapEvent(e event.Event) []events.Event {
	switch e.Type {
	case event.Thinking, event.Answer:
		return textMessage(e.Content)

	case event.ToolCall:
		m.toolCallID = "call_" + uuid.NewString()
		return []events.Event{
			events.NewToolCallStartEvent(m.toolCallID, e.ToolName),
			events.NewToolCallArgsEvent(m.toolCallID, ai.FormatParams(e.ToolParams)),
			events.NewToolCallEndEvent(m.toolCallID),
		}

	case event.ToolResult:
		callID := m.toolCallID
		if callID == "" {
			callID = "call_" + uuid.NewString()
		}
		m.toolCallID = ""
		return []events.Event{
			events.NewToolCallResultEvent(events.GenerateMessageID(), callID, e.Content),
		}

	case event.Error:
		return []events.Event{m.RunError(e.Content)}

	default:
		return nil
	}
}

func textMessage(content string) []events.Event {
	id := events.GenerateMessageID()
	out := []events.Event{events.NewTextMessageStartEvent(id, events.WithRole(RoleAssistant))}
	if content != "" {
		out = append(out, events.NewTextMessageContentEvent(id, content))
	}
	return append(out, events.NewTextMessageEndEvent(id))
}

// MapStream wraps a scout event channel and yields AG-UI events, bracketed
// by RUN_STARTED and either RUN_FINISHED or RUN_ERROR. A stream that closes
// without a terminal event ends with RUN_ERROR. The returned channel closes
// when the input channel closes or ctx is done.
func (m *Mapper) MapStream(ctx context.Context, input <-chan event.Event) <-chan events.Event {
	output := make(chan events.Event, 16)
	go func() {
		defer close(output)

		send := func(evs ...events.Event) bool {
			for _, ev := range evs {
				select {
				case output <- ev:
				case <-ctx.Done():
					return false
				}
			}
			return true
		}

		if !send(m.RunStarted()) {
			return
		}
		terminated := false
		for {
			var e event.Event
			var ok bool
			select {
			case e, ok = <-input:
			case <-ctx.Done():
				return
			}
			if !ok {
				break
			}
			if !send(m.MapEvent(e)...) {
				return
			}
			switch e.Type {
			case event.Answer:
				terminated = send(m.RunFinished())
			case event.Error:
				terminated = true
			}
		}
		if !terminated {
			send(m.RunError("run ended without an answer"))
		}
	}()
	return output
}
