// Package agui maps the scout event stream onto the AG-UI protocol.
//
// AG-UI (Agent-User Interface) is an event-based protocol for connecting
// agents to user-facing applications. This package converts each scout
// event to AG-UI events so an AG-UI frontend can follow a research run.
//
// The package does NOT provide HTTP handlers. cmd/serve writes the mapped
// events as server-sent events.
//
// # Usage
//
//	mapper := agui.NewMapper(threadID, runID)
//	for ev := range mapper.MapStream(ctx, a.Research(ctx, question)) {
//	    writeEvent(ev)
//	}
//
// # Event Mapping
//
// thinking and answer events become assistant text messages. A tool_call
// becomes a complete TOOL_CALL_START/ARGS/END sequence with a generated call
// ID, and the following tool_result references that ID. An error event
// becomes RUN_ERROR, which ends the run; an answer is followed by
// RUN_FINISHED.
package agui
