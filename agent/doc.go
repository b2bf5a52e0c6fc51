// Package agent runs the bounded reasoning loop that answers a question
// with the help of a tool backend.
//
// Each iteration builds a prompt from the instructions, the tool catalog,
// the question and everything gathered so far, asks the reasoner for a
// decision, and either calls one tool or answers. After MaxIterations tool
// calls without an answer, a best-effort answer is synthesized from the
// collected results.
//
// # Streaming Events
//
// Research returns an ordered event stream. The producer only advances as
// the consumer receives, and the stream always ends with exactly one
// Answer or Error event:
//
//	a := agent.New(reasoner, tools, agent.WithMaxIterations(5))
//	for e := range a.Research(ctx, "Can a landlord keep the deposit?") {
//	    switch e.Type {
//	    case event.Thinking:
//	        fmt.Println("thinking:", e.Content)
//	    case event.ToolCall:
//	        fmt.Println("calling", e.ToolName)
//	    case event.Answer:
//	        fmt.Println(e.Content)
//	    }
//	}
//
// A consumer that stops reading must cancel ctx so the loop can exit.
//
// # Blocking Use
//
//	res, err := a.Ask(ctx, "Can a landlord keep the deposit?")
//	fmt.Println(res.Answer, res.ToolsUsed)
package agent
