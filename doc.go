// Package scout provides the shared types of a tool-augmented reasoning agent.
//
// A question is answered by a bounded decide/act loop: a language model
// (a [Reasoner]) reads the question, a description of the available tools and
// everything gathered so far, then either asks for one tool call or answers.
// Tools live behind an MCP server reached over SSE.
//
// # Packages
//
//   - [github.com/spetersoncode/scout/mcp]: protocol client for the tool backend
//   - [github.com/spetersoncode/scout/decision]: parses model output into decisions
//   - [github.com/spetersoncode/scout/agent]: the reasoning loop and fallback synthesizer
//   - [github.com/spetersoncode/scout/event]: the ordered event stream
//   - [github.com/spetersoncode/scout/client]: builds a [Reasoner] for a provider
//   - [github.com/spetersoncode/scout/agui]: maps events to the AG-UI protocol
//
// # Basic Usage
//
//	tools := mcp.NewClient("http://localhost:3000/sse")
//	if err := tools.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer tools.Close()
//
//	r, err := client.New(ctx, client.Config{
//	    Provider: scout.ProviderGoogle,
//	    APIKey:   os.Getenv("GEMINI_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	a := agent.New(r, tools)
//	for ev := range a.Research(ctx, "Which statute governs late rent?") {
//	    fmt.Println(ev.Type, ev.Content)
//	}
//
// # Errors
//
// Failures of the tool backend are reported as [*ConnectionError] or
// [*ProtocolError]. Unreadable model output is a [*ParseError], and a
// well-formed decision with an unrecognized action is an [*UnknownActionError].
// Provider failures carry an [ErrorCategory]; see [IsTransient].
package scout
