package agent

import ai "github.com/spetersoncode/scout"

// ReasoningContext is the working state of one question. It is created when
// the question starts and discarded when it terminates.
type ReasoningContext struct {
	Question    string
	Invocations []ai.ToolInvocation
	// Iteration counts completed tool cycles.
	Iteration int
}

// NewReasoningContext starts a context for question.
func NewReasoningContext(question string) *ReasoningContext {
	return &ReasoningContext{Question: question}
}

// Record appends a completed tool call and advances the iteration counter.
// result should already be truncated.
func (rc *ReasoningContext) Record(tool string, params *ai.Params, result string) ai.ToolInvocation {
	inv := ai.ToolInvocation{Tool: tool, Params: params, Result: result}
	rc.Invocations = append(rc.Invocations, inv)
	rc.Iteration++
	return inv
}

// ToolsUsed returns the distinct tool names in first-use order.
func (rc *ReasoningContext) ToolsUsed() []string {
	seen := make(map[string]bool, len(rc.Invocations))
	var names []string
	for _, inv := range rc.Invocations {
		if seen[inv.Tool] {
			continue
		}
		seen[inv.Tool] = true
		names = append(names, inv.Tool)
	}
	return names
}
