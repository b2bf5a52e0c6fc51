package agent

import (
	"fmt"
	"strings"

	ai "github.com/spetersoncode/scout"
)

// DefaultInstructions opens every prompt unless replaced with WithInstructions.
const DefaultInstructions = `You are a careful research assistant. You answer questions by gathering facts with the tools listed below, one call at a time, and you only answer once the collected information supports it.

Rules:
- Prefer calling a tool over guessing.
- Never call the same tool with the same parameters twice.
- Cite what you found when you answer, and say what remains uncertain.`

const responseFormat = `## Instructions
Decide the next step from the information above.
- If more information is needed, choose one tool.
- If the collected information is enough, write the answer.
- Reply with exactly one JSON object and nothing else:

To call a tool:
{"action": "CALL_TOOL", "thinking": "why this tool", "tool": "tool_name", "params": {"name": "value"}}

To answer:
{"action": "ANSWER", "thinking": "why this is enough", "answer": "the final answer"}`

// BuildPrompt renders the prompt for the next decision: instructions, the
// tool catalog, the question, the transcript of earlier calls and the
// response format.
func BuildPrompt(instructions, tools string, rc *ReasoningContext) string {
	var b strings.Builder

	b.WriteString(instructions)
	b.WriteString("\n\n## Available tools\n")
	b.WriteString(tools)
	b.WriteString("\n\n## Question\n")
	b.WriteString(rc.Question)

	if len(rc.Invocations) > 0 {
		b.WriteString("\n\n## Collected information\n")
		for i, inv := range rc.Invocations {
			fmt.Fprintf(&b, "\n### [%d] %s(%s)\n", i+1, inv.Tool, ai.FormatParams(inv.Params))
			fmt.Fprintf(&b, "```\n%s\n```\n", inv.Result)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(responseFormat)
	return b.String()
}
