package main

import (
	"strings"

	"github.com/spetersoncode/scout/event"
)

// render formats one event as a transcript line.
func render(e event.Event) string {
	switch e.Type {
	case event.Thinking:
		return "💭 " + e.Content
	case event.ToolCall:
		return "🔧 " + e.Content
	case event.ToolResult:
		return "   → " + indent(e.Content, "     ")
	case event.Answer:
		return "\n✅ Answer:\n" + e.Content
	case event.Error:
		return "❌ Error: " + e.Content
	default:
		return e.Content
	}
}

func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
