package agent

import (
	"fmt"
	"strings"

	ai "github.com/spetersoncode/scout"
)

// FallbackCaveat closes every synthesized answer.
const FallbackCaveat = "> Note: further analysis may be needed; this answer may be incomplete."

// NoResultsAnswer is the synthesized answer when nothing was collected.
const NoResultsAnswer = "Sorry, no information could be collected for this question.\n\n" + FallbackCaveat

// SynthesizeFallback builds a best-effort answer from the collected results
// when the iteration bound is reached. Each result is quoted up to limit
// characters.
func SynthesizeFallback(rc *ReasoningContext, limit int) string {
	if len(rc.Invocations) == 0 {
		return NoResultsAnswer
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Question: %s\n\n", rc.Question)
	b.WriteString("## Collected information\n\n")
	for _, inv := range rc.Invocations {
		fmt.Fprintf(&b, "**%s**: %s\n\n", inv.Tool, ai.Preview(inv.Result, limit))
	}
	b.WriteString(FallbackCaveat)
	return b.String()
}
