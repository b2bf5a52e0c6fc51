package agent

// TerminationReason indicates why a question stopped.
type TerminationReason string

const (
	// TerminationAnswered indicates the reasoner chose to answer.
	TerminationAnswered TerminationReason = "answered"

	// TerminationExhausted indicates the iteration bound was reached and the
	// answer was synthesized from collected results.
	TerminationExhausted TerminationReason = "exhausted"

	// TerminationError indicates an unrecoverable error occurred.
	TerminationError TerminationReason = "error"

	// TerminationCancelled indicates the consumer cancelled the context.
	TerminationCancelled TerminationReason = "cancelled"
)

// Result represents the final outcome of one question.
type Result struct {
	// Answer is the final answer, empty on error.
	Answer string

	// ToolsUsed lists the distinct tools called, in first-use order.
	ToolsUsed []string

	// Iterations is the number of tool calls made.
	Iterations int

	// Termination indicates why the question stopped.
	Termination TerminationReason

	// Error contains the error that ended the question, if any.
	Error error
}
