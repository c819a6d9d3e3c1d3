package domain

// Roles carried by transcript messages and conversation events. The displayed
// transcript holds only user and assistant entries; the event log additionally
// interleaves evaluator and profiler output.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleEvaluator = "evaluator"
	RoleProfiler  = "profiler"
)

// Message is one entry of the displayed transcript. Immutable once created.
type Message struct {
	Role    string
	Content string
}

// ConversationEvent is one entry of the full conversation log, the superset of
// the transcript that the risk profiler reads. Append-only; chronological
// order is significant.
type ConversationEvent struct {
	Role    string
	Content string
}
