// Package session holds the per-user mutable conversation state: the
// displayed transcript, the full conversation-event log, and the latest risk
// profile report. One Session instance exists per user session and is only
// ever mutated by the turn router on that session's goroutine; nothing is
// shared across sessions.
package session

import (
	"advisor-agent/internal/domain"
)

// Session is the per-user state handle passed into the router on every turn.
// Both logs are append-only: they never shrink and never reorder.
type Session struct {
	id         string
	messages   []domain.Message
	events     []domain.ConversationEvent
	riskReport string
}

// New creates an empty session with the given id.
func New(id string) *Session {
	return &Session{id: id}
}

// Restore rebuilds a session from persisted state. The slices are adopted
// as-is; callers must not retain them.
func Restore(id string, messages []domain.Message, events []domain.ConversationEvent, riskReport string) *Session {
	return &Session{
		id:         id,
		messages:   messages,
		events:     events,
		riskReport: riskReport,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// AppendMessage appends an entry to the displayed transcript.
func (s *Session) AppendMessage(role, content string) {
	s.messages = append(s.messages, domain.Message{Role: role, Content: content})
}

// AppendEvent appends an entry to the conversation-event log.
func (s *Session) AppendEvent(role, content string) {
	s.events = append(s.events, domain.ConversationEvent{Role: role, Content: content})
}

// Messages returns a copy of the displayed transcript.
func (s *Session) Messages() []domain.Message {
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Events returns a copy of the conversation-event log.
func (s *Session) Events() []domain.ConversationEvent {
	out := make([]domain.ConversationEvent, len(s.events))
	copy(out, s.events)
	return out
}

// MessageCount returns the transcript length.
func (s *Session) MessageCount() int { return len(s.messages) }

// EventCount returns the event-log length.
func (s *Session) EventCount() int { return len(s.events) }

// RiskProfileReport returns the most recent risk profile report, or "" if the
// profiler has not run yet.
func (s *Session) RiskProfileReport() string { return s.riskReport }

// SetRiskProfileReport overwrites the stored risk profile report. At most one
// report is live per session; each profiler run replaces the previous one.
func (s *Session) SetRiskProfileReport(report string) {
	s.riskReport = report
}
