package router

import (
	"regexp"
	"strings"

	"advisor-agent/internal/domain"
)

// evaluationBody frames the user text for the evaluator's mandate.
func evaluationBody(userText string) string {
	return "\n\nUser input: " + userText
}

// profileBody renders the full conversation-event log for the profiler.
// Only user and assistant entries appear in the rendered transcript;
// evaluator and profiler entries exist in the log but are excluded here.
func profileBody(events []domain.ConversationEvent) string {
	var b strings.Builder
	for _, ev := range events {
		switch ev.Role {
		case domain.RoleUser:
			b.WriteString("User: " + ev.Content + "\n")
		case domain.RoleAssistant:
			b.WriteString("Assistant: " + ev.Content + "\n")
		}
	}
	return "\n\nConversation:\n" + b.String() + "\n\nGenerate the risk profile report."
}

// advisorBody frames the user text for the advisor. The research digest and
// the stored risk profile report are independent optional context blocks;
// either, both, or neither may be attached on a given turn.
func advisorBody(userText, reportSummary, riskReport string) string {
	var b strings.Builder
	if reportSummary != "" {
		b.WriteString("\nYou have access to the following research report summary:\n")
		b.WriteString(reportSummary)
		b.WriteString("\nUse this information to assist the client.")
	}
	if riskReport != "" {
		b.WriteString("\nYou have access to the following risk profile report:\n")
		b.WriteString(riskReport)
		b.WriteString("\nUse this information to assist the client.")
	}
	b.WriteString("\nClient: " + userText + "\n\nAdvisor:")
	return b.String()
}

var blankLines = regexp.MustCompile(`\n{2,}`)

// normalizeReply collapses runs of blank lines to single newlines and trims
// outer whitespace. Deterministic: identical input yields identical output.
func normalizeReply(reply string) string {
	return strings.TrimSpace(blankLines.ReplaceAllString(reply, "\n"))
}
