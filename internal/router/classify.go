package router

import "strings"

// Branch selects which handler processes a turn after evaluation.
type Branch int

const (
	BranchPlainChat Branch = iota
	BranchAdvice
	BranchRiskAnswer
)

func (b Branch) String() string {
	switch b {
	case BranchAdvice:
		return "advice"
	case BranchRiskAnswer:
		return "risk_answer"
	default:
		return "plain_chat"
	}
}

// The evaluator mandate instructs the model to emit these quoted literals.
// They are matched as raw substrings, case-sensitively, quotes included; the
// exact values are load-bearing and must stay in sync with the mandate text.
const (
	adviceMarker     = "'Y'"
	riskAnswerMarker = "'R'"
)

// Classify inspects the evaluator's raw output and picks a branch. The advice
// marker takes precedence when both markers appear. Output matching neither
// marker falls through to plain chat; an unrecognized classification is a
// policy outcome, not an error.
func Classify(evaluation string) Branch {
	if strings.Contains(evaluation, adviceMarker) {
		return BranchAdvice
	}
	if strings.Contains(evaluation, riskAnswerMarker) {
		return BranchRiskAnswer
	}
	return BranchPlainChat
}
