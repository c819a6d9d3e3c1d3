// Package router dispatches each user turn through the three-agent pipeline:
// a mandatory evaluation call classifies the turn, and the classification
// selects one of three branches (advice research, risk profiling, or plain
// chat) before the advisor produces the reply.
package router

import (
	"context"
	"errors"
	"log/slog"

	"advisor-agent/internal/domain"
	"advisor-agent/internal/session"
)

// Asker is the single operation exposed by an agent.
type Asker interface {
	Ask(ctx context.Context, body string) (string, error)
}

// ResearchProvider supplies the advice branch with the screened company set
// and its model-written digest.
type ResearchProvider interface {
	ResearchSummary(ctx context.Context) (domain.ResearchSummary, error)
	SummarizeReport(ctx context.Context, summary domain.ResearchSummary) (string, error)
}

type httpStatusCoder interface {
	HTTPStatusCode() int
}

// Router runs one turn at a time over a caller-owned session. It holds no
// session state of its own; the same Router may serve many sessions as long
// as each session is driven from a single goroutine.
type Router struct {
	evaluator Asker
	advisor   Asker
	profiler  Asker
	research  ResearchProvider
}

// New validates the pipeline dependencies and builds a Router.
func New(evaluator, advisor, profiler Asker, research ResearchProvider) (*Router, error) {
	if evaluator == nil {
		return nil, errors.New("router: evaluator must not be nil")
	}
	if advisor == nil {
		return nil, errors.New("router: advisor must not be nil")
	}
	if profiler == nil {
		return nil, errors.New("router: profiler must not be nil")
	}
	if research == nil {
		return nil, errors.New("router: research provider must not be nil")
	}
	return &Router{evaluator: evaluator, advisor: advisor, profiler: profiler, research: research}, nil
}

// Turn processes one user message to completion and returns the normalized
// assistant reply. Every turn starts with the user text appended to both
// logs and a blocking evaluation call; the branch then runs its side effects
// before the advisor call. On failure the turn aborts: appends made before
// the failing call remain, output of the failing call is never committed.
func (r *Router) Turn(ctx context.Context, sess *session.Session, userText string) (string, error) {
	sess.AppendMessage(domain.RoleUser, userText)
	sess.AppendEvent(domain.RoleUser, userText)

	evaluation, err := r.evaluator.Ask(ctx, evaluationBody(userText))
	if err != nil {
		return "", modelError("evaluation", err)
	}
	sess.AppendEvent(domain.RoleEvaluator, evaluation)

	branch := Classify(evaluation)
	slog.Debug("turn classified", "session", sess.ID(), "branch", branch.String())

	var reportSummary string
	switch branch {
	case BranchAdvice:
		summary, err := r.research.ResearchSummary(ctx)
		if err != nil {
			return "", NewError(ErrorInternal, "research_scan_error", err)
		}
		reportSummary, err = r.research.SummarizeReport(ctx, summary)
		if err != nil {
			return "", modelError("research_summary", err)
		}
	case BranchRiskAnswer:
		report, err := r.profiler.Ask(ctx, profileBody(sess.Events()))
		if err != nil {
			return "", modelError("risk_profile", err)
		}
		sess.SetRiskProfileReport(report)
		sess.AppendEvent(domain.RoleProfiler, report)
	}

	reply, err := r.advisor.Ask(ctx, advisorBody(userText, reportSummary, sess.RiskProfileReport()))
	if err != nil {
		return "", modelError("advisor", err)
	}

	reply = normalizeReply(reply)
	sess.AppendMessage(domain.RoleAssistant, reply)
	sess.AppendEvent(domain.RoleAssistant, reply)
	return reply, nil
}

// modelError maps a model-backend failure to a coded turn error. Rate limits
// surface as RATE_LIMITED; everything else from the model boundary is an
// upstream failure.
func modelError(stage string, err error) *Error {
	if status, ok := upstreamStatusCode(err); ok && status == 429 {
		return NewError(ErrorRateLimited, stage+"_rate_limited", err)
	}
	return NewError(ErrorUpstream, stage+"_error", err)
}

func upstreamStatusCode(err error) (int, bool) {
	var statusErr httpStatusCoder
	if !errors.As(err, &statusErr) {
		return 0, false
	}
	return statusErr.HTTPStatusCode(), true
}
