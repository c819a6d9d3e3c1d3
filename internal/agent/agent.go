// Package agent binds a model identity, credential, and mandate to a single
// request/response operation. The three pipeline roles (evaluator, advisor,
// profiler) are all instances of the one Agent type; only mandate and model
// binding differ.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"advisor-agent/internal/mandate"
)

// Well-known agent roles. The role doubles as the mandate-store key.
const (
	RoleAdvisor   = "advisor"
	RoleEvaluator = "evaluator"
	RoleProfiler  = "profiler"
)

// ModelClient is the model boundary consumed by agents: one blocking
// prompt-in, text-out round trip.
type ModelClient interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// Agent is a fixed mandate plus model binding. The mandate is loaded once at
// construction and immutable for the agent's lifetime; Agent holds no other
// state between calls.
type Agent struct {
	role    string
	model   string
	mandate string
	client  ModelClient
}

// New constructs an Agent for role, loading its mandate from the store.
// Construction fails if the mandate is missing or the model id is empty.
func New(ctx context.Context, role, model string, client ModelClient, mandates mandate.Loader) (*Agent, error) {
	if strings.TrimSpace(role) == "" {
		return nil, errors.New("agent: role must not be empty")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("agent: model for %q must not be empty", role)
	}
	if client == nil {
		return nil, errors.New("agent: model client must not be nil")
	}
	if mandates == nil {
		return nil, errors.New("agent: mandate loader must not be nil")
	}
	text, err := mandates.LoadMandate(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("agent: construct %q: %w", role, err)
	}
	return &Agent{role: role, model: model, client: client, mandate: text}, nil
}

// Role returns the agent's role identity.
func (a *Agent) Role() string { return a.role }

// Model returns the bound model identifier.
func (a *Agent) Model() string { return a.model }

// Ask prepends the agent's mandate to body, submits the prompt, and returns
// the model's reply trimmed of outer whitespace. A single blocking round
// trip; backend errors propagate unchanged.
func (a *Agent) Ask(ctx context.Context, body string) (string, error) {
	reply, err := a.client.Complete(ctx, a.model, a.mandate+body)
	if err != nil {
		return "", fmt.Errorf("agent: %s ask: %w", a.role, err)
	}
	return strings.TrimSpace(reply), nil
}
