// Package usecase hosts the chat service: request validation, session
// lifecycle, and persistence around the turn router.
package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"advisor-agent/internal/repository"
	"advisor-agent/internal/router"
	"advisor-agent/internal/session"
)

const (
	defaultMaxMessage = 2000
	maxSessionTurns   = 50
)

// TurnRunner drives one conversational turn over a session.
type TurnRunner interface {
	Turn(ctx context.Context, sess *session.Session, userText string) (string, error)
}

// ChatService owns the per-request session lifecycle: load, run the turn,
// persist the delta.
type ChatService struct {
	router        TurnRunner
	state         repository.Store
	maxMessageLen int
}

type ChatInput struct {
	Message   string
	SessionID string
}

type ChatOutput struct {
	Reply     string
	SessionID string
}

// NewChatService validates dependencies and builds a ChatService.
func NewChatService(r TurnRunner, state repository.Store, maxMessageLen int) (*ChatService, error) {
	if r == nil {
		return nil, errors.New("usecase: turn runner must not be nil")
	}
	if state == nil {
		return nil, errors.New("usecase: state store must not be nil")
	}
	if maxMessageLen <= 0 {
		maxMessageLen = defaultMaxMessage
	}
	return &ChatService{router: r, state: state, maxMessageLen: maxMessageLen}, nil
}

// Chat processes one user message. A missing session id starts a fresh
// session under a generated id. The turn's new log entries are persisted only
// after the turn completes; a failed turn leaves the stored session unchanged.
func (s *ChatService) Chat(ctx context.Context, in ChatInput) (ChatOutput, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return ChatOutput{}, router.NewError(router.ErrorInvalidInput, "empty_message", nil)
	}
	if len(message) > s.maxMessageLen {
		return ChatOutput{}, router.NewError(router.ErrorInvalidInput, "message_too_long", nil)
	}

	sessionID := strings.TrimSpace(in.SessionID)
	var state repository.SessionState
	if sessionID == "" {
		sessionID = newUUID()
	} else {
		loaded, err := s.state.LoadSession(ctx, sessionID)
		if err != nil {
			return ChatOutput{}, router.NewError(router.ErrorInternal, "dynamodb_load_error", err)
		}
		state = loaded
	}
	if state.Turns >= maxSessionTurns {
		return ChatOutput{}, router.NewError(router.ErrorInvalidInput, "session_turn_limit", nil)
	}

	sess := session.Restore(sessionID, state.Messages, state.Events, state.RiskReport)
	msgBase := sess.MessageCount()
	evtBase := sess.EventCount()

	reply, err := s.router.Turn(ctx, sess, message)
	if err != nil {
		return ChatOutput{}, err
	}

	delta := repository.TurnDelta{
		MessageBase: msgBase,
		EventBase:   evtBase,
		Messages:    sess.Messages()[msgBase:],
		Events:      sess.Events()[evtBase:],
		RiskReport:  sess.RiskProfileReport(),
		Turns:       state.Turns + 1,
	}
	if err := s.state.SaveTurn(ctx, sessionID, delta); err != nil {
		return ChatOutput{}, router.NewError(router.ErrorInternal, "dynamodb_write_error", err)
	}

	return ChatOutput{Reply: reply, SessionID: sessionID}, nil
}

var newUUID = func() string {
	return uuid.NewString()
}
