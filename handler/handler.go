// Package handler adapts API Gateway proxy events to the chat service.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"advisor-agent/internal/router"
	"advisor-agent/internal/usecase"
)

const correlationHeader = "X-Correlation-Id"

// ChatUseCase is the service boundary consumed by the handler.
type ChatUseCase interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves POST /chat.
type Handler struct {
	chat ChatUseCase
}

// NewHandler creates a Handler over the chat service.
func NewHandler(chat ChatUseCase) (*Handler, error) {
	if chat == nil {
		return nil, errors.New("handler: chat use case must not be nil")
	}
	return &Handler{chat: chat}, nil
}

// Handle processes one API Gateway request. A provided X-Correlation-Id
// header (any casing) is echoed back; otherwise one is generated.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := requestCorrelationID(event.Headers)

	var req chatRequest
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		return jsonResponse(http.StatusBadRequest, correlationID, errorResponse{Error: string(router.ErrorInvalidInput)}), nil
	}

	out, err := h.chat.Chat(ctx, usecase.ChatInput{Message: req.Message, SessionID: req.SessionID})
	if err != nil {
		status, code := mapError(err)
		slog.Error("chat turn failed", "correlationId", correlationID, "code", code, "err", err)
		return jsonResponse(status, correlationID, errorResponse{Error: code}), nil
	}

	return jsonResponse(http.StatusOK, correlationID, chatResponse{Reply: out.Reply, SessionID: out.SessionID}), nil
}

// mapError translates the coded error taxonomy into an HTTP status. Unknown
// errors are internal.
func mapError(err error) (int, string) {
	var turnErr *router.Error
	if !errors.As(err, &turnErr) {
		return http.StatusInternalServerError, string(router.ErrorInternal)
	}
	switch turnErr.Code {
	case router.ErrorInvalidInput:
		return http.StatusBadRequest, string(turnErr.Code)
	case router.ErrorRateLimited:
		return http.StatusTooManyRequests, string(turnErr.Code)
	case router.ErrorUpstream:
		return http.StatusBadGateway, string(turnErr.Code)
	default:
		return http.StatusInternalServerError, string(router.ErrorInternal)
	}
}

func requestCorrelationID(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, correlationHeader) && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return uuid.NewString()
}

func jsonResponse(status int, correlationID string, body any) events.APIGatewayProxyResponse {
	raw, err := json.Marshal(body)
	if err != nil {
		// Marshal of the fixed response shapes cannot fail; guard anyway.
		raw = []byte(`{"error":"INTERNAL_ERROR"}`)
		status = http.StatusInternalServerError
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":    "application/json",
			correlationHeader: correlationID,
		},
		Body: string(raw),
	}
}
