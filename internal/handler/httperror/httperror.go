// Package httperror maps service errors to HTTP responses.
package httperror

import (
	"errors"
	"net/http"

	"github.com/zhouzirui/calm-corner/backend/internal/observability"
	"github.com/zhouzirui/calm-corner/backend/internal/service/ai"
	chatService "github.com/zhouzirui/calm-corner/backend/internal/service/chat"
	"github.com/zhouzirui/calm-corner/backend/internal/service/wellness"
	"github.com/zhouzirui/calm-corner/backend/pkg/utils"
)

// Payload is the body of an error response.
type Payload struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// Describe returns the status code and client-facing payload for err.
func Describe(err error) (int, Payload) {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		return http.StatusNotFound, Payload{Error: "session not found"}
	case errors.Is(err, wellness.ErrProfileNotFound):
		return http.StatusNotFound, Payload{Error: "profile not found"}
	case errors.Is(err, chatService.ErrProfileRequired):
		return http.StatusBadRequest, Payload{Error: err.Error()}
	case errors.Is(err, chatService.ErrConflict):
		return http.StatusConflict, Payload{Error: "session is busy, please retry", Retryable: true}
	case errors.Is(err, ai.ErrUpstream), errors.Is(err, ai.ErrEmptyResponse):
		return http.StatusBadGateway, Payload{Error: wellness.Apology, Retryable: true}
	default:
		return http.StatusInternalServerError, Payload{Error: "internal error"}
	}
}

// Write responds with the mapped error. Server-side failures are logged.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := Describe(err)
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error("request failed", "status", status, "error", err)
	}
	utils.RespondJSON(w, status, payload)
}
