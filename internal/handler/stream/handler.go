package stream

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/calm-corner/backend/internal/handler/httperror"
	"github.com/zhouzirui/calm-corner/backend/internal/observability"
	"github.com/zhouzirui/calm-corner/backend/internal/service/wellness"
	"github.com/zhouzirui/calm-corner/backend/pkg/utils"
)

// SSE event names.
const (
	EventStatus  = "status"
	EventMessage = "message"
	EventError   = "error"
	EventEnd     = "end"
)

// Handler delivers one chat turn over Server-Sent Events: a status event while
// the reply is pending, then the exchange, then end.
type Handler struct {
	wellness *wellness.Service
}

// New creates a new stream handler
func New(svc *wellness.Service) *Handler {
	return &Handler{wellness: svc}
}

// RegisterRoutes mounts the stream route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{sessionID}/stream", h.handleStream)
}

type endPayload struct {
	SessionID string `json:"sessionId"`
	Finished  bool   `json:"finished"`
	Skipped   bool   `json:"skipped,omitempty"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	userMessage := r.URL.Query().Get("message")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	// unknown sessions get a plain JSON 404 before the stream opens
	if _, err := h.wellness.View(r.Context(), sessionID); err != nil {
		httperror.Write(w, r, err)
		return
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.HandleStreamRequest(r.Context(), w, flusher, sessionID, userMessage)
}

// HandleStreamRequest runs the chat turn and writes its events. Failures are
// reported as an error event; the transcript is untouched in that case.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID, userMessage string) {
	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	notify := func(status wellness.Status) {
		if err := utils.SendSSEEvent(w, flusher, EventStatus, status); err != nil {
			log.Warn("failed to send status event", "error", err)
		}
	}

	result, err := h.wellness.SubmitChat(ctx, sessionID, userMessage, notify)
	if err != nil {
		_, payload := httperror.Describe(err)
		_ = utils.SendSSEEvent(w, flusher, EventError, payload)
		log.Warn("stream chat failed", "error", err)
		return
	}

	if !result.Skipped {
		_ = utils.SendSSEEvent(w, flusher, EventMessage, result)
	}
	_ = utils.SendSSEEvent(w, flusher, EventEnd, endPayload{
		SessionID: sessionID,
		Finished:  true,
		Skipped:   result.Skipped,
	})
	log.Info("stream completed", "skipped", result.Skipped)
}
