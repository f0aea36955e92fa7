package chat

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/calm-corner/backend/internal/handler/httperror"
	"github.com/zhouzirui/calm-corner/backend/internal/service/wellness"
	"github.com/zhouzirui/calm-corner/backend/pkg/utils"
)

// Handler 会话相关的HTTP处理器
type Handler struct {
	wellness       *wellness.Service
	defaultProfile string
}

// New 创建会话处理器
func New(svc *wellness.Service, defaultProfile string) *Handler {
	return &Handler{
		wellness:       svc,
		defaultProfile: defaultProfile,
	}
}

// RegisterRoutes 注册会话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreateSession)
	r.Get("/sessions/{sessionID}", h.handleGetSession)
	r.Delete("/sessions/{sessionID}", h.handleEndSession)
	r.Put("/sessions/{sessionID}/mood", h.handleSetMood)
	r.Post("/sessions/{sessionID}/chat", h.handleChat)
	r.Post("/sessions/{sessionID}/journal", h.handleJournal)
	r.Get("/sessions/{sessionID}/render", h.handleRender)
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProfileID string `json:"profileId"`
		Mood      string `json:"mood"`
	}

	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profileID := strings.TrimSpace(payload.ProfileID)
	if profileID == "" {
		profileID = h.defaultProfile
	}

	session, err := h.wellness.StartSession(r.Context(), profileID, payload.Mood)
	if errors.Is(err, wellness.ErrProfileNotFound) {
		utils.RespondError(w, http.StatusBadRequest, "profile not found")
		return
	}
	if err != nil {
		httperror.Write(w, r, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

// handleGetSession 返回会话完整视图
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.wellness.View(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		httperror.Write(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

// handleEndSession 结束会话并丢弃全部状态
func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.wellness.EndSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		httperror.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetMood 覆盖当前情绪
func (h *Handler) handleSetMood(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Mood string `json:"mood"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.wellness.SetMood(r.Context(), chi.URLParam(r, "sessionID"), payload.Mood)
	if err != nil {
		httperror.Write(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"mood": session.Mood})
}

// handleChat 提交一条聊天消息
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.wellness.SubmitChat(r.Context(), chi.URLParam(r, "sessionID"), payload.Message, nil)
	if err != nil {
		httperror.Write(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// handleJournal 保存日记
func (h *Handler) handleJournal(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.wellness.SaveJournal(r.Context(), chi.URLParam(r, "sessionID"), payload.Text, nil)
	if err != nil {
		httperror.Write(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Saved {
		status = http.StatusCreated
	}
	utils.RespondJSON(w, status, result)
}

// handleRender 以 markdown 渲染会话
func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	view, err := h.wellness.View(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		httperror.Write(w, r, err)
		return
	}
	utils.RespondMarkdown(w, http.StatusOK, view.Markdown)
}
