package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/calm-corner/backend/internal/model/mood"
	"github.com/zhouzirui/calm-corner/backend/internal/model/profile"
	"github.com/zhouzirui/calm-corner/backend/pkg/utils"
)

// Handler profile 服务的HTTP处理器
type Handler struct {
	profiles       profile.Store
	defaultProfile string
}

// New 创建 profile 处理器
func New(profiles profile.Store, defaultProfile string) *Handler {
	return &Handler{
		profiles:       profiles,
		defaultProfile: defaultProfile,
	}
}

// RegisterRoutes 注册 profile 相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profiles", h.handleListProfiles)
	r.Get("/profiles/{profileID}/moods", h.handleListMoods)
}

type profileList struct {
	Default  string            `json:"default"`
	Profiles []profile.Profile `json:"profiles"`
}

// handleListProfiles 列出所有 profile 及默认项
func (h *Handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, profileList{
		Default:  h.defaultProfile,
		Profiles: h.profiles.List(),
	})
}

type moodList struct {
	ProfileID   string      `json:"profileId"`
	DefaultMood string      `json:"defaultMood"`
	Descriptors bool        `json:"descriptors"`
	Moods       []mood.Mood `json:"moods"`
}

// handleListMoods 返回 profile 的情绪表
func (h *Handler) handleListMoods(w http.ResponseWriter, r *http.Request) {
	p, ok := h.profiles.FindByID(chi.URLParam(r, "profileID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "profile not found")
		return
	}

	registry := p.Registry()
	utils.RespondJSON(w, http.StatusOK, moodList{
		ProfileID:   p.ID,
		DefaultMood: p.DefaultMood,
		Descriptors: registry.HasDescriptors(),
		Moods:       registry.List(),
	})
}
