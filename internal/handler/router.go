package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/calm-corner/backend/internal/config"
	"github.com/zhouzirui/calm-corner/backend/internal/handler/chat"
	"github.com/zhouzirui/calm-corner/backend/internal/handler/live"
	"github.com/zhouzirui/calm-corner/backend/internal/handler/profile"
	"github.com/zhouzirui/calm-corner/backend/internal/handler/stream"
	middlewarePkg "github.com/zhouzirui/calm-corner/backend/internal/middleware"
	profileModel "github.com/zhouzirui/calm-corner/backend/internal/model/profile"
	"github.com/zhouzirui/calm-corner/backend/internal/service/wellness"
	"github.com/zhouzirui/calm-corner/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(cfg config.Config, profiles profileModel.Store, svc *wellness.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(cfg.Server.AllowedOrigins))

	profileHandler := profile.New(profiles, cfg.Wellness.DefaultProfile)
	chatHandler := chat.New(svc, cfg.Wellness.DefaultProfile)
	streamHandler := stream.New(svc)
	liveHandler := live.NewWebSocketHandler(svc, cfg.Server.AllowedOrigins)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{
				"status":    "ok",
				"inference": cfg.Inference.Backend,
				"sessions":  cfg.Session.Backend,
			})
		})

		profileHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		streamHandler.RegisterRoutes(api)
		liveHandler.RegisterRoutes(api)
	})

	return r
}
