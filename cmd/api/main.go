package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/zhouzirui/calm-corner/backend/internal/config"
	"github.com/zhouzirui/calm-corner/backend/internal/handler"
	"github.com/zhouzirui/calm-corner/backend/internal/model/profile"
	"github.com/zhouzirui/calm-corner/backend/internal/observability"
	"github.com/zhouzirui/calm-corner/backend/internal/service/ai"
	"github.com/zhouzirui/calm-corner/backend/internal/service/chat"
	"github.com/zhouzirui/calm-corner/backend/internal/service/wellness"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := observability.Init(os.Stdout, slog.LevelInfo)

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Warn("failed to load .env file, continuing with system environment variables only", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log.Info("configuration loaded", "inference", cfg.Inference, "session_store", cfg.Session.Backend)

	profileStore := profile.NewMemoryStore(profile.Seed())
	if _, ok := profileStore.FindByID(cfg.Wellness.DefaultProfile); !ok {
		log.Error("unknown WELLNESS_PROFILE", "profile", cfg.Wellness.DefaultProfile)
		os.Exit(1)
	}

	store, closeStore, err := newSessionStore(ctx, cfg.Session)
	if err != nil {
		log.Error("failed to initialize session store", "error", err)
		os.Exit(1)
	}
	defer closeStore()
	chatService := chat.NewService(store)

	// Initialize the inference backend. Without one, chat answers 502 while
	// journal and mood keep working.
	generator, err := ai.NewGenerator(ctx, cfg.Inference)
	if err != nil {
		log.Warn("inference backend unavailable, continuing without chat replies", "backend", cfg.Inference.Backend, "error", err)
		generator = ai.Unavailable(fmt.Sprintf("inference backend %q is not configured", cfg.Inference.Backend))
	} else {
		log.Info("inference backend initialized", "backend", cfg.Inference.Backend, "model", cfg.Inference.Model())
	}
	aiService := ai.NewService(generator, cfg.Inference.Timeout)

	wellnessService := wellness.NewService(profileStore, chatService, aiService)
	router := handler.NewRouter(*cfg, profileStore, wellnessService)

	startServer(ctx, cfg.Server, router)
}

func newSessionStore(ctx context.Context, cfg config.SessionConfig) (chat.Store, func(), error) {
	if cfg.Backend != config.SessionStoreRedis {
		return chat.NewMemoryStore(cfg.TTL), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Warn("failed to close redis client", "error", err)
		}
	}
	return chat.NewRedisStore(client, cfg.RedisPrefix, cfg.TTL), closeFn, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("wellness backend listening", "addr", addr)
	if err := runServer(ctx, srv); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
