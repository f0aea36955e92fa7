package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zhouzirui/calm-corner/backend/internal/config"
	"github.com/zhouzirui/calm-corner/backend/internal/observability"
)

var (
	// ErrUpstream means the inference endpoint was unreachable, rejected the request or timed out.
	ErrUpstream = errors.New("inference endpoint failed")
	// ErrEmptyResponse means the endpoint answered with an empty or whitespace-only completion.
	ErrEmptyResponse = errors.New("inference endpoint returned an empty completion")
)

// Params are the decoding parameters of one completion.
type Params struct {
	MaxNewTokens int
	Temperature  float64
}

// Generator performs one raw text completion against a hosted model.
type Generator interface {
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}

// Service encapsulates the wellness response call.
type Service struct {
	generator Generator
	timeout   time.Duration
}

// NewService wraps generator. A non-positive timeout leaves deadlines to the caller's context.
func NewService(generator Generator, timeout time.Duration) *Service {
	return &Service{generator: generator, timeout: timeout}
}

// Respond runs a single completion for prompt and returns the trimmed text.
// Failures are reported once; the service itself never retries.
func (s *Service) Respond(ctx context.Context, prompt string, maxNewTokens int, temperature float64) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log := observability.LoggerFromContext(ctx)
	started := time.Now()

	text, err := s.generator.Generate(ctx, prompt, Params{MaxNewTokens: maxNewTokens, Temperature: temperature})
	if err != nil {
		log.Warn("completion failed", "error", err, "elapsed", time.Since(started))
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		log.Warn("completion was empty", "elapsed", time.Since(started))
		return "", ErrEmptyResponse
	}

	log.Info("completion generated", "prompt_length", len(prompt), "length", len(trimmed), "elapsed", time.Since(started))
	return trimmed, nil
}

// NewGenerator builds the backend selected by cfg, applying the retry policy when
// more than one attempt is configured.
func NewGenerator(ctx context.Context, cfg config.InferenceConfig) (Generator, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("credentials or model missing for inference backend %q", cfg.Backend)
	}

	var gen Generator
	switch cfg.Backend {
	case config.BackendOpenAI:
		gen = NewOpenAICompletionClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	case config.BackendArk:
		chatModel, err := cfg.Ark.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		gen, err = NewChatModelGenerator(ctx, chatModel)
		if err != nil {
			return nil, err
		}
	case config.BackendHuggingFace:
		gen = NewHuggingFaceClient(cfg.HFBaseURL, cfg.HFModel, cfg.HFToken, &http.Client{Timeout: cfg.Timeout})
	default:
		return nil, fmt.Errorf("unsupported inference backend %q", cfg.Backend)
	}

	return WithRetry(gen, cfg.MaxAttempts, cfg.RetryDelay), nil
}

// Unavailable is a Generator that always fails with reason. It keeps the API
// serving journal and mood routes when no backend could be configured.
type Unavailable string

// Generate implements Generator.
func (u Unavailable) Generate(context.Context, string, Params) (string, error) {
	return "", errors.New(string(u))
}
