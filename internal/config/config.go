package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	Wellness  WellnessConfig
	Inference InferenceConfig
	Session   SessionConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	inference, err := loadInferenceConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server:    server,
		Wellness:  loadWellnessConfig(),
		Inference: inference,
		Session:   session,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate 检查配置之间的约束。
func (c *Config) Validate() error {
	switch c.Inference.Backend {
	case BackendHuggingFace, BackendOpenAI, BackendArk:
	default:
		return fmt.Errorf("unsupported INFERENCE_BACKEND %q", c.Inference.Backend)
	}
	if c.Inference.Timeout <= 0 {
		return fmt.Errorf("INFERENCE_TIMEOUT must be > 0")
	}
	if c.Inference.MaxAttempts < 1 {
		return fmt.Errorf("INFERENCE_MAX_ATTEMPTS must be >= 1")
	}
	switch c.Session.Backend {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Session.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.Session.Backend)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	return nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	origins := splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

// WellnessConfig 描述默认的陪伴风格。
type WellnessConfig struct {
	DefaultProfile string
}

func loadWellnessConfig() WellnessConfig {
	return WellnessConfig{DefaultProfile: getEnvOrDefault("WELLNESS_PROFILE", "spectrum")}
}

// 支持的推理后端。
const (
	BackendHuggingFace = "huggingface"
	BackendOpenAI      = "openai"
	BackendArk         = "ark"
)

// InferenceConfig 描述文本生成端点相关配置。
type InferenceConfig struct {
	Backend     string
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration

	HFToken   string
	HFModel   string
	HFBaseURL string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	Ark ArkConfig
}

// LogValue 输出日志时隐藏密钥。
func (c InferenceConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", c.Backend),
		slog.Duration("timeout", c.Timeout),
		slog.Int("max_attempts", c.MaxAttempts),
		slog.String("model", c.Model()),
		slog.Bool("credentials", c.Enabled()),
	)
}

// Model 返回当前后端使用的模型名。
func (c InferenceConfig) Model() string {
	switch c.Backend {
	case BackendOpenAI:
		return c.OpenAIModel
	case BackendArk:
		return c.Ark.Model
	default:
		return c.HFModel
	}
}

// Enabled 表示当前后端是否提供了必需的密钥。
func (c InferenceConfig) Enabled() bool {
	switch c.Backend {
	case BackendOpenAI:
		return c.OpenAIAPIKey != "" && c.OpenAIModel != ""
	case BackendArk:
		return c.Ark.Enabled()
	default:
		return c.HFToken != "" && c.HFModel != ""
	}
}

// ArkConfig 描述 Ark 大模型相关配置。
type ArkConfig struct {
	APIKey    string
	AccessKey string
	SecretKey string
	Model     string
	BaseURL   string
	Region    string
}

// Enabled 表示是否提供了必需的密钥。
func (c ArkConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
// 温度与最大 token 数由每次调用单独指定，这里不设置默认值。
func (c ArkConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + ARK_MODEL 或 AK/SK 组合")
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:   c.BaseURL,
		Region:    c.Region,
		APIKey:    c.APIKey,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
		Model:     c.Model,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadInferenceConfig() (InferenceConfig, error) {
	timeout, err := parseDurationEnv("INFERENCE_TIMEOUT", 60*time.Second)
	if err != nil {
		return InferenceConfig{}, err
	}

	retryDelay, err := parseDurationEnv("INFERENCE_RETRY_DELAY", 2*time.Second)
	if err != nil {
		return InferenceConfig{}, err
	}

	attempts := 1
	if override, err := parseOptionalIntEnv("INFERENCE_MAX_ATTEMPTS"); err != nil {
		return InferenceConfig{}, err
	} else if override != nil {
		attempts = *override
	}

	return InferenceConfig{
		Backend:     strings.ToLower(getEnvOrDefault("INFERENCE_BACKEND", BackendHuggingFace)),
		Timeout:     timeout,
		MaxAttempts: attempts,
		RetryDelay:  retryDelay,

		HFToken:   strings.TrimSpace(os.Getenv("HF_TOKEN")),
		HFModel:   getEnvOrDefault("HF_MODEL", "meta-llama/Llama-3.1-8B-Instruct"),
		HFBaseURL: getEnvOrDefault("HF_BASE_URL", "https://router.huggingface.co/hf-inference"),

		OpenAIAPIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL: getEnvOrDefault("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnvOrDefault("OPENAI_MODEL", "gpt-3.5-turbo-instruct"),

		Ark: ArkConfig{
			APIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
			AccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
			Model:     strings.TrimSpace(os.Getenv("ARK_MODEL")),
			BaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
			Region:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
		},
	}, nil
}

// 会话存储后端。
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// SessionConfig 描述会话状态的存放位置与生命周期。
type SessionConfig struct {
	Backend       string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

func loadSessionConfig() (SessionConfig, error) {
	ttl, err := parseDurationEnv("SESSION_TTL", 60*time.Minute)
	if err != nil {
		return SessionConfig{}, err
	}

	db := 0
	if override, err := parseOptionalIntEnv("REDIS_DB"); err != nil {
		return SessionConfig{}, err
	} else if override != nil {
		db = *override
	}

	return SessionConfig{
		Backend:       strings.ToLower(getEnvOrDefault("SESSION_STORE", SessionStoreMemory)),
		TTL:           ttl,
		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       db,
		RedisPrefix:   getEnvOrDefault("REDIS_PREFIX", "wellness"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	// 纯数字按秒处理。
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
