package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Providers ProvidersConfig
	Slack     SlackConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
	RateLimit    int // requests per second per client, 0 disables limiting
}

// StorageConfig holds the markdown storage settings.
type StorageConfig struct {
	BasePath string
}

// RedisConfig holds optional Redis settings for cross-instance event fan-out.
// An empty Addr keeps fan-out in process memory.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// ProvidersConfig holds AI provider credentials. A provider with an empty
// key is simply not registered.
type ProvidersConfig struct {
	OpenAIKey     string
	AnthropicKey  string
	GeminiKey     string
	EnableMock    bool
	ClientTimeout time.Duration
}

// SlackConfig holds the optional failure-alert webhook.
type SlackConfig struct {
	WebhookURL string
}

// Load reads configuration from environment variables. Defaults are safe
// for local development.
func Load() (*Config, error) {
	redisDB, err := getEnvInt("STORM_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("STORM_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	// Provider calls can take minutes; the write timeout must outlast them.
	writeTimeout, err := getEnvDuration("STORM_SERVER_WRITE_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateLimit, err := getEnvInt("STORM_SERVER_RATE_LIMIT", 10)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	enableMock, err := getEnvBool("STORM_ENABLE_MOCK_PROVIDER", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	clientTimeout, err := getEnvDuration("STORM_PROVIDER_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:         getEnv("STORM_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  getEnvList("STORM_CORS_ORIGINS", []string{"http://localhost:5173"}),
			RateLimit:    rateLimit,
		},
		Storage: StorageConfig{
			BasePath: getEnv("STORM_STORAGE_PATH", "./data"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("STORM_REDIS_ADDR", ""),
			Password: getEnv("STORM_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Providers: ProvidersConfig{
			OpenAIKey:     getEnv("STORM_OPENAI_API_KEY", ""),
			AnthropicKey:  getEnv("STORM_ANTHROPIC_API_KEY", ""),
			GeminiKey:     getEnv("STORM_GEMINI_API_KEY", ""),
			EnableMock:    enableMock,
			ClientTimeout: clientTimeout,
		},
		Slack: SlackConfig{
			WebhookURL: getEnv("STORM_SLACK_WEBHOOK_URL", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.Storage.BasePath == "" {
		return fmt.Errorf("STORM_STORAGE_PATH must not be empty")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("STORM_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("STORM_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("STORM_SERVER_RATE_LIMIT must be >= 0, got %d", c.Server.RateLimit)
	}
	if c.Providers.ClientTimeout <= 0 {
		return fmt.Errorf("STORM_PROVIDER_TIMEOUT must be positive, got %s", c.Providers.ClientTimeout)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
