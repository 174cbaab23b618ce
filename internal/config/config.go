package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Oracle providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

type Config struct {
	Port        string `env:"PORT"        envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelRaw string `env:"LOG_LEVEL"   envDefault:"info"`
	LogLevel    slog.Level

	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	OracleProvider    string        `env:"ORACLE_PROVIDER"     envDefault:"gemini"`
	GeminiAPIKey      string        `env:"GEMINI_API_KEY"`
	GeminiModel       string        `env:"GEMINI_MODEL"        envDefault:"gemini-2.5-flash"`
	GeminiProject     string        `env:"GEMINI_PROJECT"`
	GeminiLocation    string        `env:"GEMINI_LOCATION"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"     envDefault:"https://api.openai.com/v1"`
	OpenAIModel       string        `env:"OPENAI_MODEL"        envDefault:"gpt-4o-mini"`
	OracleTimeout     time.Duration `env:"ORACLE_TIMEOUT"      envDefault:"120s"`
	OracleMaxAttempts int           `env:"ORACLE_MAX_ATTEMPTS" envDefault:"3"`
	OracleBackoff     time.Duration `env:"ORACLE_BACKOFF"      envDefault:"1s"`

	VillagerCount   int    `env:"VILLAGER_COUNT"    envDefault:"10"`
	WorldLayoutPath string `env:"WORLD_LAYOUT_PATH"`
	DefaultLocale   string `env:"DEFAULT_LOCALE"    envDefault:"zh-Hans"`

	SessionTTL  time.Duration `env:"SESSION_TTL"  envDefault:"24h"`
	ArchivePath string        `env:"ARCHIVE_PATH" envDefault:"gossip-village.db"`
	WorkerID    string        `env:"WORKER_ID"    envDefault:"worker-1"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	switch c.OracleProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" && c.GeminiProject == "" {
			return fmt.Errorf("GEMINI_API_KEY or GEMINI_PROJECT is required for the gemini provider")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("unknown ORACLE_PROVIDER %q", c.OracleProvider)
	}
	if c.OracleMaxAttempts < 1 {
		return fmt.Errorf("ORACLE_MAX_ATTEMPTS must be at least 1")
	}
	if c.VillagerCount < 1 {
		return fmt.Errorf("VILLAGER_COUNT must be at least 1")
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
