package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Server  ServerConfig
	YouTube YouTubeConfig
	Reddit  RedditConfig
	LLM     LLMConfig
	Gemini  GeminiConfig
	OpenAI  OpenAIConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type YouTubeConfig struct {
	APIKey          string
	TrendingResults int
	ChannelVideos   int
}

type RedditConfig struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	HotPostLimit int
	TokenTTL     time.Duration
}

type LLMConfig struct {
	Provider string
	Model    string
	// BaseURL overrides the provider endpoint, e.g. for a proxy.
	BaseURL string
	Timeout time.Duration
}

type GeminiConfig struct {
	APIKey string
}

type OpenAIConfig struct {
	APIKey string
}

type LoggingConfig struct {
	Level  string
	File   string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr:         getEnv("SERVER_ADDR", ":8080"),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT_SECONDS", 15)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT_SECONDS", 120)) * time.Second,
		},
		YouTube: YouTubeConfig{
			APIKey:          getEnv("YOUTUBE_API_KEY", ""),
			TrendingResults: getEnvInt("YOUTUBE_TRENDING_RESULTS", 10),
			ChannelVideos:   getEnvInt("YOUTUBE_CHANNEL_VIDEOS", 5),
		},
		Reddit: RedditConfig{
			ClientID:     getEnv("REDDIT_CLIENT_ID", ""),
			ClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
			UserAgent:    getEnv("REDDIT_USER_AGENT", "content-strategy-go/1.0"),
			HotPostLimit: getEnvInt("REDDIT_HOT_POST_LIMIT", 10),
			TokenTTL:     time.Duration(getEnvInt("REDDIT_TOKEN_TTL_SECONDS", 3000)) * time.Second,
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
			Model:    getEnv("LLM_MODEL", ""),
			BaseURL:  getEnv("LLM_BASE_URL", ""),
			Timeout:  time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 90)) * time.Second,
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			File:   getEnv("LOG_FILE", ""),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks structural settings only. Secrets are checked per request
// through MissingSecrets so the server can still start and answer with a
// configuration error.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("SERVER_ADDR is required")
	}
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, c.LLM.Provider)
	}
	if c.YouTube.TrendingResults <= 0 || c.YouTube.TrendingResults > 50 {
		return fmt.Errorf("YOUTUBE_TRENDING_RESULTS must be between 1 and 50")
	}
	if c.YouTube.ChannelVideos <= 0 || c.YouTube.ChannelVideos > 50 {
		return fmt.Errorf("YOUTUBE_CHANNEL_VIDEOS must be between 1 and 50")
	}
	if c.Reddit.HotPostLimit <= 0 || c.Reddit.HotPostLimit > 100 {
		return fmt.Errorf("REDDIT_HOT_POST_LIMIT must be between 1 and 100")
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("LLM_TIMEOUT_SECONDS must not be negative")
	}
	if c.Reddit.TokenTTL <= 0 {
		return fmt.Errorf("REDDIT_TOKEN_TTL_SECONDS must be positive")
	}
	return nil
}

// MissingSecrets returns the names of required secrets that are unset.
func (c *Config) MissingSecrets() []string {
	missing := make([]string, 0, 4)
	if c.YouTube.APIKey == "" {
		missing = append(missing, "YOUTUBE_API_KEY")
	}
	if c.Reddit.ClientID == "" {
		missing = append(missing, "REDDIT_CLIENT_ID")
	}
	if c.Reddit.ClientSecret == "" {
		missing = append(missing, "REDDIT_CLIENT_SECRET")
	}
	if c.LLMAPIKey() == "" {
		if c.LLM.Provider == ProviderOpenAI {
			missing = append(missing, "OPENAI_API_KEY")
		} else {
			missing = append(missing, "GEMINI_API_KEY")
		}
	}
	return missing
}

// LLMAPIKey returns the key of the selected provider.
func (c *Config) LLMAPIKey() string {
	if c.LLM.Provider == ProviderOpenAI {
		return c.OpenAI.APIKey
	}
	return c.Gemini.APIKey
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
