// Package config loads process settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

const (
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel   = "qwen/qwen-2.5-72b-instruct:free"
	DefaultGeminiModel       = "gemini-1.5-flash"
)

type Config struct {
	// Model settings
	LLMProvider    string // "openrouter" or "gemini"
	LLMAPIKey      string
	LLMModel       string
	LLMBaseURL     string // only used by the OpenAI-compatible backend
	LLMTimeout     time.Duration
	LLMMaxRequests int // maximum model requests per session (0 = unlimited)

	// Storage settings
	DatabasePath string // sqlite file
	DatabaseURL  string // postgres DSN, wins over DatabasePath when set

	// Fetch settings
	RequestTimeout  time.Duration
	UserAgent       string
	MaxFeedArticles int
	SourcesPath     string

	// App settings
	Debug             bool
	MonitoringEnabled bool
	MonitoringPort    string
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		LLMProvider:     ProviderOpenRouter,
		LLMTimeout:      60 * time.Second,
		DatabasePath:    "news.db",
		RequestTimeout:  10 * time.Second,
		UserAgent:       "Mozilla/5.0",
		MaxFeedArticles: 5,
		SourcesPath:     "configs/sources.yaml",
		MonitoringPort:  "8080",
	}

	if p := os.Getenv("LLM_PROVIDER"); p != "" {
		cfg.LLMProvider = strings.ToLower(strings.TrimSpace(p))
	}

	switch cfg.LLMProvider {
	case ProviderGemini:
		cfg.LLMAPIKey = os.Getenv("GEMINI_API_KEY")
		cfg.LLMModel = getEnvOrDefault("LLM_MODEL", DefaultGeminiModel)
	default:
		cfg.LLMAPIKey = os.Getenv("OPENROUTER_API_KEY")
		cfg.LLMModel = getEnvOrDefault("LLM_MODEL", DefaultOpenRouterModel)
		cfg.LLMBaseURL = getEnvOrDefault("LLM_BASE_URL", DefaultOpenRouterBaseURL)
	}

	cfg.LLMTimeout = getEnvDurationOrDefault("LLM_TIMEOUT", cfg.LLMTimeout)
	if v := os.Getenv("LLM_MAX_REQUESTS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.LLMMaxRequests = val
		}
	}

	// Storage settings
	cfg.DatabasePath = getEnvOrDefault("DATABASE_PATH", cfg.DatabasePath)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.RequestTimeout = getEnvDurationOrDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.UserAgent = getEnvOrDefault("USER_AGENT", cfg.UserAgent)
	if v := os.Getenv("MAX_FEED_ARTICLES"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.MaxFeedArticles = val
		}
	}
	cfg.SourcesPath = getEnvOrDefault("SOURCES_CONFIG_PATH", cfg.SourcesPath)

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}
	cfg.MonitoringEnabled = os.Getenv("ENABLE_HTTP_MONITORING") == "true"
	cfg.MonitoringPort = getEnvOrDefault("MONITORING_PORT", cfg.MonitoringPort)

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("15s") or plain seconds ("15").
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs := getEnvIntOrDefault(key, 0); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// APIKeyEnv names the variable holding the credential for the provider.
func (c *Config) APIKeyEnv() string {
	if c.LLMProvider == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENROUTER_API_KEY"
}

func (c *Config) Validate() error {
	if c.LLMProvider != ProviderOpenRouter && c.LLMProvider != ProviderGemini {
		return fmt.Errorf("LLM_PROVIDER must be '%s' or '%s'", ProviderOpenRouter, ProviderGemini)
	}
	if c.LLMAPIKey == "" {
		return fmt.Errorf("%s is required", c.APIKeyEnv())
	}
	if c.DatabaseURL == "" && c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH or DATABASE_URL is required")
	}
	return nil
}
