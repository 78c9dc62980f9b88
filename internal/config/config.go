// Package config reads configuration from environment variables.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LLM provider names.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration values.
type Config struct {
	// GitHub search
	GitHubToken  string
	GitHubAPIURL string

	// OpenDigger metrics
	OpenDiggerBaseURL string

	// File cache for search results and raw metrics
	CacheDir string
	CacheTTL time.Duration

	// SurrealDB connection (profile and session history)
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// LLM profile extraction
	LLMProvider     string
	LLMModel        string
	OllamaHost      string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// Match scoring override, optional YAML file
	MatchConfigFile string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		GitHubToken:  getEnv("REPOSCOUT_GITHUB_TOKEN", os.Getenv("GITHUB_TOKEN")),
		GitHubAPIURL: getEnv("REPOSCOUT_GITHUB_API_URL", "https://api.github.com"),

		OpenDiggerBaseURL: getEnv("REPOSCOUT_OPENDIGGER_URL", "https://oss.open-digger.cn"),

		CacheDir: getEnv("REPOSCOUT_CACHE_DIR", defaultCacheDir()),
		CacheTTL: getEnvDuration("REPOSCOUT_CACHE_TTL", 24*time.Hour),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "reposcout"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "main"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:     getEnv("REPOSCOUT_LLM_PROVIDER", ProviderOllama),
		LLMModel:        getEnv("REPOSCOUT_LLM_MODEL", "llama3.2"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),

		MatchConfigFile: os.Getenv("REPOSCOUT_MATCH_CONFIG"),

		LogFile:  getEnv("REPOSCOUT_LOG_FILE", "/tmp/reposcout.log"),
		LogLevel: parseLogLevel(getEnv("REPOSCOUT_LOG_LEVEL", "INFO")),
	}
}

func defaultCacheDir() string {
	if base, err := os.UserCacheDir(); err == nil {
		return filepath.Join(base, "reposcout")
	}
	return filepath.Join(os.TempDir(), "reposcout-cache")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
