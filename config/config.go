// Package config loads application configuration from the environment,
// with optional .env file support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the quiz service.
type Config struct {
	// Environment is "development" or "production"; it selects the log
	// handler and defaults to development.
	Environment string

	// Port the HTTP server listens on.
	Port string

	// BodySizeLimit caps request bodies (echo syntax, e.g. "1M").
	BodySizeLimit string

	// RedisURL is the cache backend address. Empty disables the external
	// cache; the service degrades to fail-open in-process behavior.
	RedisURL string

	// DatabaseURL is the PostgreSQL connection string. Empty selects the
	// in-memory quiz store.
	DatabaseURL string

	// DBMaxConns bounds the PostgreSQL connection pool.
	DBMaxConns int

	// GeminiAPIKey authenticates against the Gemini API.
	GeminiAPIKey string

	// GeminiModel overrides the default model.
	GeminiModel string

	// RateLimit is the number of generations allowed per client per window.
	RateLimit int64

	// RateLimitWindow is the fixed rate-limit window.
	RateLimitWindow time.Duration

	// ArticleTTL, QuizTTL, and QuizListTTL bound the cache entries.
	ArticleTTL  time.Duration
	QuizTTL     time.Duration
	QuizListTTL time.Duration

	// GenerationBudget is the wall-clock cap for one generation run.
	GenerationBudget time.Duration

	// GenerationMaxAttempts caps provider calls per run.
	GenerationMaxAttempts int
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		Environment:           getEnv("APP_ENV", "development"),
		Port:                  getEnv("PORT", "8000"),
		BodySizeLimit:         getEnv("BODY_SIZE_LIMIT", "1M"),
		RedisURL:              getEnv("REDIS_URL", ""),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		DBMaxConns:            getEnvInt("DB_MAX_CONNS", 10),
		GeminiAPIKey:          firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"),
		GeminiModel:           getEnv("GEMINI_MODEL", ""),
		RateLimit:             int64(getEnvInt("RATE_LIMIT", 10)),
		RateLimitWindow:       getEnvDuration("RATE_LIMIT_WINDOW", time.Hour),
		ArticleTTL:            getEnvDuration("ARTICLE_CACHE_TTL", 2*time.Hour),
		QuizTTL:               getEnvDuration("QUIZ_CACHE_TTL", time.Hour),
		QuizListTTL:           getEnvDuration("QUIZ_LIST_CACHE_TTL", 5*time.Minute),
		GenerationBudget:      getEnvDuration("GENERATION_BUDGET", 25*time.Second),
		GenerationMaxAttempts: getEnvInt("GENERATION_MAX_ATTEMPTS", 3),
	}

	if cfg.RateLimit < 1 {
		return nil, fmt.Errorf("RATE_LIMIT must be at least 1")
	}
	if cfg.GenerationMaxAttempts < 1 {
		return nil, fmt.Errorf("GENERATION_MAX_ATTEMPTS must be at least 1")
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return ""
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvDuration accepts either plain integers (interpreted as seconds)
// or Go duration strings (e.g., "10m", "1h30m").
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	return defaultVal
}
