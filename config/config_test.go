package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.RateLimit != 10 {
		t.Errorf("RateLimit = %d, want 10", cfg.RateLimit)
	}
	if cfg.RateLimitWindow != time.Hour {
		t.Errorf("RateLimitWindow = %v, want 1h", cfg.RateLimitWindow)
	}
	if cfg.ArticleTTL != 2*time.Hour {
		t.Errorf("ArticleTTL = %v, want 2h", cfg.ArticleTTL)
	}
	if cfg.GenerationBudget != 25*time.Second {
		t.Errorf("GenerationBudget = %v, want 25s", cfg.GenerationBudget)
	}
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("RATE_LIMIT", "3")
	t.Setenv("RATE_LIMIT_WINDOW", "120")
	t.Setenv("QUIZ_CACHE_TTL", "30m")
	t.Setenv("GOOGLE_API_KEY", "from-google-var")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	if cfg.RateLimit != 3 {
		t.Errorf("RateLimit = %d, want 3", cfg.RateLimit)
	}
	// Plain integers read as seconds.
	if cfg.RateLimitWindow != 2*time.Minute {
		t.Errorf("RateLimitWindow = %v, want 2m", cfg.RateLimitWindow)
	}
	if cfg.QuizTTL != 30*time.Minute {
		t.Errorf("QuizTTL = %v, want 30m", cfg.QuizTTL)
	}
	if cfg.GeminiAPIKey != "from-google-var" {
		t.Errorf("GeminiAPIKey = %q, want from-google-var", cfg.GeminiAPIKey)
	}
}

func TestLoadGeminiKeyPrecedence(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "primary")
	t.Setenv("GOOGLE_API_KEY", "fallback")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GeminiAPIKey != "primary" {
		t.Errorf("GeminiAPIKey = %q, want primary", cfg.GeminiAPIKey)
	}
}

func TestLoadRejectsZeroRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for RATE_LIMIT=0")
	}
}
