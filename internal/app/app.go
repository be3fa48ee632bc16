// Package app provides centralized dependency management and lifecycle
// control for the quiz service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"wikiquiz/config"
	"wikiquiz/internal/cache"
	"wikiquiz/internal/contentcache"
	"wikiquiz/internal/core"
	"wikiquiz/internal/fetcher"
	"wikiquiz/internal/generator"
	"wikiquiz/internal/providers/gemini"
	"wikiquiz/internal/quiz"
	"wikiquiz/internal/ratelimit"
	"wikiquiz/internal/server"
	"wikiquiz/internal/store"
)

// App holds every component of the service.
// The caller must call Shutdown to release resources.
type App struct {
	config  *config.Config
	backend cache.Store
	quizzes core.QuizStore
	server  *server.Server

	shutdownMu sync.Mutex
	shutdown   bool
}

// New wires the full dependency graph from configuration.
func New(ctx context.Context, cfg *config.Config, version string) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	app := &App{config: cfg}

	// Cache backend: Redis when configured, otherwise the fail-open null
	// store. A Redis that is down at startup still yields a working
	// (degraded) service.
	if cfg.RedisURL != "" {
		backend, err := cache.NewRedisStore(cache.RedisConfig{URL: cfg.RedisURL})
		if err != nil {
			return nil, fmt.Errorf("failed to configure cache: %w", err)
		}
		app.backend = backend
	} else {
		slog.Warn("REDIS_URL not set, running without external cache")
		app.backend = cache.NewNullStore()
	}

	// Quiz persistence: PostgreSQL when configured, in-memory otherwise.
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			closeErr := app.backend.Close()
			if closeErr != nil {
				return nil, fmt.Errorf("failed to connect to PostgreSQL: %w (also: cache close error: %v)", err, closeErr)
			}
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		app.quizzes = pg
	} else {
		slog.Warn("DATABASE_URL not set, quizzes persist in memory only")
		app.quizzes = store.NewMemoryStore()
	}

	provider := gemini.New(cfg.GeminiAPIKey, nil)
	if cfg.GeminiModel != "" {
		provider = provider.WithModel(cfg.GeminiModel)
	}

	orchestrator := generator.New(provider, generator.Config{
		MaxAttempts: cfg.GenerationMaxAttempts,
		Budget:      cfg.GenerationBudget,
	})

	contentCache := contentcache.New(app.backend,
		contentcache.WithTTLs(cfg.ArticleTTL, cfg.QuizTTL, cfg.QuizListTTL))
	limiter := ratelimit.New(app.backend, cfg.RateLimit, cfg.RateLimitWindow)

	svc := quiz.NewService(fetcher.New(nil), orchestrator, app.quizzes, contentCache, limiter)

	app.server = server.New(svc, &server.Config{
		BodySizeLimit: cfg.BodySizeLimit,
		Version:       version,
	})

	app.logStartupInfo()
	return app, nil
}

// Start runs the HTTP server. It blocks until the server stops.
func (a *App) Start() error {
	return a.server.Start(":" + a.config.Port)
}

// Shutdown releases all resources. Idempotent; the HTTP server stops
// first so in-flight requests drain before the stores close.
func (a *App) Shutdown(ctx context.Context) error {
	a.shutdownMu.Lock()
	if a.shutdown {
		a.shutdownMu.Unlock()
		return nil
	}
	a.shutdown = true
	a.shutdownMu.Unlock()

	slog.Info("shutting down application...")

	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
	}

	if a.quizzes != nil {
		if err := a.quizzes.Close(); err != nil {
			slog.Error("quiz store close error", "error", err)
			errs = append(errs, fmt.Errorf("quiz store close: %w", err))
		}
	}

	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			slog.Error("cache close error", "error", err)
			errs = append(errs, fmt.Errorf("cache close: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (a *App) logStartupInfo() {
	if a.config.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, every generation will fall back to heuristic questions")
	}
	slog.Info("application configured",
		"environment", a.config.Environment,
		"port", a.config.Port,
		"cache_enabled", a.config.RedisURL != "",
		"postgres_enabled", a.config.DatabaseURL != "",
		"rate_limit", a.config.RateLimit,
		"rate_limit_window", a.config.RateLimitWindow,
	)
}
