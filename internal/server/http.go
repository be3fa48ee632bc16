// Package server provides the HTTP surface of the quiz service.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wikiquiz/internal/quiz"
)

// Server wraps the Echo server
type Server struct {
	echo    *echo.Echo
	handler *Handler
}

// Config holds server configuration options
type Config struct {
	BodySizeLimit string // Max request body size (default: 1M)
	Version       string // Reported by the root and health endpoints
}

// New creates a new HTTP server around the pipeline service.
func New(svc *quiz.Service, cfg *Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	version := "dev"
	bodyLimit := "1M"
	if cfg != nil {
		if cfg.Version != "" {
			version = cfg.Version
		}
		if cfg.BodySizeLimit != "" {
			bodyLimit = cfg.BodySizeLimit
		}
	}

	handler := NewHandler(svc, version)

	// Global middleware stack (order matters)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"error", v.Error)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))

	e.GET("/", handler.Root)
	e.GET("/health", handler.Health)
	e.GET("/metrics", handler.Metrics)
	e.GET("/metrics/prometheus", echo.WrapHandler(promhttp.Handler()))
	e.GET("/rate-limit-status", handler.RateLimitStatus)

	api := e.Group("/api")
	api.POST("/quizzes/generate", handler.GenerateQuiz)
	api.GET("/quizzes", handler.ListQuizzes)
	api.GET("/quizzes/:id", handler.GetQuiz)
	api.POST("/quizzes/:id/submit", handler.SubmitQuiz)
	api.GET("/quizzes/:id/related", handler.RelatedTopics)

	return &Server{
		echo:    e,
		handler: handler,
	}
}

// Start starts the HTTP server on the given address
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP implements the http.Handler interface, allowing Server to be used with httptest
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
