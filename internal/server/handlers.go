package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"wikiquiz/internal/core"
	"wikiquiz/internal/quiz"
)

const maxSearchLen = 200

// Handler holds the HTTP handlers
type Handler struct {
	svc     *quiz.Service
	version string
}

// NewHandler creates a new handler over the pipeline service.
func NewHandler(svc *quiz.Service, version string) *Handler {
	return &Handler{svc: svc, version: version}
}

// GenerateQuizRequest is the body of POST /api/quizzes/generate.
type GenerateQuizRequest struct {
	URL                    string                       `json:"url"`
	QuestionCount          int                          `json:"question_count"`
	DifficultyDistribution *core.DifficultyDistribution `json:"difficulty_distribution"`
}

// SubmitQuizRequest is the body of POST /api/quizzes/:id/submit.
type SubmitQuizRequest struct {
	Answers []quiz.Answer `json:"answers"`
}

// QuizListResponse pages the quiz listing.
type QuizListResponse struct {
	Quizzes []*core.Quiz `json:"quizzes"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	Limit   int          `json:"limit"`
}

// Root handles GET /
func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "AI Wiki Quiz Generator API",
		"version": h.version,
	})
}

// GenerateQuiz handles POST /api/quizzes/generate
func (h *Handler) GenerateQuiz(c echo.Context) error {
	var req GenerateQuizRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, core.NewInvalidInputError("invalid request body: "+err.Error(), err))
	}

	generated, err := h.svc.Generate(c.Request().Context(), clientIdentity(c), quiz.GenerateParams{
		URL:                    req.URL,
		QuestionCount:          req.QuestionCount,
		DifficultyDistribution: req.DifficultyDistribution,
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, generated)
}

// ListQuizzes handles GET /api/quizzes
func (h *Handler) ListQuizzes(c echo.Context) error {
	filter := core.ListFilter{
		Page:       intQuery(c, "page", 1),
		Limit:      intQuery(c, "limit", 10),
		Search:     quiz.SanitizeUserInput(c.QueryParam("search"), maxSearchLen),
		Difficulty: c.QueryParam("difficulty"),
	}

	payload, err := h.svc.List(c.Request().Context(), clientIdentity(c), filter)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, QuizListResponse{
		Quizzes: payload.Quizzes,
		Total:   payload.Total,
		Page:    filter.Page,
		Limit:   filter.Limit,
	})
}

// GetQuiz handles GET /api/quizzes/:id
func (h *Handler) GetQuiz(c echo.Context) error {
	found, err := h.svc.GetQuiz(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, found)
}

// SubmitQuiz handles POST /api/quizzes/:id/submit
func (h *Handler) SubmitQuiz(c echo.Context) error {
	var req SubmitQuizRequest
	if err := c.Bind(&req); err != nil {
		return handleError(c, core.NewInvalidInputError("invalid request body: "+err.Error(), err))
	}

	result, err := h.svc.Submit(c.Request().Context(), c.Param("id"), req.Answers)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// RelatedTopics handles GET /api/quizzes/:id/related
func (h *Handler) RelatedTopics(c echo.Context) error {
	topics, err := h.svc.RelatedTopics(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"related_topics": topics})
}

// Health handles GET /health
func (h *Handler) Health(c echo.Context) error {
	stats := h.svc.CacheStats(c.Request().Context())

	status := "healthy"
	if !stats.Connected {
		status = "degraded"
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
		"services": map[string]any{
			"cache": stats,
			"api":   map[string]string{"status": "healthy"},
		},
	})
}

// Metrics handles GET /metrics
func (h *Handler) Metrics(c echo.Context) error {
	ctx := c.Request().Context()
	stats := h.svc.CacheStats(ctx)

	total, err := h.svc.TotalQuizzes(ctx)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"cache":     stats,
		"api": map[string]any{
			"total_quizzes_generated": total,
			"active_cache_entries":    stats.KeyCount,
			"cache_hit_rate":          stats.HitRate,
		},
	})
}

// RateLimitStatus handles GET /rate-limit-status
func (h *Handler) RateLimitStatus(c echo.Context) error {
	identity := clientIdentity(c)
	return c.JSON(http.StatusOK, map[string]any{
		"client_id":         identity,
		"rate_limit_status": h.svc.RateLimitStatus(c.Request().Context(), identity),
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
	})
}

// clientIdentity derives the rate-limit identity from the proxied client
// address and user agent.
func clientIdentity(c echo.Context) string {
	ip := c.Request().Header.Get("X-Forwarded-For")
	if ip != "" {
		ip = strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	if ip == "" {
		ip = c.Request().Header.Get("X-Real-IP")
	}
	if ip == "" {
		ip = c.RealIP()
	}
	return quiz.ClientIdentity(ip, c.Request().UserAgent())
}

func intQuery(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// handleError converts pipeline errors to appropriate HTTP responses
func handleError(c echo.Context, err error) error {
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		return c.JSON(apiErr.HTTPStatusCode(), apiErr.ToJSON())
	}

	// Fallback for unexpected errors
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": map[string]interface{}{
			"type":    "internal_error",
			"message": "an unexpected error occurred",
		},
	})
}
