// Package quiz is the pipeline controller: it sequences rate limiting,
// article caching and fetching, generation, persistence, and cache
// population for every quiz operation the API exposes.
package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"wikiquiz/internal/contentcache"
	"wikiquiz/internal/core"
	"wikiquiz/internal/ratelimit"
)

const maxURLLen = 500

// Wikipedia hosts accepted by the generation endpoint. Everything is
// canonicalized onto en.wikipedia.org before fetching.
var allowedHosts = map[string]bool{
	"en.wikipedia.org":   true,
	"wikipedia.org":      true,
	"www.wikipedia.org":  true,
	"en.m.wikipedia.org": true,
	"m.wikipedia.org":    true,
}

var unsafeURLChars = regexp.MustCompile(`[<>'"\s]`)

// DraftGenerator produces a quiz draft for a generation request.
type DraftGenerator interface {
	Generate(ctx context.Context, req core.GenerateRequest) (*core.QuizDraft, error)
}

// Service wires the full generation pipeline.
type Service struct {
	fetcher   core.ContentFetcher
	generator DraftGenerator
	store     core.QuizStore
	cache     *contentcache.Cache
	limiter   *ratelimit.Limiter

	// Concurrent generations for the same article collapse into one
	// provider run, keyed by the content fingerprint.
	group singleflight.Group
}

// NewService assembles the pipeline controller.
func NewService(fetcher core.ContentFetcher, gen DraftGenerator, store core.QuizStore, cache *contentcache.Cache, limiter *ratelimit.Limiter) *Service {
	return &Service{
		fetcher:   fetcher,
		generator: gen,
		store:     store,
		cache:     cache,
		limiter:   limiter,
	}
}

// SanitizeWikipediaURL validates raw against the allowed Wikipedia hosts
// and returns the canonical https://en.wikipedia.org form of its path.
func SanitizeWikipediaURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", core.NewInvalidInputError("invalid URL", err)
	}
	if !allowedHosts[parsed.Host] {
		return "", core.NewInvalidInputError(fmt.Sprintf("invalid Wikipedia domain: %s", parsed.Host), nil)
	}
	if parsed.Scheme != "https" {
		return "", core.NewInvalidInputError("URL must use HTTPS protocol", nil)
	}
	if parsed.Path == "" || parsed.Path == "/" {
		return "", core.NewInvalidInputError("URL must contain a specific article path", nil)
	}

	safe := "https://en.wikipedia.org" + parsed.Path
	if len(safe) > maxURLLen {
		return "", core.NewInvalidInputError("URL too long", nil)
	}
	if unsafeURLChars.MatchString(safe) {
		return "", core.NewInvalidInputError("URL contains unsafe characters", nil)
	}
	return safe, nil
}

// GenerateParams is the input to Generate.
type GenerateParams struct {
	URL                    string
	QuestionCount          int
	DifficultyDistribution *core.DifficultyDistribution
}

// Generate runs the whole pipeline for one client request: rate limit,
// article cache or fetch, deduplicated generation, persistence, and cache
// population.
func (s *Service) Generate(ctx context.Context, identity string, params GenerateParams) (*core.Quiz, error) {
	if !s.limiter.TryAcquire(ctx, identity) {
		status := s.limiter.Status(ctx, identity)
		rateLimitRejections.Inc()
		return nil, core.NewRateLimitError(fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", status.ResetsIn))
	}

	safeURL, err := SanitizeWikipediaURL(params.URL)
	if err != nil {
		return nil, err
	}

	article := s.cache.GetArticle(ctx, safeURL)
	if article != nil {
		articleCacheHits.Inc()
		slog.Info("using cached article content", "url", safeURL)
	} else {
		articleCacheMisses.Inc()
		start := time.Now()
		article, err = s.fetcher.Fetch(ctx, safeURL)
		if err != nil {
			return nil, err
		}
		slog.Info("article fetched", "title", article.Title, "duration", time.Since(start))
		s.cache.PutArticle(ctx, safeURL, article)
	}

	count := params.QuestionCount
	if count == 0 {
		count = 8
	}

	key := core.Fingerprint(article.Content)
	result, err, shared := s.group.Do(key, func() (any, error) {
		return s.generate(ctx, safeURL, article, count, params.DifficultyDistribution)
	})
	if err != nil {
		generationFailures.Inc()
		return nil, err
	}
	if shared {
		slog.Info("joined in-flight generation", "fingerprint", key)
	}

	quizzesGenerated.Inc()
	return result.(*core.Quiz), nil
}

func (s *Service) generate(ctx context.Context, safeURL string, article *core.ArticleContent, count int, dist *core.DifficultyDistribution) (*core.Quiz, error) {
	start := time.Now()
	draft, err := s.generator.Generate(ctx, core.GenerateRequest{
		Title:                  article.Title,
		Content:                article.Content,
		QuestionCount:          count,
		DifficultyDistribution: dist,
	})
	if err != nil {
		return nil, err
	}
	generationDuration.Observe(time.Since(start).Seconds())

	quiz := &core.Quiz{
		ID:                     uuid.NewString(),
		URL:                    safeURL,
		Title:                  article.Title,
		Summary:                article.Summary,
		KeyEntities:            article.KeyEntities,
		Sections:               article.Sections,
		Questions:              draft.Questions,
		RelatedTopics:          draft.RelatedTopics,
		GeneratedAt:            time.Now().UTC(),
		DifficultyDistribution: draft.TallyDifficulties(),
	}

	if err := s.store.Save(ctx, quiz); err != nil {
		return nil, err
	}
	s.cache.PutQuiz(ctx, quiz)
	s.cache.InvalidateQuizLists(ctx)

	slog.Info("quiz persisted", "id", quiz.ID, "title", quiz.Title, "questions", len(quiz.Questions))
	return quiz, nil
}

// GetQuiz returns a quiz by id through the three-tier read path.
func (s *Service) GetQuiz(ctx context.Context, id string) (*core.Quiz, error) {
	quiz, err := s.cache.GetQuiz(ctx, id, s.store)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, core.NewNotFoundError("Quiz not found")
	}
	return quiz, nil
}

// List returns a page of quizzes. The plain first page is served from and
// written through the per-client list cache.
func (s *Service) List(ctx context.Context, identity string, filter core.ListFilter) (*contentcache.QuizListPayload, error) {
	if filter.Difficulty != "" && !core.ValidDifficulty(filter.Difficulty) {
		return nil, core.NewInvalidInputError("Invalid difficulty level", nil)
	}

	if filter.Unfiltered() {
		if payload := s.cache.GetQuizList(ctx, identity); payload != nil {
			slog.Info("using cached quiz list", "identity", identity)
			return payload, nil
		}
	}

	quizzes, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	payload := &contentcache.QuizListPayload{Quizzes: quizzes, Total: total}

	if filter.Unfiltered() {
		s.cache.PutQuizList(ctx, identity, payload)
	}
	return payload, nil
}

// Answer is one submitted response.
type Answer struct {
	QuestionID     string `json:"question_id"`
	SelectedOption string `json:"selected_option"`
}

// QuestionResult grades one question of a submission.
type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
}

// SubmitResult is the graded outcome of a quiz submission.
type SubmitResult struct {
	QuizID              string           `json:"quiz_id"`
	Score               int              `json:"score"`
	CorrectAnswers      int              `json:"correct_answers"`
	TotalQuestions      int              `json:"total_questions"`
	Results             []QuestionResult `json:"results"`
	PerformanceFeedback string           `json:"performance_feedback"`
	SuggestedTopics     []string         `json:"suggested_topics"`
}

// Submit grades the answers against the stored quiz.
func (s *Service) Submit(ctx context.Context, id string, answers []Answer) (*SubmitResult, error) {
	quiz, err := s.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]string, len(answers))
	for _, a := range answers {
		selected[a.QuestionID] = a.SelectedOption
	}

	var correct int
	results := make([]QuestionResult, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		userAnswer := selected[q.ID]
		isCorrect := userAnswer == q.Answer
		if isCorrect {
			correct++
		}
		results = append(results, QuestionResult{
			QuestionID:    q.ID,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.Answer,
			IsCorrect:     isCorrect,
			Explanation:   q.Explanation,
		})
	}

	score := 0
	if len(quiz.Questions) > 0 {
		score = correct * 100 / len(quiz.Questions)
	}

	return &SubmitResult{
		QuizID:              quiz.ID,
		Score:               score,
		CorrectAnswers:      correct,
		TotalQuestions:      len(quiz.Questions),
		Results:             results,
		PerformanceFeedback: performanceFeedback(score),
		SuggestedTopics:     quiz.RelatedTopics,
	}, nil
}

func performanceFeedback(score int) string {
	switch {
	case score >= 90:
		return "Excellent! You have mastered this topic."
	case score >= 70:
		return "Good job! You have a solid understanding."
	case score >= 50:
		return "Not bad! Keep studying to improve your knowledge."
	default:
		return "Keep practicing! Review the material and try again."
	}
}

// RelatedTopics returns the related topic list of a quiz.
func (s *Service) RelatedTopics(ctx context.Context, id string) ([]string, error) {
	quiz, err := s.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	return quiz.RelatedTopics, nil
}

// RateLimitStatus reports the client's position in the current window.
func (s *Service) RateLimitStatus(ctx context.Context, identity string) core.RateLimitStatus {
	return s.limiter.Status(ctx, identity)
}

// CacheStats exposes cache backend statistics for health and metrics.
func (s *Service) CacheStats(ctx context.Context) core.CacheStats {
	return s.cache.Stats(ctx)
}

// TotalQuizzes returns the number of persisted quizzes.
func (s *Service) TotalQuizzes(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// ClientIdentity derives the stable rate-limit identity from the caller's
// network address and user agent.
func ClientIdentity(clientIP, userAgent string) string {
	if clientIP == "" {
		clientIP = "unknown"
	}
	if userAgent == "" {
		userAgent = "unknown"
	}
	return core.Fingerprint(clientIP + ":" + userAgent)
}

// SanitizeUserInput strips markup and control characters from free-text
// input and caps its length.
func SanitizeUserInput(text string, maxLen int) string {
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	var sb strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case inTag || r < ' ':
		default:
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}
