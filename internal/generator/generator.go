// Package generator orchestrates quiz generation against an unreliable
// external text-generation provider with layered fallback: retried model
// calls, a parse/repair degradation chain, and a heuristic sentence-based
// generator that always produces output.
package generator

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"wikiquiz/internal/core"
)

// Config bounds one generation run.
type Config struct {
	// MaxAttempts caps provider calls per run (default 3).
	MaxAttempts int
	// Budget is the hard wall-clock limit for the whole run (default 25s).
	// On exhaustion the run short-circuits to the heuristic fallback.
	Budget time.Duration
	// MaxContentLength truncates article text before prompting (default 8000).
	MaxContentLength int
}

// DefaultConfig returns the production generation bounds.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:      3,
		Budget:           25 * time.Second,
		MaxContentLength: 8000,
	}
}

// Orchestrator produces validated quiz drafts.
type Orchestrator struct {
	provider core.TextGenerator
	cfg      Config
	parsers  []parser

	// Injection points for deterministic tests.
	sleep func(time.Duration)
	now   func() time.Time
}

// New creates an Orchestrator over the given provider. Zero config fields
// fall back to defaults.
func New(provider core.TextGenerator, cfg Config) *Orchestrator {
	def := DefaultConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.Budget <= 0 {
		cfg.Budget = def.Budget
	}
	if cfg.MaxContentLength <= 0 {
		cfg.MaxContentLength = def.MaxContentLength
	}
	return &Orchestrator{
		provider: provider,
		cfg:      cfg,
		parsers:  defaultParsers(),
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// Generate runs the full pipeline for one request. It fails fast on
// invalid input, retries transient provider faults with exponential
// backoff, degrades through the parse chain, and falls back to heuristic
// questions rather than surfacing provider or timeout errors. The only
// post-fallback failure is structural validation.
func (o *Orchestrator) Generate(ctx context.Context, req core.GenerateRequest) (*core.QuizDraft, error) {
	if req.Title == "" || req.Content == "" {
		return nil, core.NewInvalidInputError("title and content are required", nil)
	}
	if req.QuestionCount < core.MinQuestionCount || req.QuestionCount > core.MaxQuestionCount {
		return nil, core.NewInvalidInputError("question count must be between 5 and 10", nil)
	}

	dist := normalizeDistribution(req.DifficultyDistribution, req.QuestionCount)
	content := truncate(req.Content, o.cfg.MaxContentLength)
	deadline := o.now().Add(o.cfg.Budget)

	attemptCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	draft := o.attemptGeneration(attemptCtx, req.Title, content, req.QuestionCount, dist, deadline)

	if draft == nil || len(draft.Questions) == 0 {
		slog.Warn("provider yielded no questions, using heuristic fallback", "title", req.Title)
		draft = heuristicFallback(content, req.QuestionCount)
	}

	postProcess(draft)

	if err := validateDraft(draft, req.QuestionCount, content); err != nil {
		return nil, err
	}

	slog.Info("quiz generated", "title", req.Title, "questions", len(draft.Questions))
	return draft, nil
}

// attemptGeneration runs the provider/parse loop. Provider faults consume
// an attempt and back off 2^attempt seconds, except when the backoff would
// run past the deadline, which ends the loop instead. Parse failures
// consume an attempt without backing off against the provider. Returns nil
// when no attempt produced questions or the budget ran out.
func (o *Orchestrator) attemptGeneration(ctx context.Context, title, content string, questionCount int, dist core.DifficultyDistribution, deadline time.Time) *core.QuizDraft {
	prompt := buildPrompt(title, content, questionCount, dist)

	for attempt := 0; attempt < o.cfg.MaxAttempts; attempt++ {
		if !o.now().Before(deadline) {
			slog.Warn("generation budget exhausted", "attempt", attempt)
			return nil
		}

		raw, err := o.provider.Generate(ctx, prompt)
		if err != nil {
			slog.Warn("provider call failed", "attempt", attempt+1, "error", err)
			if attempt < o.cfg.MaxAttempts-1 {
				wait := backoff(attempt)
				if !o.now().Add(wait).Before(deadline) {
					slog.Warn("generation budget exhausted", "attempt", attempt+1)
					return nil
				}
				o.sleep(wait)
			}
			continue
		}

		draft := runParsers(o.parsers, raw)
		if len(draft.Questions) > 0 {
			return draft
		}
		slog.Warn("no questions parsed from response", "attempt", attempt+1)
	}
	return nil
}

// backoff returns 2^attempt seconds.
func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

// normalizeDistribution derives defaults when absent and forces the sum to
// equal questionCount by absorbing any shortfall or excess into medium.
// An over-supplied easy+hard can drive medium negative; that is accepted.
func normalizeDistribution(supplied *core.DifficultyDistribution, questionCount int) core.DifficultyDistribution {
	var dist core.DifficultyDistribution
	if supplied == nil {
		dist = core.DifficultyDistribution{
			Easy:   maxInt(2, questionCount/3),
			Medium: maxInt(2, questionCount/2),
			Hard:   maxInt(1, questionCount-(questionCount/3+questionCount/2)),
		}
	} else {
		dist = *supplied
	}

	if sum := dist.Sum(); sum != questionCount {
		dist.Medium += questionCount - sum
	}
	return dist
}

// truncate bounds raw text, appending an ellipsis marker. The cut lands on
// raw characters, not a sentence boundary.
func truncate(content string, maxLen int) string {
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	return string(runes[:maxLen]) + "..."
}

// postProcess backfills missing ids and evidence spans.
func postProcess(draft *core.QuizDraft) {
	for i := range draft.Questions {
		q := &draft.Questions[i]
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if q.EvidenceSpan == "" {
			if q.SectionReference != "" {
				q.EvidenceSpan = q.SectionReference
			} else {
				q.EvidenceSpan = core.EvidenceSentinel
			}
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
