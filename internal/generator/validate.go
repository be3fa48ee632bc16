package generator

import (
	"fmt"
	"log/slog"
	"strings"

	"wikiquiz/internal/core"
)

// validateDraft enforces the structural invariants of every question and
// logs the soft checks. Structural defects fail the whole generation;
// count mismatch and weak grounding only warn.
func validateDraft(draft *core.QuizDraft, expectedCount int, articleContent string) error {
	for i, q := range draft.Questions {
		if q.ID == "" || q.Question == "" || q.Answer == "" || q.Explanation == "" || q.EvidenceSpan == "" {
			return core.NewValidationError(fmt.Sprintf("question %d missing required fields", i), nil)
		}
		if len(q.Options) != 4 {
			return core.NewValidationError(fmt.Sprintf("question %d must have exactly 4 options, got %d", i, len(q.Options)), nil)
		}
		if !core.ValidDifficulty(q.Difficulty) {
			return core.NewValidationError(fmt.Sprintf("question %d has invalid difficulty %q", i, q.Difficulty), nil)
		}
		if !contains(q.Options, q.Answer) {
			return core.NewValidationError(fmt.Sprintf("question %d answer is not one of the options", i), nil)
		}

		if articleContent != "" && !grounded(q, articleContent) {
			slog.Warn("question not grounded in article content", "index", i, "question", q.Question)
		}
	}

	if len(draft.Questions) != expectedCount {
		slog.Warn("question count mismatch", "expected", expectedCount, "got", len(draft.Questions))
	}

	return nil
}

// grounded reports whether the question is textually supported by the
// article: the answer (or any option) appears in the lower-cased source,
// and at least half of the question's significant words do too.
func grounded(q core.Question, articleContent string) bool {
	content := strings.ToLower(articleContent)

	answerInContent := strings.Contains(content, strings.ToLower(q.Answer))
	if !answerInContent {
		for _, opt := range q.Options {
			if strings.Contains(content, strings.ToLower(opt)) {
				answerInContent = true
				break
			}
		}
	}
	if !answerInContent {
		return false
	}

	var keyTerms, found int
	for _, term := range strings.Fields(strings.ToLower(q.Question)) {
		if len(term) <= 3 {
			continue
		}
		keyTerms++
		if strings.Contains(content, term) {
			found++
		}
	}
	if keyTerms == 0 {
		return false
	}
	return float64(found)/float64(keyTerms) >= 0.5
}

func contains(opts []string, s string) bool {
	for _, o := range opts {
		if o == s {
			return true
		}
	}
	return false
}
