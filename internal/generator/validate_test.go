package generator

import (
	"errors"
	"testing"

	"wikiquiz/internal/core"
)

func goodQuestion() core.Question {
	return core.Question{
		ID:           "q1",
		Question:     "The Go programming language was designed at which company?",
		Options:      []string{"Google", "Microsoft", "Apple", "IBM"},
		Answer:       "Google",
		Difficulty:   core.DifficultyEasy,
		Explanation:  "The article states Go was designed at Google.",
		EvidenceSpan: "designed at Google",
	}
}

const goArticle = "Go is a statically typed, compiled programming language designed at Google by Robert Griesemer, Rob Pike, and Ken Thompson."

func TestValidateDraftAcceptsWellFormed(t *testing.T) {
	draft := &core.QuizDraft{Questions: []core.Question{goodQuestion()}}
	if err := validateDraft(draft, 1, goArticle); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDraftStructuralFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*core.Question)
	}{
		{"missing id", func(q *core.Question) { q.ID = "" }},
		{"missing question", func(q *core.Question) { q.Question = "" }},
		{"missing answer", func(q *core.Question) { q.Answer = "" }},
		{"missing explanation", func(q *core.Question) { q.Explanation = "" }},
		{"missing evidence", func(q *core.Question) { q.EvidenceSpan = "" }},
		{"three options", func(q *core.Question) { q.Options = q.Options[:3] }},
		{"five options", func(q *core.Question) { q.Options = append(q.Options, "Oracle") }},
		{"invalid difficulty", func(q *core.Question) { q.Difficulty = "extreme" }},
		{"answer not an option", func(q *core.Question) { q.Answer = "Netscape" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := goodQuestion()
			tt.mutate(&q)
			err := validateDraft(&core.QuizDraft{Questions: []core.Question{q}}, 1, goArticle)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var apiErr *core.APIError
			if !errors.As(err, &apiErr) || apiErr.Type != core.ErrorTypeValidation {
				t.Fatalf("want validation_error, got %v", err)
			}
		})
	}
}

func TestValidateDraftCountMismatchIsSoft(t *testing.T) {
	// One question against an expectation of five only warns.
	draft := &core.QuizDraft{Questions: []core.Question{goodQuestion()}}
	if err := validateDraft(draft, 5, goArticle); err != nil {
		t.Fatalf("count mismatch must not fail: %v", err)
	}
}

func TestValidateDraftUngroundedIsSoft(t *testing.T) {
	draft := &core.QuizDraft{Questions: []core.Question{goodQuestion()}}
	if err := validateDraft(draft, 1, "An entirely unrelated body of text about marine biology and coral reefs."); err != nil {
		t.Fatalf("weak grounding must not fail: %v", err)
	}
}

func TestGrounded(t *testing.T) {
	q := goodQuestion()

	if !grounded(q, goArticle) {
		t.Error("expected question to be grounded in the source article")
	}
	if grounded(q, "Coral reefs are underwater ecosystems held together by calcium carbonate structures.") {
		t.Error("expected question to be ungrounded in unrelated text")
	}
}
