package generator

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"wikiquiz/internal/core"
)

// Candidate thresholds for sentence-derived questions.
const (
	minStemSentenceLen  = 50
	minStemWordCount    = 5
	minDistractorLen    = 30
	requiredDistractors = 3
)

// placeholderQuestion pads the heuristic result when the article does not
// yield enough candidate sentences. Deliberately identical every time.
func placeholderQuestion() core.Question {
	return core.Question{
		ID:               uuid.NewString(),
		Question:         "What is the main topic of this article?",
		Options:          []string{"The main topic", "A secondary topic", "An unrelated topic", "A different subject"},
		Answer:           "The main topic",
		Difficulty:       core.DifficultyEasy,
		Explanation:      "This question tests basic comprehension of the article content.",
		EvidenceSpan:     core.EvidenceSentinel,
		SectionReference: "General",
	}
}

// heuristicFallback derives questions directly from sentence splitting of
// the article body. Used when the provider yields nothing after all
// attempts, or the time budget is exhausted. Every heuristic question is
// tagged easy.
func heuristicFallback(content string, questionCount int) *core.QuizDraft {
	sentences := strings.Split(content, ".")
	questions := make([]core.Question, 0, questionCount)

	limit := questionCount
	if len(sentences)-1 < limit {
		limit = len(sentences) - 1
	}
	for i := 0; i < limit; i++ {
		sentence := strings.TrimSpace(sentences[i])
		if len(sentence) <= minStemSentenceLen {
			continue
		}
		words := strings.Fields(sentence)
		if len(words) <= minStemWordCount {
			continue
		}

		var distractors []string
		for j := 0; j < requiredDistractors; j++ {
			otherIdx := (i + j + 1) % len(sentences)
			other := strings.TrimSpace(sentences[otherIdx])
			if otherIdx != i && len(other) > minDistractorLen {
				distractors = append(distractors, other)
			}
		}
		if len(distractors) < requiredDistractors {
			continue
		}

		questions = append(questions, core.Question{
			ID:               uuid.NewString(),
			Question:         fmt.Sprintf("What does the article state about %s?", strings.ToLower(words[0])),
			Options:          append([]string{sentence}, distractors[:requiredDistractors]...),
			Answer:           sentence,
			Difficulty:       core.DifficultyEasy,
			Explanation:      fmt.Sprintf("This information is found directly in the article: '%s'", sentence),
			EvidenceSpan:     sentence,
			SectionReference: fmt.Sprintf("Paragraph %d", i+1),
		})
	}

	for len(questions) < questionCount {
		questions = append(questions, placeholderQuestion())
	}

	return &core.QuizDraft{
		Questions:     questions[:questionCount],
		RelatedTopics: []string{"Technology", "Science", "Education"},
		KeyEntities:   core.EmptyKeyEntities(),
	}
}
