package generator

import (
	"fmt"

	"wikiquiz/internal/core"
)

// formatContract describes the output shape the provider must produce.
// It is embedded verbatim in every generation prompt.
const formatContract = `Respond with a single JSON object and nothing else, using this exact shape:
{
  "questions": [
    {
      "id": "unique question identifier",
      "question": "the quiz question text",
      "options": ["option 1", "option 2", "option 3", "option 4"],
      "answer": "the correct answer, copied exactly from options",
      "difficulty": "easy | medium | hard",
      "explanation": "explanation of the correct answer",
      "evidence_span": "short quote or section title that supports the answer",
      "section_reference": "which article section this relates to"
    }
  ],
  "related_topics": ["suggested related topics"],
  "key_entities": {"people": [], "organizations": [], "locations": []}
}`

// buildPrompt renders the generation prompt for an article.
func buildPrompt(title, content string, questionCount int, dist core.DifficultyDistribution) string {
	return fmt.Sprintf(`Generate %d quiz questions from this article.
Title: %s
Content: %s
Difficulty: {"easy": %d, "medium": %d, "hard": %d}
Create questions with 4 options each, correct answer, difficulty level, brief explanation, evidence_span, and section_reference. Use only article content.
%s`,
		questionCount, title, content, dist.Easy, dist.Medium, dist.Hard, formatContract)
}
