package core

import "time"

// Difficulty levels for quiz questions.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulty reports whether s is one of the recognized difficulty levels.
func ValidDifficulty(s string) bool {
	return s == DifficultyEasy || s == DifficultyMedium || s == DifficultyHard
}

// Question count bounds accepted by the generation pipeline.
const (
	MinQuestionCount = 5
	MaxQuestionCount = 10
)

// EvidenceSentinel is substituted when a question has no supporting quote
// and no section reference.
const EvidenceSentinel = "insufficient evidence in article"

// KeyEntities groups named entities extracted from an article.
type KeyEntities struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// EmptyKeyEntities returns a KeyEntities value with non-nil empty slices,
// so JSON encoding produces [] rather than null.
func EmptyKeyEntities() KeyEntities {
	return KeyEntities{
		People:        []string{},
		Organizations: []string{},
		Locations:     []string{},
	}
}

// ArticleContent is the structured text extracted from a source document.
// Immutable once fetched; cached by the fingerprint of its canonical URL.
type ArticleContent struct {
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	Summary     string      `json:"summary"`
	Content     string      `json:"content"`
	Sections    []string    `json:"sections"`
	KeyEntities KeyEntities `json:"key_entities"`
	WordCount   int         `json:"word_count"`
}

// Question is a single multiple-choice question.
// Invariants: len(Options) == 4 and Answer is one of Options.
type Question struct {
	ID               string   `json:"id"`
	Question         string   `json:"question"`
	Options          []string `json:"options"`
	Answer           string   `json:"answer"`
	Difficulty       string   `json:"difficulty"`
	Explanation      string   `json:"explanation"`
	EvidenceSpan     string   `json:"evidence_span"`
	SectionReference string   `json:"section_reference,omitempty"`
}

// DifficultyDistribution maps difficulty levels to question counts.
type DifficultyDistribution struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// Sum returns the total number of questions the distribution accounts for.
func (d DifficultyDistribution) Sum() int {
	return d.Easy + d.Medium + d.Hard
}

// QuizDraft is the orchestrator's output before persistence: the generated
// questions plus article-derived metadata.
type QuizDraft struct {
	Questions     []Question  `json:"questions"`
	RelatedTopics []string    `json:"related_topics"`
	KeyEntities   KeyEntities `json:"key_entities"`
}

// TallyDifficulties counts the questions per difficulty level.
func (d *QuizDraft) TallyDifficulties() DifficultyDistribution {
	var dist DifficultyDistribution
	for _, q := range d.Questions {
		switch q.Difficulty {
		case DifficultyEasy:
			dist.Easy++
		case DifficultyMedium:
			dist.Medium++
		case DifficultyHard:
			dist.Hard++
		}
	}
	return dist
}

// Quiz is the persisted, immutable result of a generation run.
// DifficultyDistribution always equals the actual per-difficulty tally
// of Questions.
type Quiz struct {
	ID                     string                 `json:"id"`
	URL                    string                 `json:"url"`
	Title                  string                 `json:"title"`
	Summary                string                 `json:"summary"`
	KeyEntities            KeyEntities            `json:"key_entities"`
	Sections               []string               `json:"sections"`
	Questions              []Question             `json:"quiz"`
	RelatedTopics          []string               `json:"related_topics"`
	GeneratedAt            time.Time              `json:"generated_at"`
	DifficultyDistribution DifficultyDistribution `json:"difficulty_distribution"`
}

// GenerateRequest is the input to the generation orchestrator.
type GenerateRequest struct {
	Title                  string
	Content                string
	QuestionCount          int
	DifficultyDistribution *DifficultyDistribution
}

// RateLimitStatus describes a client's position within the current
// rate-limit window.
type RateLimitStatus struct {
	Allowed   bool  `json:"allowed"`
	Current   int64 `json:"current"`
	Limit     int64 `json:"limit"`
	Remaining int64 `json:"remaining"`
	ResetsIn  int64 `json:"resets_in"`
}

// CacheStats reports cache backend connectivity and effectiveness.
type CacheStats struct {
	Connected bool    `json:"connected"`
	KeyCount  int64   `json:"key_count"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	HitRate   float64 `json:"hit_rate"`
}
