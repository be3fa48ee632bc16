package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"wikiquiz/internal/core"
)

// MemoryStore implements core.QuizStore in process memory. Used when no
// DATABASE_URL is configured, and throughout the test suites.
type MemoryStore struct {
	mu      sync.RWMutex
	quizzes map[string]*core.Quiz
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{quizzes: make(map[string]*core.Quiz)}
}

// Save stores a copy of the quiz. Last write wins for duplicate ids.
func (s *MemoryStore) Save(_ context.Context, quiz *core.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *quiz
	s.quizzes[quiz.ID] = &cp
	return nil
}

// Get returns the quiz by id, or nil, nil when absent.
func (s *MemoryStore) Get(_ context.Context, id string) (*core.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return nil, nil
	}
	cp := *quiz
	return &cp, nil
}

// List filters, sorts newest-first, and pages the stored quizzes.
func (s *MemoryStore) List(_ context.Context, filter core.ListFilter) ([]*core.Quiz, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*core.Quiz
	for _, quiz := range s.quizzes {
		if matches(quiz, filter) {
			matched = append(matched, quiz)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].GeneratedAt.After(matched[j].GeneratedAt)
	})

	total := len(matched)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= total {
		return []*core.Quiz{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}

	out := make([]*core.Quiz, 0, end-start)
	for _, quiz := range matched[start:end] {
		cp := *quiz
		out = append(out, &cp)
	}
	return out, total, nil
}

// Count returns the total number of stored quizzes.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quizzes), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

func matches(quiz *core.Quiz, filter core.ListFilter) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(quiz.Title), needle) &&
			!strings.Contains(strings.ToLower(quiz.Summary), needle) {
			return false
		}
	}
	switch filter.Difficulty {
	case core.DifficultyEasy:
		return quiz.DifficultyDistribution.Easy > 0
	case core.DifficultyMedium:
		return quiz.DifficultyDistribution.Medium > 0
	case core.DifficultyHard:
		return quiz.DifficultyDistribution.Hard > 0
	}
	return true
}
