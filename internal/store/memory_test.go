package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikiquiz/internal/core"
)

func seedQuiz(id, title string, generatedAt time.Time, dist core.DifficultyDistribution) *core.Quiz {
	return &core.Quiz{
		ID:                     id,
		URL:                    "https://en.wikipedia.org/wiki/" + id,
		Title:                  title,
		Summary:                "A summary of " + title,
		GeneratedAt:            generatedAt,
		DifficultyDistribution: dist,
	}
}

func TestMemoryStoreSaveAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	quiz := seedQuiz("q1", "Go", time.Now(), core.DifficultyDistribution{Easy: 3, Medium: 2})
	require.NoError(t, s.Save(ctx, quiz))

	got, err := s.Get(ctx, "q1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Go", got.Title)

	// Mutating the returned quiz must not affect the stored copy.
	got.Title = "mutated"
	again, err := s.Get(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "Go", again.Title)
}

func TestMemoryStoreGetAbsent(t *testing.T) {
	s := NewMemoryStore()
	got, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreSaveOverwrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, seedQuiz("q1", "First", time.Now(), core.DifficultyDistribution{})))
	require.NoError(t, s.Save(ctx, seedQuiz("q1", "Second", time.Now(), core.DifficultyDistribution{})))

	got, err := s.Get(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Title)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryStoreListPagination(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 25; i++ {
		quiz := seedQuiz(fmt.Sprintf("q%02d", i), fmt.Sprintf("Article %02d", i),
			base.Add(time.Duration(i)*time.Minute), core.DifficultyDistribution{Easy: 5})
		require.NoError(t, s.Save(ctx, quiz))
	}

	page1, total, err := s.List(ctx, core.ListFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, page1, 10)
	// Newest first.
	assert.Equal(t, "q24", page1[0].ID)

	page3, total, err := s.List(ctx, core.ListFilter{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, page3, 5)

	empty, total, err := s.List(ctx, core.ListFilter{Page: 4, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Empty(t, empty)
}

func TestMemoryStoreListSearch(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, seedQuiz("q1", "Go (programming language)", time.Now(), core.DifficultyDistribution{})))
	require.NoError(t, s.Save(ctx, seedQuiz("q2", "Rust (programming language)", time.Now(), core.DifficultyDistribution{})))
	require.NoError(t, s.Save(ctx, seedQuiz("q3", "Berlin", time.Now(), core.DifficultyDistribution{})))

	got, total, err := s.List(ctx, core.ListFilter{Page: 1, Limit: 10, Search: "programming"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, got, 2)

	// Search is case-insensitive and matches summaries too.
	got, total, err = s.List(ctx, core.ListFilter{Page: 1, Limit: 10, Search: "BERLIN"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "q3", got[0].ID)
}

func TestMemoryStoreListDifficultyFilter(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, seedQuiz("easy", "Easy quiz", time.Now(), core.DifficultyDistribution{Easy: 5})))
	require.NoError(t, s.Save(ctx, seedQuiz("hard", "Hard quiz", time.Now(), core.DifficultyDistribution{Hard: 5})))

	got, total, err := s.List(ctx, core.ListFilter{Page: 1, Limit: 10, Difficulty: core.DifficultyHard})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "hard", got[0].ID)

	_, total, err = s.List(ctx, core.ListFilter{Page: 1, Limit: 10, Difficulty: core.DifficultyMedium})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				id := fmt.Sprintf("q%d-%d", i, j)
				_ = s.Save(ctx, seedQuiz(id, "Title", time.Now(), core.DifficultyDistribution{}))
				_, _ = s.Get(ctx, id)
				_, _, _ = s.List(ctx, core.ListFilter{Page: 1, Limit: 5})
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 400, n)
}
