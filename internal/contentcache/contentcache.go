// Package contentcache is the policy layer over the TTL cache store for
// article content, generated quiz payloads and per-client quiz listings.
// Each namespace carries its own TTL.
package contentcache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"wikiquiz/internal/cache"
	"wikiquiz/internal/core"
)

// Default TTLs per namespace. Articles live long because source documents
// change rarely; listings live short because membership changes whenever a
// quiz is created.
const (
	DefaultArticleTTL  = 2 * time.Hour
	DefaultQuizTTL     = time.Hour
	DefaultQuizListTTL = 5 * time.Minute
)

const (
	articlePrefix  = "wikipedia:"
	quizPrefix     = "quiz:"
	quizListPrefix = "user_quizzes:"
)

// QuizListPayload is the cached shape of a first-page quiz listing.
type QuizListPayload struct {
	Quizzes []*core.Quiz `json:"quizzes"`
	Total   int          `json:"total"`
}

// Cache wraps a cache.Store with article/quiz/list namespaces and keeps an
// in-process memo of deserialized quizzes so repeated reads within one
// process lifetime skip both the store and re-deserialization.
type Cache struct {
	store      cache.Store
	articleTTL time.Duration
	quizTTL    time.Duration
	listTTL    time.Duration

	mu   sync.RWMutex
	memo map[string]*core.Quiz
}

// Option adjusts Cache construction.
type Option func(*Cache)

// WithTTLs overrides the per-namespace TTLs. Zero values keep defaults.
func WithTTLs(article, quiz, list time.Duration) Option {
	return func(c *Cache) {
		if article > 0 {
			c.articleTTL = article
		}
		if quiz > 0 {
			c.quizTTL = quiz
		}
		if list > 0 {
			c.listTTL = list
		}
	}
}

// New creates a content cache over store.
func New(store cache.Store, opts ...Option) *Cache {
	c := &Cache{
		store:      store,
		articleTTL: DefaultArticleTTL,
		quizTTL:    DefaultQuizTTL,
		listTTL:    DefaultQuizListTTL,
		memo:       make(map[string]*core.Quiz),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PutArticle caches fetched article content keyed by the fingerprint of
// its canonical URL.
func (c *Cache) PutArticle(ctx context.Context, url string, article *core.ArticleContent) {
	data, err := json.Marshal(article)
	if err != nil {
		slog.Warn("article marshal failed", "url", url, "error", err)
		return
	}
	c.store.Put(ctx, articlePrefix+core.Fingerprint(url), data, c.articleTTL)
}

// GetArticle returns cached article content for url, or nil on miss.
func (c *Cache) GetArticle(ctx context.Context, url string) *core.ArticleContent {
	data, ok := c.store.Get(ctx, articlePrefix+core.Fingerprint(url))
	if !ok {
		return nil
	}
	var article core.ArticleContent
	if err := json.Unmarshal(data, &article); err != nil {
		slog.Warn("cached article corrupt", "url", url, "error", err)
		return nil
	}
	return &article
}

// PutQuiz caches a quiz payload by id and records it in the memo.
func (c *Cache) PutQuiz(ctx context.Context, quiz *core.Quiz) {
	c.mu.Lock()
	c.memo[quiz.ID] = quiz
	c.mu.Unlock()

	data, err := json.Marshal(quiz)
	if err != nil {
		slog.Warn("quiz marshal failed", "quiz_id", quiz.ID, "error", err)
		return
	}
	c.store.Put(ctx, quizPrefix+quiz.ID, data, c.quizTTL)
}

// GetQuiz resolves a quiz through three tiers: shared cache, in-process
// memo, then the authoritative store. On a store hit both cache and memo
// are repopulated. Returns nil, nil when the quiz does not exist anywhere.
func (c *Cache) GetQuiz(ctx context.Context, id string, store core.QuizStore) (*core.Quiz, error) {
	if data, ok := c.store.Get(ctx, quizPrefix+id); ok {
		var quiz core.Quiz
		if err := json.Unmarshal(data, &quiz); err == nil {
			return &quiz, nil
		}
		slog.Warn("cached quiz corrupt, falling through", "quiz_id", id)
	}

	c.mu.RLock()
	memoized, ok := c.memo[id]
	c.mu.RUnlock()
	if ok {
		return memoized, nil
	}

	quiz, err := store.Get(ctx, id)
	if err != nil || quiz == nil {
		return nil, err
	}

	// Write-through on read miss: the cache may have been evicted while
	// the store remains authoritative.
	c.PutQuiz(ctx, quiz)
	return quiz, nil
}

// PutQuizList caches the unfiltered first page for a client identity.
func (c *Cache) PutQuizList(ctx context.Context, identity string, payload *QuizListPayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("quiz list marshal failed", "identity", identity, "error", err)
		return
	}
	c.store.Put(ctx, quizListPrefix+identity, data, c.listTTL)
}

// GetQuizList returns the cached listing for a client, or nil on miss.
func (c *Cache) GetQuizList(ctx context.Context, identity string) *QuizListPayload {
	data, ok := c.store.Get(ctx, quizListPrefix+identity)
	if !ok {
		return nil
	}
	var payload QuizListPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		slog.Warn("cached quiz list corrupt", "identity", identity, "error", err)
		return nil
	}
	return &payload
}

// InvalidateQuizLists drops every cached listing. Called after a new quiz
// is persisted so stale first pages expire early.
func (c *Cache) InvalidateQuizLists(ctx context.Context) int {
	return c.store.Delete(ctx, quizListPrefix+"*")
}

// Stats exposes the underlying store statistics.
func (c *Cache) Stats(ctx context.Context) core.CacheStats {
	return c.store.Stats(ctx)
}
