// Package store provides quiz persistence backends.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wikiquiz/internal/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS quizzes (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	title TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	key_entities JSONB NOT NULL DEFAULT '{}',
	sections JSONB NOT NULL DEFAULT '[]',
	quiz_json JSONB NOT NULL DEFAULT '[]',
	related_topics JSONB NOT NULL DEFAULT '[]',
	easy_count INTEGER NOT NULL DEFAULT 0,
	medium_count INTEGER NOT NULL DEFAULT 0,
	hard_count INTEGER NOT NULL DEFAULT 0,
	generated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_quizzes_generated_at ON quizzes (generated_at DESC);
CREATE INDEX IF NOT EXISTS idx_quizzes_title ON quizzes (lower(title));
`

// PostgresStore implements core.QuizStore on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and ensures the schema exists.
func NewPostgresStore(ctx context.Context, url string, maxConns int) (*PostgresStore, error) {
	if url == "" {
		return nil, fmt.Errorf("PostgreSQL URL is required")
	}

	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL URL: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	} else {
		poolCfg.MaxConns = 10
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Save upserts the quiz row. Last write wins for duplicate ids.
func (s *PostgresStore) Save(ctx context.Context, quiz *core.Quiz) error {
	entities, err := json.Marshal(quiz.KeyEntities)
	if err != nil {
		return fmt.Errorf("failed to marshal key entities: %w", err)
	}
	sections, err := json.Marshal(quiz.Sections)
	if err != nil {
		return fmt.Errorf("failed to marshal sections: %w", err)
	}
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	topics, err := json.Marshal(quiz.RelatedTopics)
	if err != nil {
		return fmt.Errorf("failed to marshal related topics: %w", err)
	}

	generatedAt := quiz.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO quizzes (id, url, title, summary, key_entities, sections, quiz_json, related_topics,
			easy_count, medium_count, hard_count, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			url = EXCLUDED.url,
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			key_entities = EXCLUDED.key_entities,
			sections = EXCLUDED.sections,
			quiz_json = EXCLUDED.quiz_json,
			related_topics = EXCLUDED.related_topics,
			easy_count = EXCLUDED.easy_count,
			medium_count = EXCLUDED.medium_count,
			hard_count = EXCLUDED.hard_count,
			generated_at = EXCLUDED.generated_at`,
		quiz.ID, quiz.URL, quiz.Title, quiz.Summary, entities, sections, questions, topics,
		quiz.DifficultyDistribution.Easy, quiz.DifficultyDistribution.Medium, quiz.DifficultyDistribution.Hard,
		generatedAt)
	if err != nil {
		return fmt.Errorf("failed to save quiz %s: %w", quiz.ID, err)
	}
	return nil
}

// Get returns the quiz by id, or nil, nil when absent.
func (s *PostgresStore) Get(ctx context.Context, id string) (*core.Quiz, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, url, title, summary, key_entities, sections, quiz_json, related_topics,
			easy_count, medium_count, hard_count, generated_at
		FROM quizzes WHERE id = $1`, id)

	quiz, err := scanQuiz(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quiz %s: %w", id, err)
	}
	return quiz, nil
}

// List returns a page of quizzes ordered newest-first plus the total
// match count. Search compares case-insensitively against title and
// summary; a difficulty filter keeps quizzes holding at least one
// question of that level.
func (s *PostgresStore) List(ctx context.Context, filter core.ListFilter) ([]*core.Quiz, int, error) {
	where := "TRUE"
	args := []any{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (title ILIKE $%d OR summary ILIKE $%d)", len(args), len(args))
	}
	switch filter.Difficulty {
	case core.DifficultyEasy:
		where += " AND easy_count > 0"
	case core.DifficultyMedium:
		where += " AND medium_count > 0"
	case core.DifficultyHard:
		where += " AND hard_count > 0"
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM quizzes WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count quizzes: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, url, title, summary, key_entities, sections, quiz_json, related_topics,
			easy_count, medium_count, hard_count, generated_at
		FROM quizzes WHERE %s
		ORDER BY generated_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []*core.Quiz
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan quiz row: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate quiz rows: %w", err)
	}
	return quizzes, total, nil
}

// Count returns the total number of stored quizzes.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM quizzes").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count quizzes: %w", err)
	}
	return n, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func scanQuiz(row pgx.Row) (*core.Quiz, error) {
	var (
		quiz      core.Quiz
		entities  []byte
		sections  []byte
		questions []byte
		topics    []byte
	)
	err := row.Scan(&quiz.ID, &quiz.URL, &quiz.Title, &quiz.Summary, &entities, &sections, &questions, &topics,
		&quiz.DifficultyDistribution.Easy, &quiz.DifficultyDistribution.Medium, &quiz.DifficultyDistribution.Hard,
		&quiz.GeneratedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(entities, &quiz.KeyEntities); err != nil {
		quiz.KeyEntities = core.EmptyKeyEntities()
	}
	if err := json.Unmarshal(sections, &quiz.Sections); err != nil {
		quiz.Sections = []string{}
	}
	if err := json.Unmarshal(questions, &quiz.Questions); err != nil {
		quiz.Questions = []core.Question{}
	}
	if err := json.Unmarshal(topics, &quiz.RelatedTopics); err != nil {
		quiz.RelatedTopics = []string{}
	}
	return &quiz, nil
}
