package core

import "context"

// TextGenerator is the external text-generation provider. The formatting
// contract describing the expected output shape is embedded in the prompt
// by the caller; implementations return the raw response text.
type TextGenerator interface {
	// Generate sends the prompt and returns the provider's raw text response.
	Generate(ctx context.Context, prompt string) (string, error)
}

// ContentFetcher retrieves structured article text for a source reference.
type ContentFetcher interface {
	// Fetch resolves sourceRef to an ArticleContent.
	// Returns an APIError of type fetch_error on failure.
	Fetch(ctx context.Context, sourceRef string) (*ArticleContent, error)
}

// ListFilter narrows and pages a quiz listing.
type ListFilter struct {
	Page       int
	Limit      int
	Search     string
	Difficulty string
}

// Unfiltered reports whether the filter selects the plain first page,
// the only listing shape the content cache stores.
func (f ListFilter) Unfiltered() bool {
	return f.Search == "" && f.Difficulty == "" && f.Page == 1
}

// QuizStore is the authoritative persistence layer for quizzes.
// Implementations must be safe for concurrent use.
type QuizStore interface {
	// Save persists the quiz. Last write wins for duplicate ids.
	Save(ctx context.Context, quiz *Quiz) error

	// Get returns the quiz by id, or nil, nil when absent.
	Get(ctx context.Context, id string) (*Quiz, error)

	// List returns a page of quizzes plus the total match count.
	List(ctx context.Context, filter ListFilter) ([]*Quiz, int, error)

	// Count returns the total number of stored quizzes.
	Count(ctx context.Context) (int, error)

	// Close releases store resources.
	Close() error
}
