package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikiquiz/internal/core"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Go (programming language) - Wikipedia</title></head>
<body>
<h1 id="firstHeading">Go (programming language)</h1>
<div id="toc"><ul><li>1 History</li></ul></div>
<div id="mw-content-text">
<table class="infobox"><tr><td>Paradigm: concurrent</td></tr></table>
<p>Go is a statically typed, compiled high-level programming language designed at Google by Robert Griesemer, Rob Pike, and Ken Thompson.<sup class="reference">[1]</sup></p>
<p>Short one.</p>
<p>It is syntactically similar to C, but also has memory safety, garbage collection, structural typing, and CSP-style concurrency.<sup class="reference">[2]</sup></p>
<h2>History<span class="mw-editsection">[edit]</span></h2>
<p>Go was publicly announced in November 2009, and version 1.0 was released in March 2012 by Google Corporation.</p>
<h3>Version history</h3>
<h2>Design</h2>
<div class="reflist"><p>This reference paragraph is long enough to be kept but must be stripped out.</p></div>
</div>
</body>
</html>`

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"https://en.wikipedia.org/wiki/Go_(programming_language)", true},
		{"https://de.wikipedia.org/wiki/Berlin", true},
		{"https://wikipedia.org/wiki/Go", true},
		{"https://en.wikipedia.org/wiki/", false},
		{"https://en.wikipedia.org/w/index.php?title=Go", false},
		{"https://evil.example.com/wiki/Go", false},
		{"https://fakewikipedia.org.example.com/wiki/Go", false},
		{"not a url at all", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateURL(tt.url))
		})
	}
}

func TestTitleFromURL(t *testing.T) {
	tests := []struct {
		url   string
		title string
	}{
		{"https://en.wikipedia.org/wiki/Go_(programming_language)", "Go (programming language)"},
		{"https://en.wikipedia.org/wiki/Ada_Lovelace", "Ada Lovelace"},
		{"https://en.wikipedia.org/wiki/C%2B%2B", "C++"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.title, TitleFromURL(tt.url))
	}
}

func TestParseArticle(t *testing.T) {
	f := New(nil)
	article, err := f.parse(strings.NewReader(articleHTML), "https://en.wikipedia.org/wiki/Go_(programming_language)")
	require.NoError(t, err)

	assert.Equal(t, "Go (programming language)", article.Title)
	assert.True(t, strings.HasPrefix(article.Summary, "Go is a statically typed"))

	// Short paragraphs, citation markers, infobox, toc, and reflist content
	// are all stripped.
	assert.NotContains(t, article.Content, "Short one")
	assert.NotContains(t, article.Content, "[1]")
	assert.NotContains(t, article.Content, "Paradigm")
	assert.NotContains(t, article.Content, "reference paragraph")
	assert.Contains(t, article.Content, "memory safety")
	assert.Contains(t, article.Content, "announced in November 2009")

	assert.Equal(t, []string{"History", "Version history", "Design"}, article.Sections)
	assert.Greater(t, article.WordCount, 30)
}

func TestParseFallsBackToURLTitle(t *testing.T) {
	f := New(nil)
	article, err := f.parse(strings.NewReader("<html><body><p>No heading here but this paragraph is definitely long enough to keep.</p></body></html>"), "https://en.wikipedia.org/wiki/Ada_Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", article.Title)
}

func TestFetchRejectsNonWikipediaURL(t *testing.T) {
	f := New(nil)
	_, err := f.Fetch(context.Background(), "https://example.com/wiki/Go")
	require.Error(t, err)

	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, core.ErrorTypeInvalidInput, apiErr.Type)
}

func TestExtractKeyEntities(t *testing.T) {
	content := "Go was designed by Robert Griesemer and Rob Pike at Google. " +
		"The language is maintained by Google Corporation and taught at Stanford University. " +
		"Development happens in Mountain View, a city in California. IBM and AWS ship Go SDKs."

	entities := ExtractKeyEntities(content)

	assert.Contains(t, entities.People, "Robert Griesemer")
	assert.Contains(t, entities.People, "Rob Pike")
	assert.Contains(t, entities.Organizations, "Google Corporation")
	assert.NotEmpty(t, entities.Locations)

	assert.LessOrEqual(t, len(entities.People), 5)
	assert.LessOrEqual(t, len(entities.Organizations), 5)
	assert.LessOrEqual(t, len(entities.Locations), 5)
}

func TestExtractKeyEntitiesEmptyContent(t *testing.T) {
	entities := ExtractKeyEntities("")
	assert.Empty(t, entities.People)
	assert.Empty(t, entities.Organizations)
	assert.Empty(t, entities.Locations)
	// Non-nil so JSON renders []
	assert.NotNil(t, entities.People)
}
