// Package fetcher retrieves and parses Wikipedia articles into structured
// content suitable for quiz generation.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"wikiquiz/internal/core"
	"wikiquiz/internal/httpclient"
)

const (
	summaryMaxLen  = 500
	maxSections    = 10
	minParagraph   = 50
	entityScanSize = 2000
)

var (
	citationRe   = regexp.MustCompile(`\[\d+\]`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	personRe      = regexp.MustCompile(`\b([A-Z][a-z]+ [A-Z][a-z]+)`)
	initialRe     = regexp.MustCompile(`\b([A-Z]\. [A-Z][a-z]+)`)
	orgSuffixRe   = regexp.MustCompile(`\b([A-Z][a-z]+ (?:University|College|Institute|Corporation|Company|Group))`)
	acronymRe     = regexp.MustCompile(`\b([A-Z]{2,}(?:\s[A-Z]{2,})*)`)
	placeSuffixRe = regexp.MustCompile(`\b([A-Z][a-z]+ (?:City|Country|State|Province|Region))`)
	capitalizedRe = regexp.MustCompile(`\b([A-Z][a-z]+)`)
)

// Fetcher implements core.ContentFetcher for Wikipedia pages.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// New creates a Fetcher. If client is nil, a default pooled client is used.
func New(client *http.Client) *Fetcher {
	if client == nil {
		client = httpclient.NewDefaultHTTPClient()
	}
	return &Fetcher{
		client:    client,
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	}
}

// ValidateURL reports whether raw points at a Wikipedia article page:
// a wikipedia.org host with a non-empty /wiki/ path.
func ValidateURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.HasSuffix(u.Hostname(), "wikipedia.org") &&
		strings.HasPrefix(u.Path, "/wiki/") &&
		len(u.Path) > len("/wiki/")
}

// TitleFromURL derives a human-readable title from the article path.
func TitleFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "Unknown Article"
	}
	parts := strings.Split(u.Path, "/wiki/")
	title := parts[len(parts)-1]
	if decoded, err := url.PathUnescape(title); err == nil {
		title = decoded
	}
	return strings.TrimSpace(strings.ReplaceAll(title, "_", " "))
}

// Fetch downloads and parses the article at sourceRef. URL validation and
// network failures surface as fetch errors; parse problems degrade to
// partial content rather than failing, since downstream generation can
// work from whatever text was recovered.
func (f *Fetcher) Fetch(ctx context.Context, sourceRef string) (*core.ArticleContent, error) {
	if !ValidateURL(sourceRef) {
		return nil, core.NewInvalidInputError("not a valid Wikipedia article URL", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceRef, nil)
	if err != nil {
		return nil, core.NewFetchError("failed to create request", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, core.NewFetchError("failed to fetch Wikipedia article", err)
	}
	defer func() {
		_ = resp.Body.Close() //nolint:errcheck
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, core.NewFetchError(fmt.Sprintf("Wikipedia returned status %d", resp.StatusCode), nil)
	}

	return f.parse(resp.Body, sourceRef)
}

func (f *Fetcher) parse(r io.Reader, sourceRef string) (*core.ArticleContent, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, core.NewFetchError("failed to parse article HTML", err)
	}

	title := text(findByID(doc, "firstHeading"))
	if title == "" {
		title = TitleFromURL(sourceRef)
	}

	contentDiv := findByID(doc, "mw-content-text")
	paragraphs := collectParagraphs(contentDiv)

	summary := ""
	if len(paragraphs) > 0 {
		summary = clip(paragraphs[0], summaryMaxLen)
	}

	var kept []string
	for _, p := range paragraphs {
		if len(p) > minParagraph {
			kept = append(kept, p)
		}
	}
	content := strings.Join(kept, " ")

	return &core.ArticleContent{
		URL:         sourceRef,
		Title:       title,
		Summary:     summary,
		Content:     content,
		Sections:    collectSections(doc),
		KeyEntities: ExtractKeyEntities(content),
		WordCount:   len(strings.Fields(content)),
	}, nil
}

// skippable marks the wrapper elements stripped before text extraction:
// navigation, references, infoboxes, and edit links.
func skippable(n *html.Node) bool {
	switch n.Data {
	case "style", "script", "table":
		return true
	case "sup":
		return hasClass(n, "reference") || hasClass(n, "noprint")
	case "span":
		return hasClass(n, "mw-editsection")
	case "div":
		return attr(n, "id") == "toc" || hasClass(n, "reflist") || hasClass(n, "navbox")
	}
	return false
}

// findByID walks the tree for the element with the given id.
func findByID(n *html.Node, id string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// collectParagraphs returns the cleaned text of each <p> under root.
func collectParagraphs(root *html.Node) []string {
	var out []string
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && skippable(n) {
			return false
		}
		if n.Type == html.ElementNode && n.Data == "p" {
			if t := cleanText(text(n)); t != "" {
				out = append(out, t)
			}
			return false
		}
		return true
	})
	return out
}

// collectSections returns up to maxSections h2/h3 heading titles.
func collectSections(root *html.Node) []string {
	var out []string
	walk(root, func(n *html.Node) bool {
		if len(out) >= maxSections {
			return false
		}
		if n.Type == html.ElementNode && (n.Data == "h2" || n.Data == "h3") {
			if hasClass(n, "mw-editsection") || hasClass(n, "noprint") {
				return false
			}
			t := cleanText(text(n))
			if t != "" && !strings.HasPrefix(strings.ToLower(t), "contents") {
				out = append(out, t)
			}
			return false
		}
		return true
	})
	return out
}

// ExtractKeyEntities pulls likely people, organizations, and locations out
// of the article opening using capitalization heuristics. Best-effort: the
// result enriches quiz metadata and is never authoritative.
func ExtractKeyEntities(content string) core.KeyEntities {
	head := clip(content, entityScanSize)
	shortHead := clip(content, entityScanSize/2)

	entities := core.EmptyKeyEntities()
	entities.People = dedupe(
		append(firstMatches(personRe, head, 5), firstMatches(initialRe, head, 5)...), 5)
	entities.Organizations = dedupe(
		append(firstMatches(orgSuffixRe, head, 5), firstMatches(acronymRe, head, 5)...), 5)
	entities.Locations = dedupe(
		append(firstMatches(placeSuffixRe, shortHead, 3), firstMatches(capitalizedRe, shortHead, 3)...), 5)
	return entities
}

func firstMatches(re *regexp.Regexp, s string, limit int) []string {
	matches := re.FindAllString(s, -1)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func dedupe(entities []string, limit int) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, limit)
	for _, e := range entities {
		e = strings.TrimSpace(e)
		if len(e) <= 2 || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}

// walk runs fn on n and, when fn returns true, its children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// text concatenates the text nodes under n, skipping stripped elements.
func text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && c != n && skippable(c) {
			return false
		}
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return strings.TrimSpace(sb.String())
}

// cleanText strips citation markers and collapses whitespace.
func cleanText(s string) string {
	s = citationRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
