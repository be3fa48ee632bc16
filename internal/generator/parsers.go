package generator

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"wikiquiz/internal/core"
)

// parseStatus tags the outcome of one parser strategy.
type parseStatus int

const (
	parseSuccess parseStatus = iota
	parseEmpty
	parseFailed
)

// parseResult is the tagged result of a parser strategy.
type parseResult struct {
	status parseStatus
	draft  *core.QuizDraft
	err    error
}

// parser is one strategy for turning a raw provider response into a draft.
// Strategies are tried in order; a failed result hands the raw text to the
// next strategy.
type parser interface {
	Name() string
	Parse(raw string) parseResult
}

// llmOutput is the wire shape the provider is asked to produce.
type llmOutput struct {
	Questions     []llmQuestion       `json:"questions"`
	RelatedTopics []string            `json:"related_topics"`
	KeyEntities   map[string][]string `json:"key_entities"`
}

type llmQuestion struct {
	ID               string   `json:"id"`
	Question         string   `json:"question"`
	Options          []string `json:"options"`
	Answer           string   `json:"answer"`
	Difficulty       string   `json:"difficulty"`
	Explanation      string   `json:"explanation"`
	EvidenceSpan     string   `json:"evidence_span"`
	SectionReference string   `json:"section_reference"`
}

func (o *llmOutput) toDraft() *core.QuizDraft {
	draft := &core.QuizDraft{
		Questions:     make([]core.Question, 0, len(o.Questions)),
		RelatedTopics: o.RelatedTopics,
		KeyEntities:   core.EmptyKeyEntities(),
	}
	if draft.RelatedTopics == nil {
		draft.RelatedTopics = []string{}
	}
	for _, q := range o.Questions {
		draft.Questions = append(draft.Questions, core.Question{
			ID:               q.ID,
			Question:         q.Question,
			Options:          q.Options,
			Answer:           q.Answer,
			Difficulty:       q.Difficulty,
			Explanation:      q.Explanation,
			EvidenceSpan:     q.EvidenceSpan,
			SectionReference: q.SectionReference,
		})
	}
	if people, ok := o.KeyEntities["people"]; ok {
		draft.KeyEntities.People = people
	}
	if orgs, ok := o.KeyEntities["organizations"]; ok {
		draft.KeyEntities.Organizations = orgs
	}
	if locs, ok := o.KeyEntities["locations"]; ok {
		draft.KeyEntities.Locations = locs
	}
	return draft
}

// structuredParser expects the entire response to be the JSON object.
type structuredParser struct{}

func (structuredParser) Name() string { return "structured" }

func (structuredParser) Parse(raw string) parseResult {
	trimmed := strings.TrimSpace(raw)
	if !gjson.Valid(trimmed) {
		return parseResult{status: parseFailed, err: core.NewParseError("response is not valid JSON", nil)}
	}
	var out llmOutput
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return parseResult{status: parseFailed, err: core.NewParseError("response does not match quiz shape", err)}
	}
	if len(out.Questions) == 0 {
		return parseResult{status: parseEmpty, draft: out.toDraft()}
	}
	return parseResult{status: parseSuccess, draft: out.toDraft()}
}

// extractParser pulls the first top-level brace-delimited object out of a
// response that wraps JSON in prose.
type extractParser struct{}

func (extractParser) Name() string { return "extract" }

func (extractParser) Parse(raw string) parseResult {
	obj, ok := extractJSONObject(raw)
	if !ok {
		return parseResult{status: parseFailed, err: core.NewParseError("no JSON object found in response", nil)}
	}
	var out llmOutput
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return parseResult{status: parseFailed, err: core.NewParseError("extracted JSON does not parse", err)}
	}
	if len(out.Questions) == 0 {
		return parseResult{status: parseEmpty, draft: out.toDraft()}
	}
	return parseResult{status: parseSuccess, draft: out.toDraft()}
}

// repairParser applies mechanical fixes to almost-JSON: trailing commas
// before closing brackets are stripped, and an odd number of quote
// characters gets one closing quote appended.
type repairParser struct{}

func (repairParser) Name() string { return "repair" }

var (
	trailingCommaObject = regexp.MustCompile(`,\s*}`)
	trailingCommaArray  = regexp.MustCompile(`,\s*]`)
)

func (repairParser) Parse(raw string) parseResult {
	obj, ok := extractJSONObject(raw)
	if !ok {
		obj = strings.TrimSpace(raw)
		if obj == "" {
			return parseResult{status: parseFailed, err: core.NewParseError("empty response", nil)}
		}
	}

	repaired := trailingCommaObject.ReplaceAllString(obj, "}")
	repaired = trailingCommaArray.ReplaceAllString(repaired, "]")
	if strings.Count(repaired, `"`)%2 != 0 {
		repaired += `"`
	}

	if !gjson.Valid(repaired) {
		return parseResult{status: parseFailed, err: core.NewParseError("repair did not yield valid JSON", nil)}
	}
	var out llmOutput
	if err := json.Unmarshal([]byte(repaired), &out); err != nil {
		return parseResult{status: parseFailed, err: core.NewParseError("repaired JSON does not match quiz shape", err)}
	}
	if len(out.Questions) == 0 {
		return parseResult{status: parseEmpty, draft: out.toDraft()}
	}
	return parseResult{status: parseSuccess, draft: out.toDraft()}
}

// extractJSONObject returns the span from the first '{' to the last '}'.
func extractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// defaultParsers is the degradation chain, in order of preference.
func defaultParsers() []parser {
	return []parser{structuredParser{}, extractParser{}, repairParser{}}
}

// runParsers tries each strategy in order. The first success or empty
// result wins; if every strategy fails the response is treated as empty.
func runParsers(parsers []parser, raw string) *core.QuizDraft {
	for _, p := range parsers {
		result := p.Parse(raw)
		switch result.status {
		case parseSuccess:
			return result.draft
		case parseEmpty:
			return result.draft
		}
	}
	return &core.QuizDraft{
		Questions:     []core.Question{},
		RelatedTopics: []string{},
		KeyEntities:   core.EmptyKeyEntities(),
	}
}
