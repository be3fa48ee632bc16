package generator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const validQuizJSON = `{
  "questions": [
    {
      "id": "q1",
      "question": "Who designed the Go programming language?",
      "options": ["Google engineers", "Microsoft engineers", "Apple engineers", "IBM engineers"],
      "answer": "Google engineers",
      "difficulty": "easy",
      "explanation": "Go was designed at Google.",
      "evidence_span": "designed at Google",
      "section_reference": "History"
    }
  ],
  "related_topics": ["Rust", "C"],
  "key_entities": {"people": ["Rob Pike"], "organizations": ["Google"], "locations": []}
}`

func TestStructuredParserValidJSON(t *testing.T) {
	result := structuredParser{}.Parse(validQuizJSON)
	require.Equal(t, parseSuccess, result.status)
	require.Len(t, result.draft.Questions, 1)
	require.Equal(t, "Google engineers", result.draft.Questions[0].Answer)
	require.Equal(t, []string{"Rust", "C"}, result.draft.RelatedTopics)
	require.Equal(t, []string{"Rob Pike"}, result.draft.KeyEntities.People)
}

func TestStructuredParserRejectsProse(t *testing.T) {
	result := structuredParser{}.Parse("Sure! Here is your quiz:\n" + validQuizJSON)
	require.Equal(t, parseFailed, result.status)
}

func TestStructuredParserEmptyQuestions(t *testing.T) {
	result := structuredParser{}.Parse(`{"questions": [], "related_topics": [], "key_entities": {}}`)
	require.Equal(t, parseEmpty, result.status)
	require.NotNil(t, result.draft)
	require.Empty(t, result.draft.Questions)
}

func TestExtractParserFindsJSONInProse(t *testing.T) {
	wrapped := "Sure! Here is your quiz:\n" + validQuizJSON + "\nLet me know if you need more."
	result := extractParser{}.Parse(wrapped)
	require.Equal(t, parseSuccess, result.status)
	require.Len(t, result.draft.Questions, 1)

	// The wrapped response parses to the same structure as the bare JSON.
	bare := structuredParser{}.Parse(validQuizJSON)
	require.Equal(t, bare.draft, result.draft)
}

func TestExtractParserNoBraces(t *testing.T) {
	result := extractParser{}.Parse("I could not generate a quiz for this article.")
	require.Equal(t, parseFailed, result.status)
}

func TestRepairParserTrailingCommas(t *testing.T) {
	broken := `{
  "questions": [
    {
      "id": "q1",
      "question": "Who designed Go?",
      "options": ["Google", "Microsoft", "Apple", "IBM",],
      "answer": "Google",
      "difficulty": "easy",
      "explanation": "Designed at Google.",
      "evidence_span": "designed at Google",
    }
  ],
  "related_topics": [],
  "key_entities": {},
}`
	result := repairParser{}.Parse(broken)
	require.Equal(t, parseSuccess, result.status)
	require.Equal(t, "Google", result.draft.Questions[0].Answer)
}

func TestRepairParserGivesUpOnGarbage(t *testing.T) {
	result := repairParser{}.Parse(`{"questions": [{{{`)
	require.Equal(t, parseFailed, result.status)
}

func TestRunParsersChainDegrades(t *testing.T) {
	// Prose-wrapped JSON fails the structured parse but succeeds via extraction.
	wrapped := "Here you go: " + validQuizJSON
	draft := runParsers(defaultParsers(), wrapped)
	require.Len(t, draft.Questions, 1)
}

func TestRunParsersTotalFailureYieldsEmptyDraft(t *testing.T) {
	draft := runParsers(defaultParsers(), "no json here at all")
	require.NotNil(t, draft)
	require.Empty(t, draft.Questions)
	require.Empty(t, draft.RelatedTopics)
	require.NotNil(t, draft.KeyEntities.People)
}
