package core

import (
	"encoding/json"
	"testing"
)

func TestTallyDifficulties(t *testing.T) {
	draft := &QuizDraft{
		Questions: []Question{
			{Difficulty: DifficultyEasy},
			{Difficulty: DifficultyEasy},
			{Difficulty: DifficultyMedium},
			{Difficulty: DifficultyHard},
			{Difficulty: "unknown"}, // not counted
		},
	}

	dist := draft.TallyDifficulties()
	if dist.Easy != 2 || dist.Medium != 1 || dist.Hard != 1 {
		t.Errorf("tally = %+v, want easy=2 medium=1 hard=1", dist)
	}
	if dist.Sum() != 4 {
		t.Errorf("sum = %d, want 4", dist.Sum())
	}
}

func TestValidDifficulty(t *testing.T) {
	for _, d := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if !ValidDifficulty(d) {
			t.Errorf("expected %q to be valid", d)
		}
	}
	for _, d := range []string{"", "EASY", "trivial"} {
		if ValidDifficulty(d) {
			t.Errorf("expected %q to be invalid", d)
		}
	}
}

func TestEmptyKeyEntitiesMarshalsToArrays(t *testing.T) {
	data, err := json.Marshal(EmptyKeyEntities())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"people":[],"organizations":[],"locations":[]}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint("https://en.wikipedia.org/wiki/Go_(programming_language)")
	b := Fingerprint("https://en.wikipedia.org/wiki/Go_(programming_language)")
	if a != b {
		t.Errorf("fingerprint not stable: %s vs %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(a))
	}
	if a == Fingerprint("https://en.wikipedia.org/wiki/Rust") {
		t.Error("different inputs produced identical fingerprints")
	}
}

func TestListFilterUnfiltered(t *testing.T) {
	if !(ListFilter{Page: 1, Limit: 10}).Unfiltered() {
		t.Error("plain first page should be unfiltered")
	}
	if (ListFilter{Page: 2, Limit: 10}).Unfiltered() {
		t.Error("second page should not be unfiltered")
	}
	if (ListFilter{Page: 1, Limit: 10, Search: "go"}).Unfiltered() {
		t.Error("search filter should not be unfiltered")
	}
	if (ListFilter{Page: 1, Limit: 10, Difficulty: DifficultyHard}).Unfiltered() {
		t.Error("difficulty filter should not be unfiltered")
	}
}
