package profile

import (
	"path/filepath"
	"testing"

	"github.com/leadledger/leadledger/internal/activity"
)

func newTestProfile(t *testing.T) *Store {
	t.Helper()
	store, err := activity.Open(filepath.Join(t.TempDir(), "activity.db"))
	if err != nil {
		t.Fatalf("failed to open activity store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return New(store.DB())
}

func TestProfileKVRoundTrip(t *testing.T) {
	p := newTestProfile(t)

	if err := p.Set("candidate.name", "Jane Doe"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := p.Set("candidate.name", "Jane A. Doe"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	v, err := p.Get("candidate.name", "")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != "Jane A. Doe" {
		t.Fatalf("expected latest value, got %q", v)
	}

	v, err = p.Get("candidate.phone", "n/a")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if v != "n/a" {
		t.Fatalf("expected fallback, got %q", v)
	}

	all, err := p.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one fact, got %v", all)
	}
}

func TestAnswerBankNormalizedLookup(t *testing.T) {
	p := newTestProfile(t)

	if err := p.SaveAnswer("Are you authorized to work in the EU?", "Yes", "confirmed"); err != nil {
		t.Fatalf("save: %v", err)
	}

	a, err := p.LookupAnswer("are you AUTHORIZED to work in the eu")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if a == nil || a.Text != "Yes" || a.Status != "confirmed" {
		t.Fatalf("expected normalized match, got %+v", a)
	}

	a, err = p.LookupAnswer("Expected salary?")
	if err != nil {
		t.Fatalf("lookup missing: %v", err)
	}
	if a != nil {
		t.Fatalf("expected no answer, got %+v", a)
	}
}

func TestDocuments(t *testing.T) {
	p := newTestProfile(t)

	if err := p.SetDocument("cv", "cv_text", "QA engineer, 8 years"); err != nil {
		t.Fatalf("set document: %v", err)
	}
	content, err := p.Document("cv")
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	if content != "QA engineer, 8 years" {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestNormalizePersonName(t *testing.T) {
	cases := map[string]string{
		"JANE DOE": "Jane Doe",
		"Jane Doe": "Jane Doe",
		"jane doe": "jane doe",
		"  JANE  ": "Jane",
		"":         "",
		"O'BRIEN":  "O'Brien",
	}
	for in, want := range cases {
		if got := NormalizePersonName(in); got != want {
			t.Fatalf("NormalizePersonName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeQuestion(t *testing.T) {
	got := NormalizeQuestion("  Are you, perhaps, available?! ")
	if got != "are you perhaps available" {
		t.Fatalf("unexpected normalization %q", got)
	}
}
