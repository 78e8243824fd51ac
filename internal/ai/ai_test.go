package ai

import (
	"context"
	"fmt"
	"testing"

	"github.com/jobdeck/jobdeck/internal/config"
	"github.com/jobdeck/jobdeck/pkg/ollama"
)

type stubLLM struct {
	out string
	err error
}

func (s *stubLLM) Generate(ctx context.Context, model, prompt string) (ollama.GenerateResult, error) {
	if s.err != nil {
		return ollama.GenerateResult{}, s.err
	}
	return ollama.GenerateResult{Text: s.out}, nil
}

func newTestEngine(t *testing.T, llm LLM) *Engine {
	t.Helper()
	e, err := NewEngine(llm, config.EngineConfig{Model: "test-model"}, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestParsePosting_Success(t *testing.T) {
	out := "Here is the extraction:\n```json\n" + `{
		"title": "Backend Engineer",
		"company_name": "Acme",
		"apply_email": "jobs@acme.test",
		"industry": {"name": "Internet"},
		"tags": [{"name": "Go", "category": "skill"}, {"name": "SQL"}],
		"requirements": {"skills": ["go", "sql"], "experience": "3+ years"},
		"confidence": 0.9
	}` + "\n```"

	e := newTestEngine(t, &stubLLM{out: out})
	res, err := e.ParsePosting(context.Background(), "some raw posting")
	if err != nil {
		t.Fatalf("ParsePosting: %v", err)
	}
	if res.Title != "Backend Engineer" || res.ApplyEmail != "jobs@acme.test" {
		t.Fatalf("unexpected result: %#v", res)
	}
	if len(res.Tags) != 2 || res.Tags[0].Name != "Go" {
		t.Fatalf("unexpected tags: %#v", res.Tags)
	}
	if res.Industry == nil || res.Industry.Name != "Internet" {
		t.Fatalf("unexpected industry: %#v", res.Industry)
	}
	if res.Confidence == nil || *res.Confidence != 0.9 {
		t.Fatalf("unexpected confidence: %v", res.Confidence)
	}
	if res.Raw == "" {
		t.Fatalf("expected raw output preserved")
	}
}

func TestParsePosting_FillsMissingConfidence(t *testing.T) {
	e := newTestEngine(t, &stubLLM{out: `{"title": "X", "apply_email": "a@b.test", "tags": [{"name": "go"}]}`})
	res, err := e.ParsePosting(context.Background(), "raw")
	if err != nil {
		t.Fatalf("ParsePosting: %v", err)
	}
	if res.Confidence == nil || *res.Confidence <= 0 {
		t.Fatalf("expected assessed confidence, got %v", res.Confidence)
	}
}

func TestParsePosting_SchemaRejectsMissingTitle(t *testing.T) {
	e := newTestEngine(t, &stubLLM{out: `{"company_name": "Acme"}`})
	if _, err := e.ParsePosting(context.Background(), "raw"); err == nil {
		t.Fatalf("expected schema rejection for missing title")
	}
}

func TestParsePosting_NoJSON(t *testing.T) {
	e := newTestEngine(t, &stubLLM{out: "sorry, I cannot help with that"})
	if _, err := e.ParsePosting(context.Background(), "raw"); err == nil {
		t.Fatalf("expected error for output without JSON")
	}
}

func TestParsePosting_EmptyInput(t *testing.T) {
	e := newTestEngine(t, &stubLLM{out: "{}"})
	if _, err := e.ParsePosting(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestParsePosting_LLMError(t *testing.T) {
	e := newTestEngine(t, &stubLLM{err: fmt.Errorf("boom")})
	if _, err := e.ParsePosting(context.Background(), "raw"); err == nil {
		t.Fatalf("expected generate error to surface")
	}
}

func TestParseResume_Success(t *testing.T) {
	e := newTestEngine(t, &stubLLM{out: `{"name": "Ada", "skills": ["Go", "SQL"], "years_experience": 5}`})
	profile, err := e.ParseResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("ParseResume: %v", err)
	}
	if profile.Name != "Ada" || len(profile.Skills) != 2 {
		t.Fatalf("unexpected profile: %#v", profile)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"prefix {\"a\":1} suffix", `{"a":1}`},
		{"no json here", ""},
		{"}{", ""},
	}
	for _, tt := range tests {
		if got := extractJSON(tt.in); got != tt.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatchScore(t *testing.T) {
	profile := &ResumeProfile{Skills: []string{"Go", "TypeScript", "Docker"}}

	score, highlights := MatchScore(profile, []string{"go", "typescript", "kubernetes", "sql"})
	if score != 0.5 {
		t.Fatalf("expected score 0.5, got %v", score)
	}
	if len(highlights) != 2 || highlights[0] != "go" || highlights[1] != "typescript" {
		t.Fatalf("unexpected highlights: %v", highlights)
	}

	// case and formatting are normalized away
	score, _ = MatchScore(profile, []string{"TypeScript"})
	if score != 1.0 {
		t.Fatalf("expected normalized match, got %v", score)
	}

	if score, _ := MatchScore(profile, nil); score != 0 {
		t.Fatalf("expected zero score for no requirements, got %v", score)
	}
	if score, _ := MatchScore(nil, []string{"go"}); score != 0 {
		t.Fatalf("expected zero score for nil profile, got %v", score)
	}
}
