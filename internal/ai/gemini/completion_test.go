package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"talent-match/internal/ai"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestCategorizeSkill(t *testing.T) {
	stub := &stubGenerator{response: `{"canonical_name": "JavaScript", "category": "technical", "confidence": 0.95}`}
	client := NewClient(stub, zap.NewNop(), 0)

	got, err := client.CategorizeSkill(context.Background(), "JS")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.CanonicalName != "javascript" {
		t.Fatalf("expected lowercase canonical name, got %q", got.CanonicalName)
	}
	if got.Category != "technical" || got.Confidence != 0.95 {
		t.Fatalf("unexpected categorization: %+v", got)
	}
}

func TestCategorizeSkill_GeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("rate limited")}
	client := NewClient(stub, zap.NewNop(), 0)

	if _, err := client.CategorizeSkill(context.Background(), "go"); err == nil {
		t.Fatalf("expected generator error to propagate")
	}
}

func TestAnalyzeCandidate(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + `{
		"score": 87,
		"explanation": "Strong backend background.",
		"evidence": [{"category": "go", "job_quote": "Go required", "resume_quote": "5y Go", "assessment": "direct match"}],
		"strengths": ["golang"],
		"concerns": [],
		"confidence": 0.8
	}` + "\n```"}
	client := NewClient(stub, zap.NewNop(), 0)

	got, err := client.AnalyzeCandidate(context.Background(), ai.AnalysisRequest{
		JobTitle:    "Backend Engineer",
		ProfileName: "Cand",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Score != 87 || got.Confidence != 0.8 {
		t.Fatalf("unexpected analysis: %+v", got)
	}
	if len(got.Evidence) != 1 || got.Evidence[0].Category != "go" {
		t.Fatalf("unexpected evidence: %+v", got.Evidence)
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	prompt := buildAnalysisPrompt(ai.AnalysisRequest{
		JobTitle:      "Backend Engineer",
		JobCompany:    "Acme",
		JobSkills:     []string{"golang (must have)", "sql"},
		ProfileName:   "Cand",
		ProfileSkills: []string{"golang"},
		ProfileText:   "Five years of Go services.",
	})

	for _, want := range []string{"Backend Engineer", "Acme", "golang (must have)", "Five years of Go services."} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
