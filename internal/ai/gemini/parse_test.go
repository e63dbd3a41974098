package gemini

import "testing"

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, c := range cases {
		if got := extractJSON(c.in); got != c.want {
			t.Errorf("extractJSON(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseCategorization_Tolerant(t *testing.T) {
	got, err := parseCategorization(`{"canonical_name": "Go", "category": "technical", "confidence": "0.7"}`)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.CanonicalName != "go" {
		t.Fatalf("expected lowered name, got %q", got.CanonicalName)
	}
	if got.Confidence != 0.7 {
		t.Fatalf("expected string confidence coerced, got %v", got.Confidence)
	}
}

func TestParseCategorization_MissingName(t *testing.T) {
	if _, err := parseCategorization(`{"category": "technical"}`); err == nil {
		t.Fatalf("expected error for missing canonical_name")
	}
}

func TestParseAnalysis_ClampsScore(t *testing.T) {
	got, err := parseAnalysis(`{"score": 250, "explanation": "x", "confidence": 3.5}`)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Score != 100 {
		t.Fatalf("expected score clamped to 100, got %d", got.Score)
	}
	if got.Confidence != 1 {
		t.Fatalf("expected confidence clamped to 1, got %v", got.Confidence)
	}
	if got.Strengths == nil || got.Concerns == nil {
		t.Fatalf("expected nil slices normalized to empty")
	}
}

func TestParseAnalysis_Invalid(t *testing.T) {
	if _, err := parseAnalysis("not json at all"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestClampConfidence(t *testing.T) {
	if clampConfidence(-0.2) != 0 {
		t.Errorf("negative should clamp to 0")
	}
	if clampConfidence(1.7) != 1 {
		t.Errorf("values above 1 should clamp to 1")
	}
	if clampConfidence(0.42) != 0.42 {
		t.Errorf("in-range values should pass through")
	}
}
