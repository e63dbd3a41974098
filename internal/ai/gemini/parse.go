package gemini

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"talent-match/internal/ai"
)

func parseCategorization(raw string) (ai.SkillCategorization, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return ai.SkillCategorization{}, fmt.Errorf("parse categorization response: %w", err)
	}

	out := ai.SkillCategorization{
		CanonicalName: strings.ToLower(coerceString(data["canonical_name"])),
		Category:      coerceString(data["category"]),
		Confidence:    clampConfidence(coerceFloat(data["confidence"])),
	}
	if out.CanonicalName == "" {
		return ai.SkillCategorization{}, fmt.Errorf("categorization response missing canonical_name")
	}
	return out, nil
}

func parseAnalysis(raw string) (ai.CandidateAnalysis, error) {
	cleaned := extractJSON(raw)

	var data struct {
		Score       json.Number `json:"score"`
		Explanation string      `json:"explanation"`
		Evidence    []struct {
			Category    string `json:"category"`
			JobQuote    string `json:"job_quote"`
			ResumeQuote string `json:"resume_quote"`
			Assessment  string `json:"assessment"`
		} `json:"evidence"`
		Strengths  []string    `json:"strengths"`
		Concerns   []string    `json:"concerns"`
		Confidence json.Number `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return ai.CandidateAnalysis{}, fmt.Errorf("parse analysis response: %w", err)
	}

	score, _ := data.Score.Float64()
	if math.IsNaN(score) || score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	conf, _ := data.Confidence.Float64()

	out := ai.CandidateAnalysis{
		Score:       int(math.Round(score)),
		Explanation: strings.TrimSpace(data.Explanation),
		Evidence:    make([]ai.EvidenceItem, 0, len(data.Evidence)),
		Strengths:   emptyIfNil(data.Strengths),
		Concerns:    emptyIfNil(data.Concerns),
		Confidence:  clampConfidence(conf),
	}
	for _, e := range data.Evidence {
		out.Evidence = append(out.Evidence, ai.EvidenceItem{
			Category:    strings.TrimSpace(e.Category),
			JobQuote:    strings.TrimSpace(e.JobQuote),
			ResumeQuote: strings.TrimSpace(e.ResumeQuote),
			Assessment:  strings.TrimSpace(e.Assessment),
		})
	}
	return out, nil
}

// extractJSON strips markdown code fences the model sometimes wraps around
// its JSON payload.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	default:
		if v == nil {
			return ""
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return strings.Trim(string(b), `"`)
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func clampConfidence(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
