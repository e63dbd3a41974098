package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"talent-match/internal/ai"

	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

const defaultMaxLogLength = 200

// Client implements ai.CompletionClient on top of a Gemini content
// generator.
type Client struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewClient(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Client {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{generator: generator, logger: logger, maxLogLen: maxLogLength}
}

const categorizePrompt = `You are a skill taxonomy normalizer for a recruiting system.
Given one raw skill label, produce its standardized canonical form.

Respond with ONLY a JSON object, no markdown fences, no explanation:
{
  "canonical_name": "standardized lowercase skill name",
  "category": "one of: technical, soft_skill, domain, tool, methodology",
  "confidence": 0.0 to 1.0
}

Rules:
- Expand common abbreviations (js -> javascript, k8s -> kubernetes).
- Keep the canonical name short and generic, never a sentence.
- Confidence reflects how certain the mapping is, not skill popularity.

Raw skill label: %q`

func (c *Client) CategorizeSkill(ctx context.Context, rawLabel string) (ai.SkillCategorization, error) {
	prompt := fmt.Sprintf(categorizePrompt, rawLabel)

	raw, err := c.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return ai.SkillCategorization{}, err
	}

	c.logger.Debug("categorize skill response",
		zap.String("raw_label", rawLabel),
		zap.String("response_preview", truncateForLog(raw, c.maxLogLen)),
	)

	return parseCategorization(raw)
}

const analyzePromptHeader = `You are a senior technical recruiter evaluating one candidate against one job.
Judge contextual fit from the material below, quoting evidence from both sides.

Score bands: 90-100 exceptional fit, 75-89 strong fit, 60-74 good fit,
40-59 partial fit, 20-39 weak fit, 0-19 no meaningful fit.

Respond with ONLY a JSON object, no markdown fences, no explanation:
{
  "score": 0 to 100,
  "explanation": "2-4 sentences on overall fit",
  "evidence": [
    {"category": "skill or experience area", "job_quote": "...", "resume_quote": "...", "assessment": "..."}
  ],
  "strengths": ["..."],
  "concerns": ["..."],
  "confidence": 0.0 to 1.0
}`

func (c *Client) AnalyzeCandidate(ctx context.Context, req ai.AnalysisRequest) (ai.CandidateAnalysis, error) {
	prompt := buildAnalysisPrompt(req)

	c.logger.Debug("analyze candidate request",
		zap.String("job_title", req.JobTitle),
		zap.String("profile_name", req.ProfileName),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", truncateForLog(prompt, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return ai.CandidateAnalysis{}, err
	}

	c.logger.Debug("analyze candidate response",
		zap.String("profile_name", req.ProfileName),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", truncateForLog(raw, c.maxLogLen)),
	)

	return parseAnalysis(raw)
}

func buildAnalysisPrompt(req ai.AnalysisRequest) string {
	var b strings.Builder
	b.WriteString(analyzePromptHeader)
	b.WriteString("\n\n## Job\n")
	b.WriteString("Title: " + req.JobTitle + "\n")
	if req.JobCompany != "" {
		b.WriteString("Company: " + req.JobCompany + "\n")
	}
	if len(req.JobSkills) > 0 {
		b.WriteString("Required skills: " + strings.Join(req.JobSkills, ", ") + "\n")
	}
	if req.JobText != "" {
		b.WriteString("Details:\n" + req.JobText + "\n")
	}

	b.WriteString("\n## Candidate\n")
	b.WriteString("Name: " + req.ProfileName + "\n")
	if len(req.ProfileSkills) > 0 {
		b.WriteString("Skills: " + strings.Join(req.ProfileSkills, ", ") + "\n")
	}
	if req.ProfileText != "" {
		b.WriteString("Background:\n" + req.ProfileText + "\n")
	}

	b.WriteString("\nJSON Response:")
	return b.String()
}

func truncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
