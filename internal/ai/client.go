package ai

import "context"

// SkillCategorization is the completion service's answer for one raw skill
// label.
type SkillCategorization struct {
	CanonicalName string
	Category      string
	Confidence    float64
}

// AnalysisRequest carries the job and candidate text handed to the
// completion service for deep analysis. Free-form sections are already
// truncated to the prompt budget by the caller.
type AnalysisRequest struct {
	JobTitle      string
	JobCompany    string
	JobSkills     []string
	JobText       string
	ProfileName   string
	ProfileSkills []string
	ProfileText   string
}

type EvidenceItem struct {
	Category    string
	JobQuote    string
	ResumeQuote string
	Assessment  string
}

// CandidateAnalysis is the structured deep-analysis verdict for one
// candidate.
type CandidateAnalysis struct {
	Score       int
	Explanation string
	Evidence    []EvidenceItem
	Strengths   []string
	Concerns    []string
	Confidence  float64
}

// CompletionClient is the external completion service seen by the pipeline.
// Implementations must be safe for concurrent use; callers treat every error
// as recoverable and degrade to local fallbacks.
type CompletionClient interface {
	CategorizeSkill(ctx context.Context, rawLabel string) (SkillCategorization, error)
	AnalyzeCandidate(ctx context.Context, req AnalysisRequest) (CandidateAnalysis, error)
}
