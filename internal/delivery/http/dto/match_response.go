package dto

import "github.com/google/uuid"

type SkillRefResponse struct {
	SkillID   uuid.UUID `json:"skill_id"`
	SkillName string    `json:"skill_name"`
}

type CandidateMatchResponse struct {
	ProfileID         uuid.UUID          `json:"profile_id"`
	Score             int                `json:"score"`
	MandatoryMissing  bool               `json:"mandatory_missing"`
	MatchedMustHave   []SkillRefResponse `json:"matched_must_have"`
	MissingMustHave   []SkillRefResponse `json:"missing_must_have"`
	MatchedNiceToHave []SkillRefResponse `json:"matched_nice_to_have"`
	MissingNiceToHave []SkillRefResponse `json:"missing_nice_to_have"`
}

type Step1Response struct {
	SessionID    uuid.UUID                `json:"session_id"`
	Matches      []CandidateMatchResponse `json:"matches"`
	TotalMatches int                      `json:"total_matches"`
}

type EvidenceResponse struct {
	Category    string `json:"category"`
	JobQuote    string `json:"job_quote"`
	ResumeQuote string `json:"resume_quote"`
	Assessment  string `json:"assessment"`
}

type AnalysisResultResponse struct {
	ProfileID   uuid.UUID          `json:"profile_id"`
	Score       int                `json:"score"`
	Explanation string             `json:"explanation"`
	Evidence    []EvidenceResponse `json:"evidence"`
	Strengths   []string           `json:"strengths"`
	Concerns    []string           `json:"concerns"`
	Confidence  float64            `json:"confidence"`
}

type Step2Response struct {
	SessionID     uuid.UUID                `json:"session_id"`
	Results       []AnalysisResultResponse `json:"results"`
	TotalAnalyzed int                      `json:"total_analyzed"`
}
