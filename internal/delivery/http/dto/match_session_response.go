package dto

import (
	"time"

	"github.com/google/uuid"
)

type MatchSessionResponse struct {
	ID              uuid.UUID                `json:"id"`
	JobID           uuid.UUID                `json:"job_id"`
	Status          string                   `json:"status"`
	Step1Results    []CandidateMatchResponse `json:"step1_results,omitempty"`
	Step2Selections []uuid.UUID              `json:"step2_selections,omitempty"`
	Step2Results    []AnalysisResultResponse `json:"step2_results,omitempty"`
	Notes           string                   `json:"notes,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

type MatchSessionListResponse struct {
	Sessions []MatchSessionResponse `json:"sessions"`
	Total    int                    `json:"total"`
}
