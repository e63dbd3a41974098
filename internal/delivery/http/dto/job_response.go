package dto

import (
	"time"

	"github.com/google/uuid"
)

type JobResponse struct {
	ID           uuid.UUID               `json:"id"`
	Title        string                  `json:"title"`
	Company      string                  `json:"company"`
	Location     string                  `json:"location"`
	Description  string                  `json:"description"`
	Overview     string                  `json:"overview"`
	Requirements string                  `json:"requirements"`
	Skills       []SkillInstanceResponse `json:"skills,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
}

type JobListResponse struct {
	Jobs  []JobResponse `json:"jobs"`
	Total int           `json:"total"`
}
