package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	ID         uuid.UUID               `json:"id"`
	Name       string                  `json:"name"`
	Headline   string                  `json:"headline"`
	Summary    string                  `json:"summary"`
	Experience string                  `json:"experience"`
	Skills     []SkillInstanceResponse `json:"skills,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
}
