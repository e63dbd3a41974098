package dto

import (
	"time"

	"github.com/google/uuid"
)

type SkillResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type SkillInstanceResponse struct {
	SkillID    uuid.UUID `json:"skill_id"`
	SkillName  string    `json:"skill_name"`
	Category   string    `json:"category"`
	RawLabel   string    `json:"raw_label"`
	Priority   string    `json:"priority"`
	Confidence float64   `json:"confidence"`
}
