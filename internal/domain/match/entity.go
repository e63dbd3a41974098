package match

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusStep1Complete Status = "step1_complete"
	StatusCompleted     Status = "completed"
)

// Session is the persisted record of one job's matching workflow across both
// phases. Sessions are an append-only audit trail: they are reused and
// updated, never deleted.
type Session struct {
	ID              uuid.UUID
	JobID           uuid.UUID
	Status          Status
	Step1Results    []StoredMatch
	Step2Selections []uuid.UUID
	Step2Results    []StoredAnalysis
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ContainsProfile reports whether the session's step-1 results surfaced the
// given profile. Sessions without step-1 results accept any profile.
func (s Session) ContainsProfile(profileID uuid.UUID) bool {
	if len(s.Step1Results) == 0 {
		return true
	}
	for _, m := range s.Step1Results {
		if m.ProfileID == profileID {
			return true
		}
	}
	return false
}

// StoredMatch is the step-1 result payload persisted on the session.
type StoredMatch struct {
	ProfileID         uuid.UUID     `json:"profile_id"`
	Score             int           `json:"score"`
	MandatoryMissing  bool          `json:"mandatory_missing"`
	MatchedMustHave   []StoredSkill `json:"matched_must_have"`
	MissingMustHave   []StoredSkill `json:"missing_must_have"`
	MatchedNiceToHave []StoredSkill `json:"matched_nice_to_have"`
	MissingNiceToHave []StoredSkill `json:"missing_nice_to_have"`
}

type StoredSkill struct {
	SkillID   uuid.UUID `json:"skill_id"`
	SkillName string    `json:"skill_name"`
}

// StoredAnalysis is the step-2 deep-analysis payload persisted on the
// session. Degraded entries carry score 0 and confidence 0.
type StoredAnalysis struct {
	ProfileID   uuid.UUID  `json:"profile_id"`
	Score       int        `json:"score"`
	Explanation string     `json:"explanation"`
	Evidence    []Evidence `json:"evidence"`
	Strengths   []string   `json:"strengths"`
	Concerns    []string   `json:"concerns"`
	Confidence  float64    `json:"confidence"`
}

type Evidence struct {
	Category    string `json:"category"`
	JobQuote    string `json:"job_quote"`
	ResumeQuote string `json:"resume_quote"`
	Assessment  string `json:"assessment"`
}
