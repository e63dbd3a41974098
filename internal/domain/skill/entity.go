package skill

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryTechnical   Category = "technical"
	CategorySoftSkill   Category = "soft_skill"
	CategoryDomain      Category = "domain"
	CategoryTool        Category = "tool"
	CategoryMethodology Category = "methodology"
)

func ParseCategory(raw string) Category {
	switch Category(strings.TrimSpace(strings.ToLower(raw))) {
	case CategoryTechnical, CategorySoftSkill, CategoryDomain, CategoryTool, CategoryMethodology:
		return Category(strings.TrimSpace(strings.ToLower(raw)))
	default:
		return CategoryTechnical
	}
}

type Priority string

const (
	PriorityMustHave   Priority = "must_have"
	PriorityNiceToHave Priority = "nice_to_have"
	PriorityCore       Priority = "core"
	PriorityPreferred  Priority = "preferred"
)

// IsMandatory reports whether the priority counts toward the must-have bucket.
func (p Priority) IsMandatory() bool {
	return p == PriorityMustHave || p == PriorityCore
}

func ParsePriority(raw string) Priority {
	switch Priority(strings.TrimSpace(strings.ToLower(raw))) {
	case PriorityMustHave, PriorityNiceToHave, PriorityCore, PriorityPreferred:
		return Priority(strings.TrimSpace(strings.ToLower(raw)))
	default:
		return PriorityNiceToHave
	}
}

type EntityType string

const (
	EntityJob     EntityType = "job"
	EntityProfile EntityType = "profile"
)

type AliasSource string

const (
	AliasSourceHuman AliasSource = "human"
	AliasSourceAI    AliasSource = "ai"
)

// CanonicalSkill is the standardized, deduplicated representation of a skill
// concept. Rows are created lazily and never deleted.
type CanonicalSkill struct {
	ID        uuid.UUID
	Name      string
	Category  Category
	CreatedAt time.Time
}

// Alias maps a normalized raw string to a canonical skill.
type Alias struct {
	ID         uuid.UUID
	Alias      string
	SkillID    uuid.UUID
	Confidence float64
	Source     AliasSource
	CreatedAt  time.Time
}

// Instance is one occurrence of a skill attached to a job or profile.
type Instance struct {
	ID         uuid.UUID
	EntityType EntityType
	EntityID   uuid.UUID
	SkillID    uuid.UUID
	SkillName  string
	Category   Category
	RawLabel   string
	Priority   Priority
	Confidence float64
	CreatedAt  time.Time
}

// CleanLabel normalizes a raw skill label for alias and canonical-name
// lookups: trim, collapse whitespace, strip punctuation except '.' and '-',
// lowercase.
func CleanLabel(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		case r == '.' || r == '-':
			b.WriteRune(r)
			lastSpace = false
		case isPunct(r):
			// dropped
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func isPunct(r rune) bool {
	switch r {
	case '!', '"', '#', '$', '%', '&', '\'', '(', ')', '*', ',', '/', ':', ';',
		'<', '=', '>', '?', '@', '[', '\\', ']', '^', '_', '`', '{', '|', '}', '~', '+':
		return true
	}
	return false
}
