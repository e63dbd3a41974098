package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID         uuid.UUID
	Name       string
	Headline   string
	Summary    string
	Experience string
	ResumeText string
	CreatedAt  time.Time
}

// SourceText joins the profile's free-form sections for prompt building and
// fuzzy matching.
func (p Profile) SourceText() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Summary, p.Experience, p.ResumeText} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	return strings.Join(parts, "\n\n")
}
