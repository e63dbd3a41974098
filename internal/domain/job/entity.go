package job

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID           uuid.UUID
	Title        string
	Company      string
	Location     string
	Description  string
	Overview     string
	Requirements string
	CreatedAt    time.Time
}

// SourceText joins the job's free-form sections for prompt building and
// fuzzy matching.
func (j Job) SourceText() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{j.Description, j.Overview, j.Requirements} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	return strings.Join(parts, "\n\n")
}
