package project

import (
	"time"

	"github.com/rpggio/dossier/internal/persona"
)

// ThumbnailCount is the number of stock thumbnails a project can display.
const ThumbnailCount = 4

// Project is a design project with its per-persona case file.
type Project struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	Archived       bool      `json:"archived"`
	ThumbnailIndex int       `json:"thumbnail_index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	CaseFile       CaseFile  `json:"case_file"`
}

// Fields is the structured memory kept for one persona. Each field is
// independently nullable.
type Fields struct {
	Summary          *string `json:"summary"`
	ProblemStatement *string `json:"problem_statement"`
	Assumptions      *string `json:"assumptions"`
	DetailSummary    *string `json:"detail_summary"`
}

// CaseFile holds the four personas' fields.
type CaseFile struct {
	Strategy Fields `json:"strategy"`
	Research Fields `json:"research"`
	Concept  Fields `json:"concept"`
	Present  Fields `json:"present"`
}

// For returns the fields owned by p. Unknown personas own nothing.
func (c *CaseFile) For(p persona.Persona) (*Fields, bool) {
	switch p {
	case persona.Strategy:
		return &c.Strategy, true
	case persona.Research:
		return &c.Research, true
	case persona.Concept:
		return &c.Concept, true
	case persona.Present:
		return &c.Present, true
	default:
		return nil, false
	}
}

// DetailSummaries maps every known persona to its stored detail summary,
// using "" for unset values.
func (c *CaseFile) DetailSummaries() map[persona.Persona]string {
	details := make(map[persona.Persona]string, len(persona.All))
	for _, p := range persona.All {
		f, _ := c.For(p)
		details[p] = deref(f.DetailSummary)
	}
	return details
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
