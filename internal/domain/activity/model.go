package activity

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput indicates an entry that cannot be recorded.
var ErrInvalidInput = errors.New("invalid activity input")

// Kind names what happened to a project.
type Kind string

const (
	KindProjectCreated     Kind = "project_created"
	KindProjectUpdated     Kind = "project_updated"
	KindProjectArchived    Kind = "project_archived"
	KindMessageExchanged   Kind = "message_exchanged"
	KindCaseFileSummarized Kind = "case_file_summarized"
	KindCaseFileEdited     Kind = "case_file_edited"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindProjectCreated, KindProjectUpdated, KindProjectArchived,
		KindMessageExchanged, KindCaseFileSummarized, KindCaseFileEdited:
		return true
	}
	return false
}

// Entry is one line of a project's audit trail. Agent is set for entries
// that concern a single persona.
type Entry struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"project_id"`
	Agent     *string   `json:"agent,omitempty"`
	Kind      Kind      `json:"type"`
	Summary   string    `json:"summary"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEntry builds an entry, encoding details as JSON when non-nil.
func NewEntry(projectID string, agent *string, kind Kind, summary string, details any) (*Entry, error) {
	entry := &Entry{ProjectID: projectID, Agent: agent, Kind: kind, Summary: summary}
	if details == nil {
		return entry, nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("encoding activity details: %w", err)
	}
	entry.Details = string(data)
	return entry, nil
}

// ListOptions filters a listing. Zero values match everything.
type ListOptions struct {
	ProjectID string
	Agent     *string
	Kind      *Kind
	Limit     int
	Offset    int
}
