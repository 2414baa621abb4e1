// Package chat runs persona conversations and case-file summarization for a
// project.
package chat

import (
	"time"

	"github.com/rpggio/dossier/internal/prompt"
)

// Message is a persisted chat turn. Agent is nil for legacy untagged rows.
type Message struct {
	ID        string      `json:"id"`
	ProjectID string      `json:"project_id"`
	Agent     *string     `json:"agent"`
	Role      prompt.Role `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// Exchange is the pair of rows written by one successful chat turn.
type Exchange struct {
	UserMessage      Message `json:"user_message"`
	AssistantMessage Message `json:"assistant_message"`
}

// SummaryResult is the outcome of summarizing one persona. Stored is false
// when the persona is unknown and no case-file fields were written.
type SummaryResult struct {
	Agent   string         `json:"agent"`
	Summary prompt.Summary `json:"summary"`
	Stored  bool           `json:"stored"`
}
