package chat

import (
	"context"

	"github.com/rpggio/dossier/internal/domain/activity"
	"github.com/rpggio/dossier/internal/domain/project"
	"github.com/rpggio/dossier/internal/persona"
)

// Repository provides persistence for chat messages.
type Repository interface {
	// List returns a project's messages in creation order. A nil agent
	// returns every message.
	List(ctx context.Context, projectID string, agent *string) ([]Message, error)
	// AppendExchange writes both rows in a single transaction.
	AppendExchange(ctx context.Context, user, assistant *Message) error
}

// ProjectStore is the slice of project persistence the conversation needs.
type ProjectStore interface {
	Get(ctx context.Context, id string) (*project.Project, error)
	UpdateCaseFile(ctx context.Context, id string, p persona.Persona, fields project.Fields) error
}

// ActivityRecorder records audit entries.
type ActivityRecorder interface {
	Record(ctx context.Context, entry *activity.Entry) error
}
