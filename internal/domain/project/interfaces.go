package project

import (
	"context"

	"github.com/rpggio/dossier/internal/domain/activity"
	"github.com/rpggio/dossier/internal/persona"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, archived bool) ([]Project, error)
	Update(ctx context.Context, proj *Project) error
	UpdateCaseFile(ctx context.Context, id string, p persona.Persona, fields Fields) error
	Delete(ctx context.Context, id string) error
}

// ActivityRecorder records audit entries.
type ActivityRecorder interface {
	Record(ctx context.Context, entry *activity.Entry) error
}
