package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rpggio/dossier/internal/completion"
	"github.com/rpggio/dossier/internal/domain/activity"
	"github.com/rpggio/dossier/internal/domain/chat"
	"github.com/rpggio/dossier/internal/domain/project"
	"github.com/rpggio/dossier/internal/persona"
	"github.com/rpggio/dossier/internal/prompt"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, archived bool) ([]project.Project, error) {
	args := m.Called(ctx, archived)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) UpdateCaseFile(ctx context.Context, id string, p persona.Persona, fields project.Fields) error {
	args := m.Called(ctx, id, p, fields)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MessageRepository is a mock for chat.Repository.
type MessageRepository struct {
	mock.Mock
}

func (m *MessageRepository) List(ctx context.Context, projectID string, agent *string) ([]chat.Message, error) {
	args := m.Called(ctx, projectID, agent)
	if list, ok := args.Get(0).([]chat.Message); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MessageRepository) AppendExchange(ctx context.Context, user, assistant *chat.Message) error {
	args := m.Called(ctx, user, assistant)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Append(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// CompletionClient is a mock for completion.Client.
type CompletionClient struct {
	mock.Mock
}

func (m *CompletionClient) Complete(ctx context.Context, messages []prompt.Message, params completion.Params) (string, error) {
	args := m.Called(ctx, messages, params)
	return args.String(0), args.Error(1)
}
