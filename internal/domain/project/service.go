package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/dossier/internal/domain/activity"
	"github.com/rpggio/dossier/internal/persona"
	"github.com/rpggio/dossier/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo     Repository
	activity ActivityRecorder
	logger   *slog.Logger
}

// NewService creates a new project service. recorder and logger may be nil.
func NewService(repo Repository, recorder ActivityRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, activity: recorder, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Title string
}

// Create creates a new project with a random thumbnail.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, invalid("title is required")
	}

	now := time.Now().UTC()
	proj := &Project{
		ID:             uuid.NewString(),
		Title:          req.Title,
		ThumbnailIndex: rand.IntN(ThumbnailCount),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.record(ctx, proj.ID, nil, activity.KindProjectCreated, fmt.Sprintf("created project %q", proj.Title), nil)
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns projects with the given archive flag, newest first.
func (s *Service) List(ctx context.Context, archived bool) ([]Project, error) {
	projects, err := s.repo.List(ctx, archived)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// UpdateRequest carries a partial project update. Nil fields are left alone.
type UpdateRequest struct {
	Title       *string
	Description *string
	Archived    *bool
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Project, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, invalid("title cannot be blank")
	}

	proj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var changed []string
	if req.Title != nil {
		proj.Title = *req.Title
		changed = append(changed, "title")
	}
	if req.Description != nil {
		proj.Description = req.Description
		changed = append(changed, "description")
	}
	wasArchived := proj.Archived
	if req.Archived != nil {
		proj.Archived = *req.Archived
		changed = append(changed, "archived")
	}
	if len(changed) == 0 {
		return proj, nil
	}
	proj.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, proj); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}

	if req.Archived != nil && *req.Archived != wasArchived {
		verb := "archived"
		if !*req.Archived {
			verb = "restored"
		}
		s.record(ctx, proj.ID, nil, activity.KindProjectArchived, verb+" project", nil)
	} else {
		s.record(ctx, proj.ID, nil, activity.KindProjectUpdated, "updated "+strings.Join(changed, ", "), nil)
	}
	return proj, nil
}

// CaseFileEdit is a manual, partial edit of one persona's case-file fields.
// The detail summary is only written by summarization.
type CaseFileEdit struct {
	Agent            string
	Summary          *string
	ProblemStatement *string
	Assumptions      *string
}

// UpdateCaseFile applies a manual edit. Edits addressed to an unknown persona
// change nothing and return the project as stored.
func (s *Service) UpdateCaseFile(ctx context.Context, id string, edit CaseFileEdit) (*Project, error) {
	proj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p := persona.Parse(edit.Agent)
	fields, ok := proj.CaseFile.For(p)
	if !ok {
		s.logger.Debug("ignoring case file edit for unknown persona", "project_id", id, "agent", edit.Agent)
		return proj, nil
	}

	if edit.Summary != nil {
		fields.Summary = edit.Summary
	}
	if edit.ProblemStatement != nil {
		fields.ProblemStatement = edit.ProblemStatement
	}
	if edit.Assumptions != nil {
		fields.Assumptions = edit.Assumptions
	}

	if err := s.repo.UpdateCaseFile(ctx, id, p, *fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating case file: %w", err)
	}

	agent := p.String()
	s.record(ctx, id, &agent, activity.KindCaseFileEdited, "edited "+agent+" case file", nil)
	return s.Get(ctx, id)
}

// Delete removes a project and, through the store, its messages.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	s.logger.Info("project deleted", "project_id", id)
	return nil
}

func (s *Service) record(ctx context.Context, projectID string, agent *string, kind activity.Kind, summary string, details any) {
	if s.activity == nil {
		return
	}
	entry, err := activity.NewEntry(projectID, agent, kind, summary, details)
	if err == nil {
		err = s.activity.Record(ctx, entry)
	}
	if err != nil {
		s.logger.Warn("failed to record activity", "project_id", projectID, "kind", kind, "error", err)
	}
}
