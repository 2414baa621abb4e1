package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	// DefaultLimit applies when a listing doesn't ask for one.
	DefaultLimit = 50
	// MaxLimit bounds a single page.
	MaxLimit = 500
)

// Repository persists activity entries.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
}

// Service records and lists project activity.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// Record appends entry, stamping CreatedAt when it is unset.
func (s *Service) Record(ctx context.Context, entry *Entry) error {
	if entry == nil || strings.TrimSpace(entry.ProjectID) == "" || !entry.Kind.Valid() {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("recording %s: %w", entry.Kind, err)
	}
	s.logger.Debug("activity recorded", "project_id", entry.ProjectID, "kind", entry.Kind)
	return nil
}

// List returns matching entries, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	if opts.Offset < 0 {
		return nil, fmt.Errorf("%w: negative offset", ErrInvalidInput)
	}
	switch {
	case opts.Limit <= 0:
		opts.Limit = DefaultLimit
	case opts.Limit > MaxLimit:
		opts.Limit = MaxLimit
	}
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}
