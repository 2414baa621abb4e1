package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/dossier/internal/domain/project"
	"github.com/rpggio/dossier/internal/persona"
	"github.com/rpggio/dossier/internal/repository"
)

// caseFileSuffixes are the per-persona column suffixes, in Fields order.
var caseFileSuffixes = []string{"summary", "problem_statement", "assumptions", "detail_summary"}

// caseFileColumns lists the case-file columns of one persona.
func caseFileColumns(p persona.Persona) []string {
	cols := make([]string, len(caseFileSuffixes))
	for i, suffix := range caseFileSuffixes {
		cols[i] = p.String() + "_" + suffix
	}
	return cols
}

// projectColumns is the full select list, case file last.
var projectColumns = func() string {
	cols := []string{"id", "title", "description", "archived", "thumbnail_index", "created_at", "updated_at"}
	for _, p := range persona.All {
		cols = append(cols, caseFileColumns(p)...)
	}
	return strings.Join(cols, ", ")
}()

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project with an empty case file
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `
		INSERT INTO projects (id, title, description, archived, thumbnail_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		proj.ID,
		proj.Title,
		nullString(proj.Description),
		proj.Archived,
		proj.ThumbnailIndex,
		proj.CreatedAt,
		proj.UpdatedAt,
	)
	if err != nil {
		return wrapWriteError("failed to create project", err)
	}

	return nil
}

// Get retrieves a project and its case file by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return proj, nil
}

// List returns projects with the given archive flag, newest first
func (r *ProjectRepository) List(ctx context.Context, archived bool) ([]project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE archived = ? ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, archived)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

// Update writes the project's own columns. The case file is left alone.
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	query := `
		UPDATE projects
		SET title = ?, description = ?, archived = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.Title,
		nullString(proj.Description),
		proj.Archived,
		proj.UpdatedAt,
		proj.ID,
	)
	if err != nil {
		return wrapWriteError("failed to update project", err)
	}

	return requireAffected(result)
}

// UpdateCaseFile overwrites the four case-file columns owned by p.
func (r *ProjectRepository) UpdateCaseFile(ctx context.Context, id string, p persona.Persona, fields project.Fields) error {
	if !p.Known() {
		return fmt.Errorf("case file for %q: %w", p, repository.ErrInvalidInput)
	}

	cols := caseFileColumns(p)
	assignments := make([]string, len(cols))
	for i, col := range cols {
		assignments[i] = col + " = ?"
	}
	query := `UPDATE projects SET ` + strings.Join(assignments, ", ") + `, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		nullString(fields.Summary),
		nullString(fields.ProblemStatement),
		nullString(fields.Assumptions),
		nullString(fields.DetailSummary),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update case file: %w", err)
	}

	return requireAffected(result)
}

// Delete removes a project. Messages and activity go with it.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return requireAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	var description sql.NullString

	caseFile := make([]sql.NullString, len(persona.All)*len(caseFileSuffixes))
	dest := []any{
		&proj.ID,
		&proj.Title,
		&description,
		&proj.Archived,
		&proj.ThumbnailIndex,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	}
	for i := range caseFile {
		dest = append(dest, &caseFile[i])
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	proj.Description = stringPtr(description)
	for i, p := range persona.All {
		fields, _ := proj.CaseFile.For(p)
		vals := caseFile[i*len(caseFileSuffixes):]
		fields.Summary = stringPtr(vals[0])
		fields.ProblemStatement = stringPtr(vals[1])
		fields.Assumptions = stringPtr(vals[2])
		fields.DetailSummary = stringPtr(vals[3])
	}

	return &proj, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
