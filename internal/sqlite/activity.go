package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/dossier/internal/domain/activity"
)

// ActivityRepository stores the per-project audit trail.
type ActivityRepository struct {
	db *DB
}

func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append writes entry and fills in its ID and CreatedAt.
func (r *ActivityRepository) Append(ctx context.Context, entry *activity.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_log (project_id, agent, kind, summary, details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ProjectID, nullString(entry.Agent), entry.Kind, entry.Summary,
		nullString(optional(entry.Details)), entry.CreatedAt,
	)
	if err != nil {
		return wrapWriteError("failed to append activity", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// List returns entries matching opts, newest first.
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	where, args := activityFilter(opts)

	var b strings.Builder
	b.WriteString(`SELECT id, project_id, agent, kind, summary, details, created_at FROM activity_log`)
	b.WriteString(where)
	b.WriteString(` ORDER BY created_at DESC, id DESC`)
	switch {
	case opts.Limit > 0:
		b.WriteString(` LIMIT ?`)
		args = append(args, opts.Limit)
	case opts.Offset > 0:
		// SQLite only accepts OFFSET after a LIMIT.
		b.WriteString(` LIMIT -1`)
	}
	if opts.Offset > 0 {
		b.WriteString(` OFFSET ?`)
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []activity.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity: %w", err)
	}
	return entries, nil
}

func activityFilter(opts activity.ListOptions) (string, []any) {
	var clauses []string
	var args []any
	if opts.ProjectID != "" {
		clauses = append(clauses, "project_id = ?")
		args = append(args, opts.ProjectID)
	}
	if opts.Agent != nil {
		clauses = append(clauses, "agent = ?")
		args = append(args, *opts.Agent)
	}
	if opts.Kind != nil {
		clauses = append(clauses, "kind = ?")
		args = append(args, string(*opts.Kind))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanEntry(row rowScanner) (activity.Entry, error) {
	var (
		entry          activity.Entry
		agent, details sql.NullString
	)
	if err := row.Scan(&entry.ID, &entry.ProjectID, &agent, &entry.Kind, &entry.Summary, &details, &entry.CreatedAt); err != nil {
		return activity.Entry{}, fmt.Errorf("failed to scan activity entry: %w", err)
	}
	entry.Agent = stringPtr(agent)
	entry.Details = details.String
	return entry, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
