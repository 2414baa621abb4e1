package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/dossier/internal/domain/chat"
	"github.com/rpggio/dossier/internal/prompt"
)

// MessageRepository implements chat.Repository for SQLite
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// List returns a project's messages in conversation order. A non-nil agent
// restricts the result to that persona tag.
func (r *MessageRepository) List(ctx context.Context, projectID string, agent *string) ([]chat.Message, error) {
	query := `
		SELECT id, project_id, agent, role, content, created_at
		FROM chat_messages
		WHERE project_id = ?
	`
	args := []any{projectID}
	if agent != nil {
		query += " AND agent = ?"
		args = append(args, *agent)
	}
	query += " ORDER BY created_at ASC, seq ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []chat.Message{}
	for rows.Next() {
		var msg chat.Message
		var tag sql.NullString
		var role string
		if err := rows.Scan(&msg.ID, &msg.ProjectID, &tag, &role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Agent = stringPtr(tag)
		msg.Role = prompt.Role(role)
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}

// AppendExchange stores a user message and its reply in one transaction.
// The reply always sorts after the message it answers.
func (r *MessageRepository) AppendExchange(ctx context.Context, user, assistant *chat.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM chat_messages WHERE project_id = ?`,
		user.ProjectID,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("failed to read message sequence: %w", err)
	}

	insert := `
		INSERT INTO chat_messages (id, seq, project_id, agent, role, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for _, msg := range []*chat.Message{user, assistant} {
		seq++
		_, err := tx.ExecContext(ctx, insert,
			msg.ID,
			seq,
			msg.ProjectID,
			nullString(msg.Agent),
			string(msg.Role),
			msg.Content,
			msg.CreatedAt,
		)
		if err != nil {
			return wrapWriteError("failed to insert message", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
