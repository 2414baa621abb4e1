package sqlite

import (
	"errors"
	"fmt"
	"strings"

	driver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/rpggio/dossier/internal/repository"
)

// constraintCode returns the extended SQLite result code carried by err,
// or 0 when there is none.
func constraintCode(err error) int {
	if err == nil {
		return 0
	}
	var sqlErr *driver.Error
	if errors.As(err, &sqlErr) && sqlErr.Code() != sqlite3.SQLITE_CONSTRAINT {
		return sqlErr.Code()
	}
	// A bare SQLITE_CONSTRAINT only names the constraint in its message.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return 0
}

// wrapWriteError maps constraint failures to repository sentinels.
func wrapWriteError(op string, err error) error {
	switch constraintCode(err) {
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return fmt.Errorf("%s: %w", op, repository.ErrForeignKeyViolation)
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return fmt.Errorf("%s: %w", op, repository.ErrInvalidInput)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
