// Package repository holds the errors every storage backend reports, so the
// domain services can translate them without importing a driver.
package repository

import "errors"

var (
	// ErrNotFound means no row matched the lookup key.
	ErrNotFound = errors.New("not found")
	// ErrForeignKeyViolation means a row referenced a missing project.
	ErrForeignKeyViolation = errors.New("foreign key violation")
	// ErrInvalidInput means the store rejected the values it was given.
	ErrInvalidInput = errors.New("invalid input")
)
