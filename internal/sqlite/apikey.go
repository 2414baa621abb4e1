package sqlite

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/dossier/internal/repository"
)

// APIKeyRepository stores hashed bearer tokens.
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create generates a new key, stores its hash and returns the plaintext.
func (r *APIKeyRepository) Create(ctx context.Context, description string) (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	token := "dsr_" + hex.EncodeToString(raw)

	if err := r.Insert(ctx, token, description); err != nil {
		return "", err
	}
	return token, nil
}

// Insert stores the hash of a caller-chosen token.
func (r *APIKeyRepository) Insert(ctx context.Context, token, description string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, created_at, description) VALUES (?, ?, ?)`,
		HashToken(token), time.Now().UTC(), description,
	)
	if err != nil {
		return wrapWriteError("failed to store api key", err)
	}
	return nil
}

// VerifyToken checks a bearer token and records its use.
func (r *APIKeyRepository) VerifyToken(ctx context.Context, token string) error {
	var hash string
	err := r.db.QueryRowContext(ctx, `SELECT key_hash FROM api_keys WHERE key_hash = ?`, HashToken(token)).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to verify api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().UTC(), hash); err != nil {
		return fmt.Errorf("failed to touch api key: %w", err)
	}
	return nil
}

// HashToken returns the stored form of a token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
