package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/spacedesk/internal/repository"
)

// APIKeyRepository stores hashed operator API keys.
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// HashKey returns the stored form of a bearer token.
func HashKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Generate creates a random key for operatorID, stores its hash and returns the plain key.
// The plain key is not recoverable afterwards.
func (r *APIKeyRepository) Generate(ctx context.Context, operatorID, description string) (string, error) {
	token := "sdk_" + uuid.NewString()
	if err := r.Add(ctx, token, operatorID, description); err != nil {
		return "", err
	}
	return token, nil
}

// Add stores the hash of a known token.
func (r *APIKeyRepository) Add(ctx context.Context, token, operatorID, description string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_keys (key_hash, operator_id, description, created_at) VALUES (?, ?, ?, ?)
	`, HashKey(token), operatorID, description, time.Now().UTC())
	return translate("failed to store api key", err)
}

// ResolveOperator returns the operator owning token and records its use.
func (r *APIKeyRepository) ResolveOperator(ctx context.Context, token string) (string, error) {
	hash := HashKey(token)
	var operatorID string
	err := r.db.QueryRowContext(ctx, `SELECT operator_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&operatorID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}
	// last_used is informational; a busy store must not reject the request.
	_, _ = r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().UTC(), hash)
	return operatorID, nil
}
