package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// refreshTokenRepository handles refresh token database operations for
// the admin bearer-token API's rotation flow.
type refreshTokenRepository struct {
	db *sqlx.DB
}

// NewRefreshTokenRepository creates a new refresh token repository.
func NewRefreshTokenRepository(db *sqlx.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(userID, tokenID, token string, expiresAt time.Time) error {
	id := uuid.New().String()
	query := r.db.Rebind(`
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)

	_, err := r.db.Exec(query, id, userID, hashToken(token), expiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) ValidateAndGet(token string) (*RefreshToken, error) {
	query := r.db.Rebind(`
		SELECT id, user_id, token_hash, expires_at, revoked, created_at
		FROM refresh_tokens
		WHERE token_hash = ? AND expires_at > CURRENT_TIMESTAMP AND revoked = false
	`)

	var rt RefreshToken
	err := r.db.Get(&rt, query, hashToken(token))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("invalid or expired refresh token")
		}
		return nil, fmt.Errorf("failed to validate refresh token: %w", err)
	}
	return &rt, nil
}

func (r *refreshTokenRepository) Revoke(tokenID string) error {
	query := r.db.Rebind(`UPDATE refresh_tokens SET revoked = true WHERE id = ? AND revoked = false`)

	result, err := r.db.Exec(query, tokenID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("refresh token not found or already revoked")
	}
	return nil
}

func (r *refreshTokenRepository) RevokeAllForUser(userID string) error {
	query := r.db.Rebind(`UPDATE refresh_tokens SET revoked = true WHERE user_id = ? AND revoked = false`)
	_, err := r.db.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke user's refresh tokens: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) CleanupExpired() error {
	query := `DELETE FROM refresh_tokens WHERE expires_at < CURRENT_TIMESTAMP OR revoked = true`
	if r.db.DriverName() == "postgres" {
		query = `DELETE FROM refresh_tokens WHERE expires_at < CURRENT_TIMESTAMP OR (revoked = true AND created_at < CURRENT_TIMESTAMP - INTERVAL '30 days')`
	}

	_, err := r.db.Exec(r.db.Rebind(query))
	if err != nil {
		return fmt.Errorf("failed to cleanup expired tokens: %w", err)
	}
	return nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
