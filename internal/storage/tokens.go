package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modifit/platform/internal/models"
)

// CreateRefreshToken stores a refresh token hash.
func (db *DB) CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, t.ID, t.UserID, t.TokenHash, t.ExpiresAt).Scan(&t.CreatedAt)
	return mapError("inserting refresh token", err)
}

// GetRefreshTokenByHash returns the token with the given hash, revoked or not.
func (db *DB) GetRefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	err := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, token_hash, expires_at, created_at, revoked_at
		FROM refresh_tokens WHERE token_hash = $1
	`, hash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt, &t.RevokedAt)
	if err != nil {
		return nil, mapError("querying refresh token", err)
	}
	return &t, nil
}

// RevokeRefreshToken marks a token revoked. It returns ErrNotFound when the
// token does not exist or was already revoked, so only one of two concurrent
// rotations can succeed.
func (db *DB) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL`, id)
	if err != nil {
		return mapError("revoking refresh token", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("revoking refresh token: %w", models.ErrNotFound)
	}
	return nil
}

// RevokeUserRefreshTokens revokes every active token of a user.
func (db *DB) RevokeUserRefreshTokens(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`, userID)
	if err != nil {
		return 0, mapError("revoking user refresh tokens", err)
	}
	return tag.RowsAffected(), nil
}
