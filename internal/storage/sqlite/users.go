package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/modifit/platform/internal/models"
)

const userColumns = `id, username, email, first_name, last_name, password_hash, is_active, date_joined`

// CreateUser inserts a user, assigning an ID and DateJoined.
func (d *DB) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	joined := d.timestamp()
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, first_name, last_name, password_hash, is_active, date_joined)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.IsActive, joined)
	if err != nil {
		return mapError("inserting user", err)
	}
	u.DateJoined, err = parseTime(joined)
	return err
}

// GetUserByID returns a user by ID.
func (d *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return d.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetUserByUsername returns a user by username.
func (d *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return d.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (d *DB) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	var joined string
	err := d.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.FirstName,
		&u.LastName, &u.PasswordHash, &u.IsActive, &joined)
	if err != nil {
		return nil, mapError("querying user", err)
	}
	if u.DateJoined, err = parseTime(joined); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateRefreshToken stores a refresh token hash.
func (d *DB) CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	created := d.timestamp()
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, t.ID, t.UserID, t.TokenHash, formatTime(t.ExpiresAt), created)
	if err != nil {
		return mapError("inserting refresh token", err)
	}
	t.CreatedAt, err = parseTime(created)
	return err
}

// GetRefreshTokenByHash returns the token with the given hash, revoked or not.
func (d *DB) GetRefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	var expires, created string
	var revoked sql.NullString
	err := d.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, created_at, revoked_at
		FROM refresh_tokens WHERE token_hash = ?
	`, hash).Scan(&t.ID, &t.UserID, &t.TokenHash, &expires, &created, &revoked)
	if err != nil {
		return nil, mapError("querying refresh token", err)
	}
	if t.ExpiresAt, err = parseTime(expires); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if revoked.Valid {
		var at time.Time
		if at, err = parseTime(revoked.String); err != nil {
			return nil, err
		}
		t.RevokedAt = &at
	}
	return &t, nil
}

// RevokeRefreshToken marks an active token revoked, ErrNotFound otherwise.
func (d *DB) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`, d.timestamp(), id)
	if err != nil {
		return mapError("revoking refresh token", err)
	}
	return affected("revoking refresh token", res)
}

// RevokeUserRefreshTokens revokes every active token of a user.
func (d *DB) RevokeUserRefreshTokens(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := d.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`, d.timestamp(), userID)
	if err != nil {
		return 0, mapError("revoking user refresh tokens", err)
	}
	return res.RowsAffected()
}
