package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/modifit/platform/internal/models"
)

const userColumns = `id, username, email, first_name, last_name, password_hash, is_active, date_joined`

// CreateUser inserts a user, assigning an ID when unset. DateJoined is filled
// from the database.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (id, username, email, first_name, last_name, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING date_joined
	`, u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.IsActive).Scan(&u.DateJoined)
	return mapError("inserting user", err)
}

// GetUserByID returns a user by ID.
func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapError("querying user", err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapError("querying user", err)
	}
	return u, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.IsActive, &u.DateJoined); err != nil {
		return nil, err
	}
	return &u, nil
}
