// Package service holds the application logic behind the HTTP and MCP
// transports: accounts and tokens, the exercise catalog, manual routines and
// AI-generated routines.
package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/modifit/platform/internal/models"
)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// TokenStore persists refresh token hashes.
type TokenStore interface {
	CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id uuid.UUID) error
	RevokeUserRefreshTokens(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ExerciseStore persists the shared exercise catalog.
type ExerciseStore interface {
	CreateExercise(ctx context.Context, e *models.Exercise) error
	GetExercise(ctx context.Context, id int64) (*models.Exercise, error)
	ListExercises(ctx context.Context, f models.ExerciseFilter) ([]models.Exercise, error)
	UpdateExercise(ctx context.Context, e *models.Exercise) error
	DeleteExercise(ctx context.Context, id int64) error
}

// RoutineStore persists manual routines. Reads and deletes are scoped to the owner.
type RoutineStore interface {
	CreateRoutine(ctx context.Context, r *models.Routine) error
	ListRoutines(ctx context.Context, userID uuid.UUID) ([]models.Routine, error)
	GetRoutine(ctx context.Context, id int64, userID uuid.UUID) (*models.Routine, error)
	DeleteRoutine(ctx context.Context, id int64, userID uuid.UUID) error
}

// GeneratedRoutineStore persists AI-generated routines. Reads and deletes are
// scoped to the owner; another user's routine is ErrNotFound.
type GeneratedRoutineStore interface {
	CreateGeneratedRoutine(ctx context.Context, r *models.GeneratedRoutine) error
	ListGeneratedRoutines(ctx context.Context, userID uuid.UUID) ([]models.GeneratedRoutine, error)
	GetGeneratedRoutine(ctx context.Context, id int64, userID uuid.UUID) (*models.GeneratedRoutine, error)
	DeleteGeneratedRoutine(ctx context.Context, id int64, userID uuid.UUID) error
}

// Store is implemented by both the PostgreSQL and the SQLite backends.
type Store interface {
	UserStore
	TokenStore
	ExerciseStore
	RoutineStore
	GeneratedRoutineStore
	Ping(ctx context.Context) error
}

// Completer turns a prompt into model output text. Failures are *ai.Error.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
