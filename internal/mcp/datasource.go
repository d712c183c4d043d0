package mcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/modifit/platform/internal/models"
	"github.com/modifit/platform/internal/service"
)

// DataSource abstracts the application layer for MCP tools. Both Local
// (in-process services) and HTTPClient (remote via REST API) satisfy it.
// userID is ignored by HTTPClient, whose bearer token identifies the user.
type DataSource interface {
	ListExercises(ctx context.Context, f models.ExerciseFilter) ([]models.Exercise, error)
	ListRoutines(ctx context.Context, userID uuid.UUID) ([]models.Routine, error)
	ListGeneratedRoutines(ctx context.Context, userID uuid.UUID) ([]models.GeneratedRoutine, error)
	GetGeneratedRoutine(ctx context.Context, id int64, userID uuid.UUID) (*models.GeneratedRoutine, error)
	GenerateRoutine(ctx context.Context, userID uuid.UUID, in service.GenerateInput) (*service.GenerateResult, error)
}

// Local serves MCP tools from in-process services.
type Local struct {
	Fitness  *service.FitnessService
	Routines *service.RoutineGenerator
}

var _ DataSource = (*Local)(nil)

func (l *Local) ListExercises(ctx context.Context, f models.ExerciseFilter) ([]models.Exercise, error) {
	return l.Fitness.ListExercises(ctx, f)
}

func (l *Local) ListRoutines(ctx context.Context, userID uuid.UUID) ([]models.Routine, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthorized
	}
	return l.Fitness.ListRoutines(ctx, userID)
}

func (l *Local) ListGeneratedRoutines(ctx context.Context, userID uuid.UUID) ([]models.GeneratedRoutine, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthorized
	}
	return l.Routines.List(ctx, userID)
}

func (l *Local) GetGeneratedRoutine(ctx context.Context, id int64, userID uuid.UUID) (*models.GeneratedRoutine, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthorized
	}
	return l.Routines.Get(ctx, id, userID)
}

func (l *Local) GenerateRoutine(ctx context.Context, userID uuid.UUID, in service.GenerateInput) (*service.GenerateResult, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthorized
	}
	return l.Routines.Generate(ctx, userID, in)
}
