package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/modifit/platform/internal/models"
	"github.com/stretchr/testify/mock"
)

var _ Store = (*mockStore)(nil)

type mockStore struct {
	mock.Mock
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ptrOrNil returns the first return value as *T, or nil when unset.
func ptrOrNil[T any](args mock.Arguments) *T {
	if v := args.Get(0); v != nil {
		return v.(*T)
	}
	return nil
}

func (m *mockStore) CreateUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	return ptrOrNil[models.User](args), args.Error(1)
}

func (m *mockStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	return ptrOrNil[models.User](args), args.Error(1)
}

func (m *mockStore) CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockStore) GetRefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	args := m.Called(ctx, hash)
	return ptrOrNil[models.RefreshToken](args), args.Error(1)
}

func (m *mockStore) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) RevokeUserRefreshTokens(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) CreateExercise(ctx context.Context, e *models.Exercise) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockStore) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	args := m.Called(ctx, id)
	return ptrOrNil[models.Exercise](args), args.Error(1)
}

func (m *mockStore) ListExercises(ctx context.Context, f models.ExerciseFilter) ([]models.Exercise, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]models.Exercise)
	return list, args.Error(1)
}

func (m *mockStore) UpdateExercise(ctx context.Context, e *models.Exercise) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockStore) DeleteExercise(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) CreateRoutine(ctx context.Context, r *models.Routine) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockStore) ListRoutines(ctx context.Context, userID uuid.UUID) ([]models.Routine, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]models.Routine)
	return list, args.Error(1)
}

func (m *mockStore) GetRoutine(ctx context.Context, id int64, userID uuid.UUID) (*models.Routine, error) {
	args := m.Called(ctx, id, userID)
	return ptrOrNil[models.Routine](args), args.Error(1)
}

func (m *mockStore) DeleteRoutine(ctx context.Context, id int64, userID uuid.UUID) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockStore) CreateGeneratedRoutine(ctx context.Context, r *models.GeneratedRoutine) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockStore) ListGeneratedRoutines(ctx context.Context, userID uuid.UUID) ([]models.GeneratedRoutine, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]models.GeneratedRoutine)
	return list, args.Error(1)
}

func (m *mockStore) GetGeneratedRoutine(ctx context.Context, id int64, userID uuid.UUID) (*models.GeneratedRoutine, error) {
	args := m.Called(ctx, id, userID)
	return ptrOrNil[models.GeneratedRoutine](args), args.Error(1)
}

func (m *mockStore) DeleteGeneratedRoutine(ctx context.Context, id int64, userID uuid.UUID) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	return m.Called(ctx, routingKey, payload).Error(0)
}
