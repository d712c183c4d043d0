//go:build integration

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	modifit "github.com/modifit/platform"
	"github.com/modifit/platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	containerOnce sync.Once
	container     testcontainers.Container
	containerDSN  string
	containerErr  error
)

func TestMain(m *testing.M) {
	code := m.Run()
	if container != nil {
		if err := testcontainers.TerminateContainer(container); err != nil {
			fmt.Fprintf(os.Stderr, "terminating postgres container: %v\n", err)
		}
	}
	os.Exit(code)
}

// setupDB starts one PostgreSQL container per test run, applies the embedded
// migrations and returns a connected DB.
func setupDB(t *testing.T) *DB {
	t.Helper()

	containerOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		ctr, err := postgres.Run(ctx, "postgres:17-alpine",
			postgres.WithDatabase("modifit"),
			postgres.WithUsername("modifit"),
			postgres.WithPassword("modifit"),
			postgres.BasicWaitStrategies(),
		)
		if err != nil {
			containerErr = err
			return
		}
		container = ctr
		containerDSN, containerErr = ctr.ConnectionString(ctx, "sslmode=disable")
		if containerErr != nil {
			return
		}
		containerErr = RunMigrations(containerDSN, modifit.MigrationsFS)
	})
	if containerErr != nil {
		t.Fatalf("setting up postgres: %v", containerErr)
	}

	db, err := New(context.Background(), containerDSN)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func createUser(t *testing.T, db *DB) *models.User {
	t.Helper()
	u := &models.User{Username: "user-" + uuid.NewString()[:8], PasswordHash: "x", IsActive: true}
	require.NoError(t, db.CreateUser(context.Background(), u))
	return u
}

// TestIntegrationGeneratedRoutines stores routines for two users and checks
// ownership scoping and newest-first ordering.
func TestIntegrationGeneratedRoutines(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	owner := createUser(t, db)
	other := createUser(t, db)

	first := &models.GeneratedRoutine{UserID: owner.ID, Name: "A", Prompt: "rutina de pierna", Exercises: json.RawMessage(`[{"name":"Squat","series":4}]`)}
	require.NoError(t, db.CreateGeneratedRoutine(ctx, first))
	second := &models.GeneratedRoutine{UserID: owner.ID, Name: "B", Prompt: "rutina de brazo", Exercises: json.RawMessage(`[{"note":"rest day"}]`)}
	require.NoError(t, db.CreateGeneratedRoutine(ctx, second))

	list, err := db.ListGeneratedRoutines(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.JSONEq(t, `[{"note":"rest day"}]`, string(list[0].Exercises))

	_, err = db.GetGeneratedRoutine(ctx, first.ID, other.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	got, err := db.GetGeneratedRoutine(ctx, first.ID, owner.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Squat","series":4}]`, string(got.Exercises))

	require.NoError(t, db.DeleteGeneratedRoutine(ctx, first.ID, owner.ID))
	assert.True(t, errors.Is(db.DeleteGeneratedRoutine(ctx, first.ID, owner.ID), models.ErrNotFound))
}

// TestIntegrationRoutinesAndExercises covers the catalog filter and the
// routine join, including the cascade when an exercise is deleted.
func TestIntegrationRoutinesAndExercises(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	owner := createUser(t, db)

	ex := &models.Exercise{Exercise: "Prensa " + uuid.NewString()[:6], CountSeries: 4, CountRepeat: 12, MuscleToTrainer: "piernas-it"}
	require.NoError(t, db.CreateExercise(ctx, ex))

	found, err := db.ListExercises(ctx, models.ExerciseFilter{Muscle: "piernas-it", Search: "prensa"})
	require.NoError(t, err)
	require.NotEmpty(t, found)

	r := &models.Routine{NameRutine: "Pierna", UserID: owner.ID, ExerciseID: ex.ID}
	require.NoError(t, db.CreateRoutine(ctx, r))

	got, err := db.GetRoutine(ctx, r.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, ex.Exercise, got.ExerciseDetail.Exercise)

	err = db.CreateRoutine(ctx, &models.Routine{NameRutine: "X", UserID: owner.ID, ExerciseID: -1})
	assert.True(t, errors.Is(err, models.ErrNotFound))

	require.NoError(t, db.DeleteExercise(ctx, ex.ID))
	list, err := db.ListRoutines(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// TestIntegrationRefreshTokens checks single-use revocation.
func TestIntegrationRefreshTokens(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	owner := createUser(t, db)

	tok := &models.RefreshToken{UserID: owner.ID, TokenHash: uuid.NewString() + uuid.NewString()[:28], ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, db.CreateRefreshToken(ctx, tok))

	got, err := db.GetRefreshTokenByHash(ctx, tok.TokenHash)
	require.NoError(t, err)
	assert.True(t, got.Usable(time.Now()))

	require.NoError(t, db.RevokeRefreshToken(ctx, tok.ID))
	assert.True(t, errors.Is(db.RevokeRefreshToken(ctx, tok.ID), models.ErrNotFound))
}
