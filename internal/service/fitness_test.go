package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/modifit/platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

// TestHome verifies the greeting includes the username.
func TestHome(t *testing.T) {
	ctx := context.Background()
	u := &models.User{ID: uuid.New(), Username: "ana", Email: "ana@example.com"}
	store := &mockStore{}
	store.On("GetUserByID", ctx, u.ID).Return(u, nil)

	res, err := NewFitnessService(discardLogger(), store).Home(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bienvenido a Modifit, ana!", res.Message)
	assert.Equal(t, HomeUser{ID: u.ID, Username: "ana", Email: "ana@example.com"}, res.User)
}

// TestCreateExerciseValidation verifies required fields and length limits.
func TestCreateExerciseValidation(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name   string
		in     ExerciseInput
		fields []string
	}{
		{"empty", ExerciseInput{}, []string{"exercise", "count_series", "count_repeat", "muscle_to_trainer"}},
		{"long name", ExerciseInput{Exercise: string(long), CountSeries: intp(3), CountRepeat: intp(10), MuscleToTrainer: "Pecho"}, []string{"exercise"}},
		{"long day", ExerciseInput{Exercise: "Press", CountSeries: intp(3), CountRepeat: intp(10), MuscleToTrainer: "Pecho", ExerciseDayExecution: string(long)}, []string{"exercise_day_execution"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFitnessService(discardLogger(), &mockStore{}).CreateExercise(context.Background(), tt.in)
			var v *models.ValidationError
			require.True(t, errors.As(err, &v), "got %v", err)
			var got []string
			for _, fe := range v.Errors {
				got = append(got, fe.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

// TestCreateExercise verifies zero series and reps are accepted and names are trimmed.
func TestCreateExercise(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	store.On("CreateExercise", ctx, mock.MatchedBy(func(e *models.Exercise) bool {
		return e.Exercise == "Plancha" && e.CountSeries == 0 && e.MuscleToTrainer == "Core"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Exercise).ID = 4
	}).Return(nil)

	e, err := NewFitnessService(discardLogger(), store).CreateExercise(ctx, ExerciseInput{
		Exercise: " Plancha ", CountSeries: intp(0), CountRepeat: intp(0), MuscleToTrainer: "Core",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), e.ID)
	store.AssertExpectations(t)
}

// TestListExercisesNeverNil verifies an empty catalog encodes as [] rather than null.
func TestListExercisesNeverNil(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	store.On("ListExercises", ctx, models.ExerciseFilter{Muscle: "Pecho"}).Return(nil, nil)

	list, err := NewFitnessService(discardLogger(), store).ListExercises(ctx, models.ExerciseFilter{Muscle: "Pecho"})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

// TestListExercisesBadPaging verifies out-of-range paging is rejected.
func TestListExercisesBadPaging(t *testing.T) {
	svc := NewFitnessService(discardLogger(), &mockStore{})
	_, err := svc.ListExercises(context.Background(), models.ExerciseFilter{Limit: MaxListLimit + 1, Offset: -1})
	var v *models.ValidationError
	require.True(t, errors.As(err, &v))
	assert.Len(t, v.Errors, 2)
}

// TestCreateRoutineUnknownExercise verifies a missing exercise is a field error.
func TestCreateRoutineUnknownExercise(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	store.On("GetExercise", ctx, int64(99)).Return(nil, models.ErrNotFound)

	_, err := NewFitnessService(discardLogger(), store).CreateRoutine(ctx, uuid.New(), RoutineInput{NameRutine: "Lunes", ExerciseID: 99})
	var v *models.ValidationError
	require.True(t, errors.As(err, &v), "got %v", err)
	assert.Equal(t, "exercise", v.Errors[0].Field)
	assert.Equal(t, `Clave primaria "99" inválida - objeto no existe.`, v.Errors[0].Message)
	store.AssertNotCalled(t, "CreateRoutine", mock.Anything, mock.Anything)
}

// TestCreateRoutine verifies the routine is owned by the caller and carries its exercise.
func TestCreateRoutine(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	e := &models.Exercise{ID: 3, Exercise: "Remo"}
	store := &mockStore{}
	store.On("GetExercise", ctx, int64(3)).Return(e, nil)
	store.On("CreateRoutine", ctx, mock.MatchedBy(func(r *models.Routine) bool {
		return r.UserID == userID && r.ExerciseID == 3 && r.NameRutine == "Espalda"
	})).Return(nil)

	r, err := NewFitnessService(discardLogger(), store).CreateRoutine(ctx, userID, RoutineInput{NameRutine: "Espalda", ExerciseID: 3})
	require.NoError(t, err)
	assert.Equal(t, e, r.ExerciseDetail)
	store.AssertExpectations(t)
}

// TestRoutineInputValidation verifies name and exercise are required.
func TestRoutineInputValidation(t *testing.T) {
	err := RoutineInput{}.Validate()
	var v *models.ValidationError
	require.True(t, errors.As(err, &v))
	assert.Len(t, v.Errors, 2)
}
