package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/modifit/platform/internal/ai"
	"github.com/modifit/platform/internal/events"
	"github.com/modifit/platform/internal/extract"
	"github.com/modifit/platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newGenerator(store *mockStore, completer *mockCompleter, pub *mockPublisher) *RoutineGenerator {
	g := NewRoutineGenerator(discardLogger(), store, completer, pub)
	g.now = func() time.Time { return time.Date(2026, 4, 12, 18, 30, 0, 0, time.UTC) }
	return g
}

// TestGenerate verifies the completion is extracted, stored and announced.
func TestGenerate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	completion := `Aquí tienes: {"exercises":[{"name":"Sentadilla","series":4},{"name":"Zancadas"}]}`

	store, completer, pub := &mockStore{}, &mockCompleter{}, &mockPublisher{}
	completer.On("Complete", ctx, "rutina de piernas para principiantes").Return(completion, nil)
	store.On("CreateGeneratedRoutine", ctx, mock.MatchedBy(func(r *models.GeneratedRoutine) bool {
		return r.UserID == userID && r.Name == "Rutina 2026-04-12 18:30" && r.Prompt == "rutina de piernas para principiantes"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.GeneratedRoutine).ID = 11
	}).Return(nil)
	pub.On("Publish", ctx, events.RoutingKeyRoutineGenerated, mock.MatchedBy(func(e events.RoutineGenerated) bool {
		return e.RoutineID == 11 && e.ExerciseCount == 2 && e.Source == "json_exercises" && e.UserID == userID.String()
	})).Return(nil)

	res, err := newGenerator(store, completer, pub).Generate(ctx, userID, GenerateInput{Prompt: "  rutina de piernas para principiantes "})
	require.NoError(t, err)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "Rutina generada exitosamente", res.Message)
	assert.Equal(t, completion, res.RawResponse)
	assert.Equal(t, extract.SourceJSONExercises, res.Source)
	require.Len(t, res.Exercises, 2)
	assert.JSONEq(t, `[{"name":"Sentadilla","series":4},{"name":"Zancadas"}]`, string(res.Routine.Exercises))
	store.AssertExpectations(t)
	pub.AssertExpectations(t)
}

// TestGenerateCustomName verifies a supplied routine name is kept.
func TestGenerateCustomName(t *testing.T) {
	ctx := context.Background()
	store, completer := &mockStore{}, &mockCompleter{}
	completer.On("Complete", ctx, mock.Anything).Return("1. Flexiones: 3x12", nil)
	store.On("CreateGeneratedRoutine", ctx, mock.MatchedBy(func(r *models.GeneratedRoutine) bool {
		return r.Name == "Pecho en casa"
	})).Return(nil)

	g := NewRoutineGenerator(discardLogger(), store, completer, nil)
	res, err := g.Generate(ctx, uuid.New(), GenerateInput{Prompt: "rutina de pecho sin equipo", RoutineName: "Pecho en casa"})
	require.NoError(t, err)
	assert.Equal(t, extract.SourceText, res.Source)
	store.AssertExpectations(t)
}

// TestGenerateValidation verifies prompt bounds and that the model is never called.
func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name string
		in   GenerateInput
		msg  string
	}{
		{"short", GenerateInput{Prompt: "piernas"}, "El prompt debe tener al menos 10 caracteres"},
		{"short after trim", GenerateInput{Prompt: "   corto    "}, "El prompt debe tener al menos 10 caracteres"},
		{"empty", GenerateInput{}, "Este campo es requerido."},
		{"long", GenerateInput{Prompt: strings.Repeat("a", 2001)}, "Asegúrese de que este campo no tenga más de 2000 caracteres."},
		{"long name", GenerateInput{Prompt: "rutina de espalda", RoutineName: strings.Repeat("n", 256)}, "Asegúrese de que este campo no tenga más de 255 caracteres."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &mockCompleter{}
			_, err := newGenerator(&mockStore{}, completer, &mockPublisher{}).Generate(context.Background(), uuid.New(), tt.in)
			var v *models.ValidationError
			require.True(t, errors.As(err, &v), "got %v", err)
			assert.Equal(t, tt.msg, v.Errors[0].Message)
			completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
		})
	}
}

// TestGenerateExactBounds verifies prompts of exactly 10 and 2000 characters pass.
func TestGenerateExactBounds(t *testing.T) {
	assert.NoError(t, GenerateInput{Prompt: "ñandúes xx"}.Validate())
	assert.NoError(t, GenerateInput{Prompt: strings.Repeat("é", 2000)}.Validate())
}

// TestGenerateCompletionFailure verifies AI errors pass through and nothing is stored.
func TestGenerateCompletionFailure(t *testing.T) {
	ctx := context.Background()
	store, completer, pub := &mockStore{}, &mockCompleter{}, &mockPublisher{}
	upstream := &ai.Error{StatusCode: 503, Message: "Error 503: unavailable"}
	completer.On("Complete", ctx, mock.Anything).Return("", upstream)

	_, err := newGenerator(store, completer, pub).Generate(ctx, uuid.New(), GenerateInput{Prompt: "rutina de cardio suave"})
	var aiErr *ai.Error
	require.True(t, errors.As(err, &aiErr))
	assert.Equal(t, 503, aiErr.StatusCode)
	store.AssertNotCalled(t, "CreateGeneratedRoutine", mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

// TestGeneratePublishFailure verifies a broker failure does not fail the request.
func TestGeneratePublishFailure(t *testing.T) {
	ctx := context.Background()
	store, completer, pub := &mockStore{}, &mockCompleter{}, &mockPublisher{}
	completer.On("Complete", ctx, mock.Anything).Return("solo texto libre", nil)
	store.On("CreateGeneratedRoutine", ctx, mock.Anything).Return(nil)
	pub.On("Publish", ctx, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	res, err := newGenerator(store, completer, pub).Generate(ctx, uuid.New(), GenerateInput{Prompt: "rutina de movilidad"})
	require.NoError(t, err)
	assert.Equal(t, extract.SourceRaw, res.Source)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(res.Routine.Exercises, &items))
	assert.Equal(t, "Rutina personalizada", items[0]["name"])
}

// TestListGeneratedNeverNil verifies an empty history encodes as [].
func TestListGeneratedNeverNil(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	store := &mockStore{}
	store.On("ListGeneratedRoutines", ctx, id).Return(nil, nil)

	list, err := newGenerator(store, &mockCompleter{}, &mockPublisher{}).List(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, list)
}

// TestPreview verifies extraction runs without the model or the store.
func TestPreview(t *testing.T) {
	res := newGenerator(&mockStore{}, &mockCompleter{}, &mockPublisher{}).Preview(`[{"name":"Burpees"}]`)
	assert.Equal(t, extract.SourceJSONObject, res.Source)
}
