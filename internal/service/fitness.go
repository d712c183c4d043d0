package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/modifit/platform/internal/models"
)

const maxNameLen = 255

// MaxListLimit caps ExerciseFilter.Limit.
const MaxListLimit = 200

func tooLong(n int) string {
	return fmt.Sprintf("Asegúrese de que este campo no tenga más de %d caracteres.", n)
}

// checkName validates a required, length-limited text field.
func checkName(v *models.ValidationError, field, value string) {
	switch {
	case strings.TrimSpace(value) == "":
		v.Add(field, msgRequired)
	case utf8.RuneCountInString(value) > maxNameLen:
		v.Add(field, tooLong(maxNameLen))
	}
}

// ExerciseInput is the writable part of an exercise. Series and reps are
// pointers so a missing value can be told apart from zero.
type ExerciseInput struct {
	Exercise             string `json:"exercise"`
	CountSeries          *int   `json:"count_series"`
	CountRepeat          *int   `json:"count_repeat"`
	MuscleToTrainer      string `json:"muscle_to_trainer"`
	ExerciseDayExecution string `json:"exercise_day_execution"`
}

func (i ExerciseInput) Validate() error {
	v := &models.ValidationError{}
	checkName(v, "exercise", i.Exercise)
	if i.CountSeries == nil {
		v.Add("count_series", msgRequired)
	}
	if i.CountRepeat == nil {
		v.Add("count_repeat", msgRequired)
	}
	checkName(v, "muscle_to_trainer", i.MuscleToTrainer)
	if utf8.RuneCountInString(i.ExerciseDayExecution) > maxNameLen {
		v.Add("exercise_day_execution", tooLong(maxNameLen))
	}
	return v.OrNil()
}

func (i ExerciseInput) apply(e *models.Exercise) {
	e.Exercise = strings.TrimSpace(i.Exercise)
	e.CountSeries = *i.CountSeries
	e.CountRepeat = *i.CountRepeat
	e.MuscleToTrainer = strings.TrimSpace(i.MuscleToTrainer)
	e.ExerciseDayExecution = strings.TrimSpace(i.ExerciseDayExecution)
}

type RoutineInput struct {
	NameRutine string `json:"name_rutine"`
	ExerciseID int64  `json:"exercise"`
}

func (i RoutineInput) Validate() error {
	v := &models.ValidationError{}
	checkName(v, "name_rutine", i.NameRutine)
	if i.ExerciseID == 0 {
		v.Add("exercise", msgRequired)
	}
	return v.OrNil()
}

// HomeUser is the short user view on the home screen.
type HomeUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type HomeResult struct {
	Message string   `json:"message"`
	User    HomeUser `json:"user"`
}

type fitnessStore interface {
	UserStore
	ExerciseStore
	RoutineStore
}

// FitnessService manages the exercise catalog and manual routines.
type FitnessService struct {
	log   *slog.Logger
	store fitnessStore
}

func NewFitnessService(log *slog.Logger, store fitnessStore) *FitnessService {
	return &FitnessService{log: log.With("service", "fitness"), store: store}
}

// Home greets the user.
func (s *FitnessService) Home(ctx context.Context, userID uuid.UUID) (*HomeResult, error) {
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &HomeResult{
		Message: fmt.Sprintf("Bienvenido a Modifit, %s!", u.Username),
		User:    HomeUser{ID: u.ID, Username: u.Username, Email: u.Email},
	}, nil
}

// ListExercises returns catalog entries matching f. The result is never nil.
func (s *FitnessService) ListExercises(ctx context.Context, f models.ExerciseFilter) ([]models.Exercise, error) {
	v := &models.ValidationError{}
	if f.Limit < 0 || f.Limit > MaxListLimit {
		v.Add("limit", fmt.Sprintf("Debe estar entre 0 y %d.", MaxListLimit))
	}
	if f.Offset < 0 {
		v.Add("offset", "Debe ser mayor o igual a 0.")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	list, err := s.store.ListExercises(ctx, f)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Exercise{}
	}
	return list, nil
}

func (s *FitnessService) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	return s.store.GetExercise(ctx, id)
}

func (s *FitnessService) CreateExercise(ctx context.Context, in ExerciseInput) (*models.Exercise, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	e := &models.Exercise{}
	in.apply(e)
	if err := s.store.CreateExercise(ctx, e); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "exercise created", "exercise_id", e.ID, "name", e.Exercise)
	return e, nil
}

func (s *FitnessService) UpdateExercise(ctx context.Context, id int64, in ExerciseInput) (*models.Exercise, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	e := &models.Exercise{ID: id}
	in.apply(e)
	if err := s.store.UpdateExercise(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteExercise removes an exercise together with the routines that use it.
func (s *FitnessService) DeleteExercise(ctx context.Context, id int64) error {
	return s.store.DeleteExercise(ctx, id)
}

// ListRoutines returns the user's manual routines. The result is never nil.
func (s *FitnessService) ListRoutines(ctx context.Context, userID uuid.UUID) ([]models.Routine, error) {
	list, err := s.store.ListRoutines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Routine{}
	}
	return list, nil
}

func (s *FitnessService) GetRoutine(ctx context.Context, id int64, userID uuid.UUID) (*models.Routine, error) {
	return s.store.GetRoutine(ctx, id, userID)
}

// CreateRoutine links the user to an existing exercise under a routine name.
func (s *FitnessService) CreateRoutine(ctx context.Context, userID uuid.UUID, in RoutineInput) (*models.Routine, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	e, err := s.store.GetExercise(ctx, in.ExerciseID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewValidationError("exercise",
			fmt.Sprintf("Clave primaria %q inválida - objeto no existe.", fmt.Sprint(in.ExerciseID)))
	}
	if err != nil {
		return nil, err
	}

	r := &models.Routine{
		NameRutine: strings.TrimSpace(in.NameRutine),
		UserID:     userID,
		ExerciseID: e.ID,
	}
	if err := s.store.CreateRoutine(ctx, r); err != nil {
		return nil, err
	}
	r.ExerciseDetail = e
	return r, nil
}

func (s *FitnessService) DeleteRoutine(ctx context.Context, id int64, userID uuid.UUID) error {
	return s.store.DeleteRoutine(ctx, id, userID)
}
