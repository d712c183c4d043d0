package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/modifit/platform/internal/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const exerciseColumns = `id, exercise, count_series, count_repeat, muscle_to_trainer, exercise_day_execution`

// CreateExercise inserts an exercise and sets its ID.
func (db *DB) CreateExercise(ctx context.Context, e *models.Exercise) error {
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO exercises (exercise, count_series, count_repeat, muscle_to_trainer, exercise_day_execution)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, e.Exercise, e.CountSeries, e.CountRepeat, e.MuscleToTrainer, e.ExerciseDayExecution).Scan(&e.ID)
	return mapError("inserting exercise", err)
}

// GetExercise returns an exercise by ID.
func (db *DB) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	var e models.Exercise
	err := db.Pool.QueryRow(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, id).
		Scan(&e.ID, &e.Exercise, &e.CountSeries, &e.CountRepeat, &e.MuscleToTrainer, &e.ExerciseDayExecution)
	if err != nil {
		return nil, mapError("querying exercise", err)
	}
	return &e, nil
}

// ListExercises returns catalog entries matching the filter, ordered by ID.
func (db *DB) ListExercises(ctx context.Context, f models.ExerciseFilter) ([]models.Exercise, error) {
	q := psql.Select(exerciseColumns).From("exercises").OrderBy("id")
	if f.Muscle != "" {
		q = q.Where(sq.Eq{"muscle_to_trainer": f.Muscle})
	}
	if f.Day != "" {
		q = q.Where(sq.Eq{"exercise_day_execution": f.Day})
	}
	if f.Search != "" {
		q = q.Where(sq.ILike{"exercise": "%" + f.Search + "%"})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building exercise query: %w", err)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("querying exercises", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Exercise, &e.CountSeries, &e.CountRepeat,
			&e.MuscleToTrainer, &e.ExerciseDayExecution); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// UpdateExercise replaces every field of an existing exercise.
func (db *DB) UpdateExercise(ctx context.Context, e *models.Exercise) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE exercises
		SET exercise = $2, count_series = $3, count_repeat = $4,
		    muscle_to_trainer = $5, exercise_day_execution = $6
		WHERE id = $1
	`, e.ID, e.Exercise, e.CountSeries, e.CountRepeat, e.MuscleToTrainer, e.ExerciseDayExecution)
	if err != nil {
		return mapError("updating exercise", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating exercise: %w", models.ErrNotFound)
	}
	return nil
}

// DeleteExercise removes an exercise. Routines referencing it are removed by cascade.
func (db *DB) DeleteExercise(ctx context.Context, id int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	if err != nil {
		return mapError("deleting exercise", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting exercise: %w", models.ErrNotFound)
	}
	return nil
}
