package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modifit/platform/internal/models"
)

const routineSelect = `
	SELECT r.id, r.name_rutine, r.user_id, r.exercise_id,
	       e.id, e.exercise, e.count_series, e.count_repeat, e.muscle_to_trainer, e.exercise_day_execution
	FROM routines r
	JOIN exercises e ON e.id = r.exercise_id`

// CreateRoutine inserts a manual routine. A missing exercise yields ErrNotFound.
func (db *DB) CreateRoutine(ctx context.Context, r *models.Routine) error {
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO routines (name_rutine, user_id, exercise_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, r.NameRutine, r.UserID, r.ExerciseID).Scan(&r.ID)
	return mapError("inserting routine", err)
}

// ListRoutines returns the user's routines with their exercise, oldest first.
func (db *DB) ListRoutines(ctx context.Context, userID uuid.UUID) ([]models.Routine, error) {
	rows, err := db.Pool.Query(ctx, routineSelect+` WHERE r.user_id = $1 ORDER BY r.id`, userID)
	if err != nil {
		return nil, mapError("querying routines", err)
	}
	defer rows.Close()

	var result []models.Routine
	for rows.Next() {
		r, err := scanRoutine(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning routine: %w", err)
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

// GetRoutine returns one routine owned by userID.
func (db *DB) GetRoutine(ctx context.Context, id int64, userID uuid.UUID) (*models.Routine, error) {
	row := db.Pool.QueryRow(ctx, routineSelect+` WHERE r.id = $1 AND r.user_id = $2`, id, userID)
	r, err := scanRoutine(row)
	if err != nil {
		return nil, mapError("querying routine", err)
	}
	return r, nil
}

// DeleteRoutine removes one routine owned by userID.
func (db *DB) DeleteRoutine(ctx context.Context, id int64, userID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM routines WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapError("deleting routine", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting routine: %w", models.ErrNotFound)
	}
	return nil
}

func scanRoutine(row scanner) (*models.Routine, error) {
	var r models.Routine
	var e models.Exercise
	if err := row.Scan(&r.ID, &r.NameRutine, &r.UserID, &r.ExerciseID,
		&e.ID, &e.Exercise, &e.CountSeries, &e.CountRepeat, &e.MuscleToTrainer, &e.ExerciseDayExecution); err != nil {
		return nil, err
	}
	r.ExerciseDetail = &e
	return &r, nil
}
