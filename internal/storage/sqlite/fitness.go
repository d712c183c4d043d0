package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/modifit/platform/internal/models"
)

const exerciseColumns = `id, exercise, count_series, count_repeat, muscle_to_trainer, exercise_day_execution`

// CreateExercise inserts an exercise and sets its ID.
func (d *DB) CreateExercise(ctx context.Context, e *models.Exercise) error {
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO exercises (exercise, count_series, count_repeat, muscle_to_trainer, exercise_day_execution)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, e.Exercise, e.CountSeries, e.CountRepeat, e.MuscleToTrainer, e.ExerciseDayExecution).Scan(&e.ID)
	return mapError("inserting exercise", err)
}

// GetExercise returns an exercise by ID.
func (d *DB) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	var e models.Exercise
	err := d.db.QueryRowContext(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id).
		Scan(&e.ID, &e.Exercise, &e.CountSeries, &e.CountRepeat, &e.MuscleToTrainer, &e.ExerciseDayExecution)
	if err != nil {
		return nil, mapError("querying exercise", err)
	}
	return &e, nil
}

// ListExercises returns catalog entries matching the filter, ordered by ID.
// SQLite LIKE is case-insensitive for ASCII.
func (d *DB) ListExercises(ctx context.Context, f models.ExerciseFilter) ([]models.Exercise, error) {
	q := sq.Select(exerciseColumns).From("exercises").OrderBy("id")
	if f.Muscle != "" {
		q = q.Where(sq.Eq{"muscle_to_trainer": f.Muscle})
	}
	if f.Day != "" {
		q = q.Where(sq.Eq{"exercise_day_execution": f.Day})
	}
	if f.Search != "" {
		q = q.Where(sq.Like{"exercise": "%" + f.Search + "%"})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		if f.Limit <= 0 {
			q = q.Limit(uint64(1<<63 - 1)) // OFFSET requires LIMIT in SQLite
		}
		q = q.Offset(uint64(f.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building exercise query: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
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
func (d *DB) UpdateExercise(ctx context.Context, e *models.Exercise) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE exercises
		SET exercise = ?, count_series = ?, count_repeat = ?, muscle_to_trainer = ?, exercise_day_execution = ?
		WHERE id = ?
	`, e.Exercise, e.CountSeries, e.CountRepeat, e.MuscleToTrainer, e.ExerciseDayExecution, e.ID)
	if err != nil {
		return mapError("updating exercise", err)
	}
	return affected("updating exercise", res)
}

// DeleteExercise removes an exercise and, by cascade, routines using it.
func (d *DB) DeleteExercise(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM exercises WHERE id = ?`, id)
	if err != nil {
		return mapError("deleting exercise", err)
	}
	return affected("deleting exercise", res)
}

const routineSelect = `
	SELECT r.id, r.name_rutine, r.user_id, r.exercise_id,
	       e.id, e.exercise, e.count_series, e.count_repeat, e.muscle_to_trainer, e.exercise_day_execution
	FROM routines r
	JOIN exercises e ON e.id = r.exercise_id`

type scanner interface {
	Scan(dest ...any) error
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

// CreateRoutine inserts a manual routine. A missing exercise yields ErrNotFound.
func (d *DB) CreateRoutine(ctx context.Context, r *models.Routine) error {
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO routines (name_rutine, user_id, exercise_id) VALUES (?, ?, ?) RETURNING id
	`, r.NameRutine, r.UserID, r.ExerciseID).Scan(&r.ID)
	return mapError("inserting routine", err)
}

// ListRoutines returns the user's routines with their exercise, oldest first.
func (d *DB) ListRoutines(ctx context.Context, userID uuid.UUID) ([]models.Routine, error) {
	rows, err := d.db.QueryContext(ctx, routineSelect+` WHERE r.user_id = ? ORDER BY r.id`, userID)
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
func (d *DB) GetRoutine(ctx context.Context, id int64, userID uuid.UUID) (*models.Routine, error) {
	r, err := scanRoutine(d.db.QueryRowContext(ctx, routineSelect+` WHERE r.id = ? AND r.user_id = ?`, id, userID))
	if err != nil {
		return nil, mapError("querying routine", err)
	}
	return r, nil
}

// DeleteRoutine removes one routine owned by userID.
func (d *DB) DeleteRoutine(ctx context.Context, id int64, userID uuid.UUID) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM routines WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return mapError("deleting routine", err)
	}
	return affected("deleting routine", res)
}

const generatedColumns = `id, user_id, name, prompt, exercises, generated_at, updated_at`

// CreateGeneratedRoutine stores an AI-generated routine and fills ID and timestamps.
func (d *DB) CreateGeneratedRoutine(ctx context.Context, r *models.GeneratedRoutine) error {
	now := d.timestamp()
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO ai_generated_routines (user_id, name, prompt, exercises, generated_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`, r.UserID, r.Name, r.Prompt, string(r.Exercises), now, now).Scan(&r.ID)
	if err != nil {
		return mapError("inserting generated routine", err)
	}
	if r.GeneratedAt, err = parseTime(now); err != nil {
		return err
	}
	r.UpdatedAt = r.GeneratedAt
	return nil
}

// ListGeneratedRoutines returns the user's generated routines, newest first.
func (d *DB) ListGeneratedRoutines(ctx context.Context, userID uuid.UUID) ([]models.GeneratedRoutine, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+generatedColumns+`
		FROM ai_generated_routines
		WHERE user_id = ?
		ORDER BY generated_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, mapError("querying generated routines", err)
	}
	defer rows.Close()

	var result []models.GeneratedRoutine
	for rows.Next() {
		r, err := scanGenerated(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning generated routine: %w", err)
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

// GetGeneratedRoutine returns one generated routine owned by userID.
func (d *DB) GetGeneratedRoutine(ctx context.Context, id int64, userID uuid.UUID) (*models.GeneratedRoutine, error) {
	r, err := scanGenerated(d.db.QueryRowContext(ctx, `
		SELECT `+generatedColumns+`
		FROM ai_generated_routines
		WHERE id = ? AND user_id = ?
	`, id, userID))
	if err != nil {
		return nil, mapError("querying generated routine", err)
	}
	return r, nil
}

// DeleteGeneratedRoutine removes one generated routine owned by userID.
func (d *DB) DeleteGeneratedRoutine(ctx context.Context, id int64, userID uuid.UUID) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM ai_generated_routines WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return mapError("deleting generated routine", err)
	}
	return affected("deleting generated routine", res)
}

func scanGenerated(row scanner) (*models.GeneratedRoutine, error) {
	var r models.GeneratedRoutine
	var exercises, generated, updated string
	if err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.Prompt, &exercises, &generated, &updated); err != nil {
		return nil, err
	}
	r.Exercises = json.RawMessage(exercises)
	var err error
	if r.GeneratedAt, err = parseTime(generated); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &r, nil
}
