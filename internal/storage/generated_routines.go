package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modifit/platform/internal/models"
)

const generatedColumns = `id, user_id, name, prompt, exercises, generated_at, updated_at`

// CreateGeneratedRoutine stores an AI-generated routine. ID and timestamps
// are filled from the database.
func (db *DB) CreateGeneratedRoutine(ctx context.Context, r *models.GeneratedRoutine) error {
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO ai_generated_routines (user_id, name, prompt, exercises)
		VALUES ($1, $2, $3, $4)
		RETURNING id, generated_at, updated_at
	`, r.UserID, r.Name, r.Prompt, r.Exercises).Scan(&r.ID, &r.GeneratedAt, &r.UpdatedAt)
	return mapError("inserting generated routine", err)
}

// ListGeneratedRoutines returns the user's generated routines, newest first.
func (db *DB) ListGeneratedRoutines(ctx context.Context, userID uuid.UUID) ([]models.GeneratedRoutine, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+generatedColumns+`
		FROM ai_generated_routines
		WHERE user_id = $1
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

// GetGeneratedRoutine returns one generated routine owned by userID. Routines
// of other users are reported as ErrNotFound.
func (db *DB) GetGeneratedRoutine(ctx context.Context, id int64, userID uuid.UUID) (*models.GeneratedRoutine, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT `+generatedColumns+`
		FROM ai_generated_routines
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	r, err := scanGenerated(row)
	if err != nil {
		return nil, mapError("querying generated routine", err)
	}
	return r, nil
}

// DeleteGeneratedRoutine removes one generated routine owned by userID.
func (db *DB) DeleteGeneratedRoutine(ctx context.Context, id int64, userID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM ai_generated_routines WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapError("deleting generated routine", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting generated routine: %w", models.ErrNotFound)
	}
	return nil
}

func scanGenerated(row scanner) (*models.GeneratedRoutine, error) {
	var r models.GeneratedRoutine
	if err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.Prompt, &r.Exercises, &r.GeneratedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
