package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// TestValidationErrorUnwrap verifies that validation errors match ErrValidation
// through errors.Is so transport code can map them without type switches.
func TestValidationErrorUnwrap(t *testing.T) {
	err := error(NewValidationError("prompt", "too short"))
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false, want true")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("errors.As failed")
	}
	if ve.Errors[0].Field != "prompt" {
		t.Errorf("field = %q, want %q", ve.Errors[0].Field, "prompt")
	}
	if got := err.Error(); got != "validation: prompt: too short" {
		t.Errorf("Error() = %q", got)
	}
}

// TestValidationErrorOrNil verifies an empty collector yields a nil error.
func TestValidationErrorOrNil(t *testing.T) {
	var ve ValidationError
	if err := ve.OrNil(); err != nil {
		t.Errorf("OrNil() = %v, want nil", err)
	}
	ve.Add("a", "x")
	ve.Add("b", "y")
	err := ve.OrNil()
	if err == nil {
		t.Fatal("OrNil() = nil, want error")
	}
	if got := err.Error(); got != "validation: 2 errors (a, b)" {
		t.Errorf("Error() = %q", got)
	}
}

// TestRefreshTokenUsable covers the expiry and revocation checks.
func TestRefreshTokenUsable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := RefreshToken{ExpiresAt: now.Add(time.Hour)}
	if !tok.Usable(now) {
		t.Error("fresh token should be usable")
	}
	if tok.Usable(now.Add(2 * time.Hour)) {
		t.Error("expired token should not be usable")
	}
	revoked := now
	tok.RevokedAt = &revoked
	if tok.Usable(now) {
		t.Error("revoked token should not be usable")
	}
}

// TestGeneratedRoutineExerciseCount verifies counting of the stored JSON array.
func TestGeneratedRoutineExerciseCount(t *testing.T) {
	r := GeneratedRoutine{Exercises: json.RawMessage(`[{"name":"Squat"},{"note":"rest"}]`)}
	if n := r.ExerciseCount(); n != 2 {
		t.Errorf("ExerciseCount() = %d, want 2", n)
	}
	r.Exercises = json.RawMessage(`{"name":"Squat"}`)
	if n := r.ExerciseCount(); n != 0 {
		t.Errorf("ExerciseCount() on object = %d, want 0", n)
	}
}
