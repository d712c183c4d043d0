package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Exercise is an entry of the shared exercise catalog.
type Exercise struct {
	ID                   int64  `json:"id"`
	Exercise             string `json:"exercise"`
	CountSeries          int    `json:"count_series"`
	CountRepeat          int    `json:"count_repeat"`
	MuscleToTrainer      string `json:"muscle_to_trainer"`
	ExerciseDayExecution string `json:"exercise_day_execution"`
}

// ExerciseFilter narrows ListExercises. Zero values mean "no filter".
type ExerciseFilter struct {
	Muscle string
	Day    string
	Search string // case-insensitive substring of the exercise name
	Limit  int
	Offset int
}

// Routine is a manually assembled routine linking a user to one exercise.
type Routine struct {
	ID             int64     `json:"id"`
	NameRutine     string    `json:"name_rutine"`
	UserID         uuid.UUID `json:"user"`
	ExerciseID     int64     `json:"exercise"`
	ExerciseDetail *Exercise `json:"exercise_detail,omitempty"`
}

// GeneratedRoutine is a routine produced from an AI completion. Exercises
// holds the extracted exercise list verbatim as a JSON array.
type GeneratedRoutine struct {
	ID          int64           `json:"id"`
	UserID      uuid.UUID       `json:"user"`
	Name        string          `json:"name"`
	Prompt      string          `json:"prompt"`
	Exercises   json.RawMessage `json:"exercises"`
	GeneratedAt time.Time       `json:"generated_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ExerciseCount returns the number of elements in Exercises, or 0 when it is
// not a JSON array.
func (r GeneratedRoutine) ExerciseCount() int {
	var items []json.RawMessage
	if err := json.Unmarshal(r.Exercises, &items); err != nil {
		return 0
	}
	return len(items)
}
