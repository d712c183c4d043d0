package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/modifit/platform/internal/events"
	"github.com/modifit/platform/internal/extract"
	"github.com/modifit/platform/internal/models"
)

const (
	minPromptLen = 10
	maxPromptLen = 2000

	msgPromptShort = "El prompt debe tener al menos 10 caracteres"
	msgGenerated   = "Rutina generada exitosamente"
)

type GenerateInput struct {
	Prompt      string `json:"prompt"`
	RoutineName string `json:"routine_name"`
}

// Validate checks the trimmed prompt and the optional routine name.
func (i GenerateInput) Validate() error {
	v := &models.ValidationError{}
	prompt := strings.TrimSpace(i.Prompt)
	switch n := utf8.RuneCountInString(prompt); {
	case n == 0:
		v.Add("prompt", msgRequired)
	case n < minPromptLen:
		v.Add("prompt", msgPromptShort)
	case n > maxPromptLen:
		v.Add("prompt", tooLong(maxPromptLen))
	}
	if utf8.RuneCountInString(strings.TrimSpace(i.RoutineName)) > maxNameLen {
		v.Add("routine_name", tooLong(maxNameLen))
	}
	return v.OrNil()
}

// GenerateResult is returned after a routine was generated and stored.
type GenerateResult struct {
	Status      string                   `json:"status"`
	Routine     *models.GeneratedRoutine `json:"routine"`
	RawResponse string                   `json:"raw_response"`
	Exercises   []json.RawMessage        `json:"exercises"`
	Source      extract.Source           `json:"source"`
	Message     string                   `json:"message"`
}

// RoutineGenerator asks the model for a routine, extracts its exercises and
// stores the result for the user.
type RoutineGenerator struct {
	log       *slog.Logger
	store     GeneratedRoutineStore
	completer Completer
	publisher events.Publisher
	now       func() time.Time
}

func NewRoutineGenerator(log *slog.Logger, store GeneratedRoutineStore, completer Completer, publisher events.Publisher) *RoutineGenerator {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &RoutineGenerator{
		log:       log.With("service", "routines"),
		store:     store,
		completer: completer,
		publisher: publisher,
		now:       time.Now,
	}
}

// Generate sends the prompt to the model and stores the extracted routine.
// A completion failure is returned unchanged (an *ai.Error) and nothing is
// stored.
func (g *RoutineGenerator) Generate(ctx context.Context, userID uuid.UUID, in GenerateInput) (*GenerateResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	prompt := strings.TrimSpace(in.Prompt)

	text, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		g.log.WarnContext(ctx, "completion failed", "user_id", userID, "error", err)
		return nil, err
	}

	res := extract.Extract(text)
	name := strings.TrimSpace(in.RoutineName)
	if name == "" {
		name = "Rutina " + g.now().Format("2006-01-02 15:04")
	}

	r := &models.GeneratedRoutine{
		UserID:    userID,
		Name:      name,
		Prompt:    prompt,
		Exercises: res.JSON(),
	}
	if err := g.store.CreateGeneratedRoutine(ctx, r); err != nil {
		return nil, fmt.Errorf("storing generated routine: %w", err)
	}

	g.log.InfoContext(ctx, "routine generated",
		"routine_id", r.ID, "user_id", userID, "source", res.Source, "exercises", len(res.Exercises))
	g.publish(ctx, r, res)

	return &GenerateResult{
		Status:      "success",
		Routine:     r,
		RawResponse: text,
		Exercises:   res.Exercises,
		Source:      res.Source,
		Message:     msgGenerated,
	}, nil
}

// publish sends routine.generated. Failures are logged only.
func (g *RoutineGenerator) publish(ctx context.Context, r *models.GeneratedRoutine, res extract.Result) {
	evt := events.RoutineGenerated{
		RoutineID:     r.ID,
		UserID:        r.UserID.String(),
		Name:          r.Name,
		ExerciseCount: len(res.Exercises),
		Source:        string(res.Source),
		GeneratedAt:   r.GeneratedAt,
	}
	if err := g.publisher.Publish(ctx, events.RoutingKeyRoutineGenerated, evt); err != nil {
		g.log.WarnContext(ctx, "publishing routine event", "routine_id", r.ID, "error", err)
	}
}

// List returns the user's generated routines, newest first. The result is never nil.
func (g *RoutineGenerator) List(ctx context.Context, userID uuid.UUID) ([]models.GeneratedRoutine, error) {
	list, err := g.store.ListGeneratedRoutines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.GeneratedRoutine{}
	}
	return list, nil
}

func (g *RoutineGenerator) Get(ctx context.Context, id int64, userID uuid.UUID) (*models.GeneratedRoutine, error) {
	return g.store.GetGeneratedRoutine(ctx, id, userID)
}

func (g *RoutineGenerator) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	return g.store.DeleteGeneratedRoutine(ctx, id, userID)
}

// Preview extracts exercises from text without calling the model or storing
// anything.
func (g *RoutineGenerator) Preview(text string) extract.Result {
	return extract.Extract(text)
}
