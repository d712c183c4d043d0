package mcp

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/modifit/platform/internal/ai"
	"github.com/modifit/platform/internal/auth"
	"github.com/modifit/platform/internal/extract"
	"github.com/modifit/platform/internal/models"
	"github.com/modifit/platform/internal/service"
)

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List exercises from the shared catalog. Each entry has series (count_series), repetitions (count_repeat), the muscle group trained and the training day."),
	mcp.WithString("muscle", mcp.Description("Exact muscle group (e.g. 'Piernas', 'Pecho')")),
	mcp.WithString("day", mcp.Description("Exact training day (e.g. 'Lunes')")),
	mcp.WithString("search", mcp.Description("Case-insensitive substring of the exercise name")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of exercises. Defaults to all.")),
)

var toolListRoutines = mcp.NewTool("list_routines",
	mcp.WithDescription("List the user's manual routines, each linking a routine name to one catalog exercise."),
)

var toolListGeneratedRoutines = mcp.NewTool("list_generated_routines",
	mcp.WithDescription("List the user's AI-generated routines, newest first, with their prompt and extracted exercises."),
)

var toolGetGeneratedRoutine = mcp.NewTool("get_generated_routine",
	mcp.WithDescription("Get one AI-generated routine by ID."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Routine ID")),
)

var toolGenerateRoutine = mcp.NewTool("generate_routine",
	mcp.WithDescription("Ask the workout model for a routine and store it for the user. Returns the stored routine, the raw model answer and the extracted exercises."),
	mcp.WithString("prompt", mcp.Required(), mcp.Description("Description of the desired workout, 10 to 2000 characters")),
	mcp.WithString("routine_name", mcp.Description("Optional routine name. Defaults to 'Rutina <date time>'.")),
)

var toolParseRoutineText = mcp.NewTool("parse_routine_text",
	mcp.WithDescription("Extract exercise records from free-form text or JSON without calling the model or storing anything. Returns the records and the strategy that matched."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Routine text, e.g. a numbered list or a JSON document")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := models.ExerciseFilter{
		Muscle: req.GetString("muscle", ""),
		Day:    req.GetString("day", ""),
		Search: req.GetString("search", ""),
		Limit:  req.GetInt("limit", 0),
	}

	list, err := h.ds.ListExercises(ctx, f)
	if err != nil {
		return h.failure("list_exercises", err), nil
	}
	return jsonResult(list)
}

func (h *handlers) listRoutines(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := h.ds.ListRoutines(ctx, callerID(ctx))
	if err != nil {
		return h.failure("list_routines", err), nil
	}
	return jsonResult(list)
}

func (h *handlers) listGeneratedRoutines(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := h.ds.ListGeneratedRoutines(ctx, callerID(ctx))
	if err != nil {
		return h.failure("list_generated_routines", err), nil
	}
	return jsonResult(list)
}

func (h *handlers) getGeneratedRoutine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil || id <= 0 {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	r, err := h.ds.GetGeneratedRoutine(ctx, int64(id), callerID(ctx))
	if err != nil {
		return h.failure("get_generated_routine", err), nil
	}
	return jsonResult(r)
}

func (h *handlers) generateRoutine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError("prompt parameter is required"), nil
	}

	res, err := h.ds.GenerateRoutine(ctx, callerID(ctx), service.GenerateInput{
		Prompt:      prompt,
		RoutineName: req.GetString("routine_name", ""),
	})
	if err != nil {
		return h.failure("generate_routine", err), nil
	}
	return jsonResult(res)
}

func (h *handlers) parseRoutineText(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text parameter is required"), nil
	}
	return jsonResult(extract.Extract(text))
}

func callerID(ctx context.Context) uuid.UUID {
	id, _ := auth.UserIDFromContext(ctx)
	return id
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// failure turns a data source error into a tool error the model can read.
func (h *handlers) failure(tool string, err error) *mcp.CallToolResult {
	var aiErr *ai.Error
	var verr *models.ValidationError
	switch {
	case errors.As(err, &aiErr):
		return mcp.NewToolResultError("model request failed: " + aiErr.Message)
	case errors.As(err, &verr):
		return mcp.NewToolResultError(verr.Error())
	case errors.Is(err, models.ErrNotFound):
		return mcp.NewToolResultError("not found")
	case errors.Is(err, models.ErrUnauthorized):
		return mcp.NewToolResultError("not authenticated")
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError("query failed: " + err.Error())
}
