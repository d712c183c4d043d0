// Package mcp exposes the exercise catalog and the user's routines as Model
// Context Protocol tools and resources.
package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/modifit/platform/internal/auth"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Modifit", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Modifit workout server. Browse the exercise catalog, list manual and AI-generated routines, and generate new routines from a description. Routines are scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolListRoutines, Handler: h.listRoutines},
		server.ServerTool{Tool: toolListGeneratedRoutines, Handler: h.listGeneratedRoutines},
		server.ServerTool{Tool: toolGetGeneratedRoutine, Handler: h.getGeneratedRoutine},
		server.ServerTool{Tool: toolGenerateRoutine, Handler: h.generateRoutine},
		server.ServerTool{Tool: toolParseRoutineText, Handler: h.parseRoutineText},
	)

	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// NewHTTPHandler serves s over streamable HTTP. The user ID set by the
// transport's auth middleware is carried into tool calls.
func NewHTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithStateLess(true),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if id, ok := auth.UserIDFromContext(r.Context()); ok {
				return auth.WithUserID(ctx, id)
			}
			return ctx
		}),
	)
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

var resExerciseCatalog = mcp.NewResource(
	"modifit://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Every exercise in the shared catalog with series, repetitions, muscle group and training day"),
	mcp.WithMIMEType("application/json"),
)
