package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modifit/platform/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	auth     *service.AuthService
	fitness  *service.FitnessService
	routines *service.RoutineGenerator
	store    Pinger
	log      *slog.Logger
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(authSvc *service.AuthService, fitness *service.FitnessService, routines *service.RoutineGenerator,
	store Pinger, log *slog.Logger) *Server {
	s := &Server{
		auth:     authSvc,
		fitness:  fitness,
		routines: routines,
		store:    store,
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.StripSlashes)
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleLive)
	s.router.Get("/readyz", s.handleReady)

	s.router.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/token/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(s.auth))
			r.Get("/profile", s.handleProfile)
			r.Post("/logout", s.handleLogout)
		})
	})

	s.router.Route("/api/fitness", func(r chi.Router) {
		r.Use(BearerAuth(s.auth))
		r.Get("/home", s.handleHome)

		r.Get("/exercises", s.handleListExercises)
		r.Post("/exercises", s.handleCreateExercise)
		r.Get("/exercises/{id}", s.handleGetExercise)
		r.Put("/exercises/{id}", s.handleUpdateExercise)
		r.Delete("/exercises/{id}", s.handleDeleteExercise)

		r.Get("/routines", s.handleListRoutines)
		r.Post("/routines", s.handleCreateRoutine)
		r.Get("/routines/{id}", s.handleGetRoutine)
		r.Delete("/routines/{id}", s.handleDeleteRoutine)

		r.Post("/ai-routines/generate", s.handleGenerateRoutine)
		r.Post("/ai-routines/parse", s.handleParseRoutine)
		r.Get("/ai-routines", s.handleListGenerated)
		r.Get("/ai-routines/{id}", s.handleGetGenerated)
		r.Delete("/ai-routines/{id}", s.handleDeleteGenerated)
	})
}

// SetMCP mounts a Model Context Protocol handler at /mcp behind bearer auth.
func (s *Server) SetMCP(h http.Handler) {
	s.router.With(BearerAuth(s.auth)).Handle("/mcp", h)
}
