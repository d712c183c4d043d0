package server

import (
	"net/http"

	"github.com/modifit/platform/internal/models"
	"github.com/modifit/platform/internal/service"
)

// handleGenerateRoutine answers 201 with the stored routine, 400 on invalid
// input and 502 when the model call fails.
func (s *Server) handleGenerateRoutine(w http.ResponseWriter, r *http.Request) {
	var in service.GenerateInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := s.routines.Generate(r.Context(), userID(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleParseRoutine(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Text == "" {
		s.writeError(w, r, models.NewValidationError("text", "Este campo es requerido."))
		return
	}
	writeJSON(w, http.StatusOK, s.routines.Preview(in.Text))
}

func (s *Server) handleListGenerated(w http.ResponseWriter, r *http.Request) {
	list, err := s.routines.List(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetGenerated(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rt, err := s.routines.Get(r.Context(), id, userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *Server) handleDeleteGenerated(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.routines.Delete(r.Context(), id, userID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
