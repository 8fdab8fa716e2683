package server

import (
	"net/http"

	"github.com/claude/liftlog/internal/models"
)

func (s *Server) handleListMeasurements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.measurements.List())
}

func (s *Server) handleAddMeasurement(w http.ResponseWriter, r *http.Request) {
	var m models.BodyMeasurement
	if !decodeJSON(w, r, &m) {
		return
	}

	saved, err := s.measurements.Add(r.Context(), m)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}
