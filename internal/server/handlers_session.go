package server

import (
	"net/http"

	"github.com/claude/liftlog/internal/calories"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/session"
	"github.com/go-chi/chi/v5"
)

type startSessionRequest struct {
	TypeTag       string                   `json:"type_tag"`
	ExerciseIDs   []string                 `json:"exercise_ids"`
	DisplayName   string                   `json:"display_name,omitempty"`
	PlanOverrides []models.RawPlanOverride `json:"plan_overrides,omitempty"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	active := s.sessions.Active()
	if active == nil {
		writeError(w, models.ErrNoActiveSession)
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	started, pending, err := s.sessions.RequestStart(r.Context(), session.StartRequest{
		TypeTag:       req.TypeTag,
		ExerciseIDs:   req.ExerciseIDs,
		PlanOverrides: models.ParsePlanOverrides(req.PlanOverrides),
		DisplayName:   req.DisplayName,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if pending != nil {
		writeJSON(w, http.StatusConflict, map[string]string{
			"pending_token": pending.Token,
			"message":       "a session is already active; confirm or cancel the start",
		})
		return
	}
	writeJSON(w, http.StatusCreated, started)
}

func (s *Server) handleConfirmStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	started, err := s.sessions.ConfirmStart(r.Context(), req.Token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, started)
}

func (s *Server) handleCancelStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.sessions.CancelStart(req.Token); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseID string `json:"exercise_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := s.sessions.AddSet(r.Context(), req.ExerciseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleCompleteSet(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.CompleteSet(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSkipSet(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.SkipSet(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	var patch models.SetPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	if err := s.sessions.UpdateSet(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.sessions.SetNotes(r.Context(), req.Notes); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseID string `json:"exercise_id,omitempty"`
		Direction  string `json:"direction,omitempty"` // "next" or "previous"
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	var err error
	switch {
	case req.ExerciseID != "":
		err = s.sessions.NavigateToExercise(r.Context(), req.ExerciseID)
	case req.Direction == "next":
		err = s.sessions.NavigateNext(r.Context())
	case req.Direction == "previous":
		err = s.sessions.NavigatePrevious(r.Context())
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_id or direction required"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	active := s.sessions.Active()
	if active == nil {
		writeError(w, models.ErrNoActiveSession)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"current_exercise_index": active.CurrentExerciseIndex})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	finalized, err := s.sessions.EndSession(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if finalized.ScheduleID != nil {
		if err := s.schedules.MarkCompleted(r.Context(), *finalized.ScheduleID); err != nil {
			s.log.Warn("marking schedule entry completed failed", "id", *finalized.ScheduleID, "error", err)
		}
	}

	estimated := 0
	if finalized.TotalTimeSeconds != nil {
		estimated = calories.Estimate(*finalized.TotalTimeSeconds, finalized.TypeTag,
			s.measurements.List(), models.DayOf(finalized.StartTime))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session":            finalized,
		"estimated_calories": estimated,
	})
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.CancelSession(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	tmpl, err := s.sessions.SaveAsTemplate(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tmpl)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.History())
}

func (s *Server) handleHistoryCalories(w http.ResponseWriter, r *http.Request) {
	past, ok := s.sessions.HistoryByID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, models.ErrNotFound)
		return
	}

	duration := 0
	if past.TotalTimeSeconds != nil {
		duration = *past.TotalTimeSeconds
	}
	estimated := calories.Estimate(duration, past.TypeTag, s.measurements.List(), models.DayOf(past.StartTime))
	writeJSON(w, http.StatusOK, map[string]int{"calories": estimated})
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.Templates())
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.List())
}
