package server

import (
	"net/http"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/schedule"
	"github.com/claude/liftlog/internal/session"
	"github.com/go-chi/chi/v5"
)

type scheduleRequest struct {
	Date              string   `json:"date"`
	TypeTag           string   `json:"type_tag"`
	Time              string   `json:"time,omitempty"`
	TemplateID        *string  `json:"template_id,omitempty"`
	PlanID            *string  `json:"plan_id,omitempty"`
	ExistingWorkoutID *string  `json:"existing_workout_id,omitempty"`
	Exercises         []string `json:"exercises,omitempty"`
}

// linkageCount counts how many mutually-exclusive sources the request
// sets. The engine stores whatever it is handed; rejecting ambiguous
// external input is this layer's job.
func (r scheduleRequest) linkageCount() int {
	n := 0
	if r.TemplateID != nil {
		n++
	}
	if r.PlanID != nil {
		n++
	}
	if r.ExistingWorkoutID != nil {
		n++
	}
	if len(r.Exercises) > 0 {
		n++
	}
	return n
}

func (s *Server) handleListSchedule(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.schedules.Entries())
}

func (s *Server) handleScheduleWorkout(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.linkageCount() > 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "set at most one of template_id, plan_id, existing_workout_id, exercises",
		})
		return
	}

	entry, err := s.schedules.Schedule(r.Context(), schedule.Request{
		Date:              req.Date,
		TypeTag:           req.TypeTag,
		Time:              req.Time,
		TemplateID:        req.TemplateID,
		PlanID:            req.PlanID,
		ExistingWorkoutID: req.ExistingWorkoutID,
		Exercises:         req.Exercises,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := s.schedules.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := s.schedules.MarkCompleted(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePerformSchedule resolves a schedule entry and starts a session
// from it. When a session is already active the response carries a
// pending-start token, same as a direct start.
func (s *Server) handlePerformSchedule(w http.ResponseWriter, r *http.Request) {
	p, err := s.schedules.ResolvePerformable(chi.URLParam(r, "id"), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	started, pending, err := s.sessions.RequestStart(r.Context(), session.StartRequest{
		TypeTag:       p.TypeTag,
		ExerciseIDs:   p.ExerciseIDs,
		PlanOverrides: p.PlanOverrides,
		ScheduleID:    &p.ScheduleID,
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

func (s *Server) handleCalendarStatuses(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")
	if startStr == "" || endStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start and end parameters required"})
		return
	}

	start, err := models.ParseDay(startStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	end, err := models.ParseDay(endStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if end.Before(start) || end.Sub(start) > 366*24*time.Hour {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date range"})
		return
	}

	statuses := make(map[string][]string)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if tags := s.schedules.StatusesForDay(models.DayOf(day)); len(tags) > 0 {
			statuses[models.DayOf(day)] = tags
		}
	}
	writeJSON(w, http.StatusOK, statuses)
}
