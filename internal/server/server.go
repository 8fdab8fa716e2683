package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/measurements"
	"github.com/claude/liftlog/internal/schedule"
	"github.com/claude/liftlog/internal/session"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	sessions     *session.Engine
	schedules    *schedule.Engine
	measurements *measurements.Keeper
	catalog      catalog.Catalog
	log          *slog.Logger
	apiKey       string
	router       chi.Router
}

// New creates a new Server with all routes configured.
func New(sessions *session.Engine, schedules *schedule.Engine, keeper *measurements.Keeper, cat catalog.Catalog, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		sessions:     sessions,
		schedules:    schedules,
		measurements: keeper,
		catalog:      cat,
		log:          log,
		apiKey:       apiKey,
		router:       chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Active session lifecycle
		r.Get("/session", s.handleGetSession)
		r.Post("/session/start", s.handleStartSession)
		r.Post("/session/start/confirm", s.handleConfirmStart)
		r.Post("/session/start/cancel", s.handleCancelStart)
		r.Post("/session/sets", s.handleAddSet)
		r.Post("/session/sets/{id}/complete", s.handleCompleteSet)
		r.Patch("/session/sets/{id}", s.handleUpdateSet)
		r.Delete("/session/sets/{id}", s.handleSkipSet)
		r.Put("/session/notes", s.handleSetNotes)
		r.Post("/session/navigate", s.handleNavigate)
		r.Post("/session/end", s.handleEndSession)
		r.Post("/session/cancel", s.handleCancelSession)
		r.Post("/session/template", s.handleSaveTemplate)

		// History, templates, catalog
		r.Get("/history", s.handleHistory)
		r.Get("/history/{id}/calories", s.handleHistoryCalories)
		r.Get("/templates", s.handleTemplates)
		r.Get("/exercises", s.handleExercises)

		// Schedule
		r.Get("/schedule", s.handleListSchedule)
		r.Post("/schedule", s.handleScheduleWorkout)
		r.Delete("/schedule/{id}", s.handleDeleteSchedule)
		r.Post("/schedule/{id}/complete", s.handleCompleteSchedule)
		r.Post("/schedule/{id}/perform", s.handlePerformSchedule)
		r.Get("/calendar/statuses", s.handleCalendarStatuses)

		// Measurements; ingest requires the API key (device integrations)
		r.Get("/measurements", s.handleListMeasurements)
		r.Group(func(r chi.Router) {
			if s.apiKey != "" {
				r.Use(APIKeyAuth(s.apiKey))
			}
			r.Post("/measurements", s.handleAddMeasurement)
		})
	})
}
