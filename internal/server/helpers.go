package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/liftlog/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps the engine error taxonomy onto HTTP statuses. Unknown
// errors are treated as store failures.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrEmptyExerciseSet):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNoActiveSession),
		errors.Is(err, models.ErrStaleToken),
		errors.Is(err, models.ErrBrokenLinkage),
		errors.Is(err, models.ErrFutureWorkout):
		return http.StatusConflict
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrSetNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}
