package models

import (
	"time"
)

// Set is one discrete unit of exercise performance. Which numeric fields
// apply depends on the exercise's category; the rest stay nil.
type Set struct {
	ID         string     `json:"id"`
	ExerciseID string     `json:"exercise_id"`
	Weight     *float64   `json:"weight,omitempty"`
	Reps       *int       `json:"reps,omitempty"`
	Time       *float64   `json:"time,omitempty"`
	Distance   *float64   `json:"distance,omitempty"`
	Incline    *float64   `json:"incline,omitempty"`
	Duration   *float64   `json:"duration,omitempty"`
	Completed  bool       `json:"completed"`
	Timestamp  time.Time  `json:"timestamp"`
}

// SetPatch carries a partial update for a set. Nil fields are left
// untouched; Completed is never changed through a patch.
type SetPatch struct {
	Weight   *float64 `json:"weight,omitempty"`
	Reps     *int     `json:"reps,omitempty"`
	Time     *float64 `json:"time,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
	Incline  *float64 `json:"incline,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
}

// PlanOverride holds per-exercise target values sourced from a saved plan.
// Fields are typed optionals; string inputs are coerced once at the
// boundary via ParsePlanOverride, never re-parsed downstream.
type PlanOverride struct {
	ExerciseID string   `json:"exercise_id"`
	Sets       *int     `json:"sets,omitempty"`
	Reps       *int     `json:"reps,omitempty"`
	Weight     *float64 `json:"weight,omitempty"`
	Distance   *float64 `json:"distance,omitempty"`
	Time       *float64 `json:"time,omitempty"`
	Incline    *float64 `json:"incline,omitempty"`
}

// WorkoutSession is one continuous performance of a workout. At most one
// session is active at any time; the active one is owned exclusively by
// the session engine.
type WorkoutSession struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	TypeTag              string         `json:"type_tag"`
	ExerciseSequence     []string       `json:"exercise_sequence"`
	Sets                 []Set          `json:"sets"`
	StartTime            time.Time      `json:"start_time"`
	EndTime              *time.Time     `json:"end_time,omitempty"`
	TotalTimeSeconds     *int           `json:"total_time_seconds,omitempty"`
	Notes                string         `json:"notes"`
	PlanOverrides        []PlanOverride `json:"plan_overrides,omitempty"`
	CurrentExerciseIndex int            `json:"current_exercise_index"`

	// ScheduleID links a session started by performing a schedule entry
	// back to that entry, so ending the session can mark it completed.
	ScheduleID *string `json:"schedule_id,omitempty"`
}

// Clone returns a deep copy of the session. The engine snapshots state
// before persisting so a failed store write can roll back cleanly.
func (s *WorkoutSession) Clone() *WorkoutSession {
	if s == nil {
		return nil
	}
	c := *s
	c.ExerciseSequence = append([]string(nil), s.ExerciseSequence...)
	c.Sets = append([]Set(nil), s.Sets...)
	c.PlanOverrides = append([]PlanOverride(nil), s.PlanOverrides...)
	if s.EndTime != nil {
		t := *s.EndTime
		c.EndTime = &t
	}
	if s.TotalTimeSeconds != nil {
		v := *s.TotalTimeSeconds
		c.TotalTimeSeconds = &v
	}
	if s.ScheduleID != nil {
		id := *s.ScheduleID
		c.ScheduleID = &id
	}
	return &c
}

// SavedTemplate is a reusable exercise sequence captured from a session.
type SavedTemplate struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	ExerciseSequence []string       `json:"exercise_sequence"`
	TypeTag          string         `json:"type_tag"`
	CreatedAt        time.Time      `json:"created_at"`
	PlanOverrides    []PlanOverride `json:"plan_overrides,omitempty"`
}

// ScheduledWorkout is a calendar-dated intent to perform a workout.
// At most one of TemplateID, PlanID and ExistingWorkoutID is set; when
// none is, Exercises carries a raw snapshot. Completed and Missed are
// never both true, Completed never reverts, and Missed is only ever set
// by the reconciliation pass.
type ScheduledWorkout struct {
	ID                string   `json:"id"`
	Date              string   `json:"date"` // YYYY-MM-DD, local calendar day
	TypeTag           string   `json:"type_tag"`
	Time              string   `json:"time,omitempty"` // HH:MM, local
	TemplateID        *string  `json:"template_id,omitempty"`
	PlanID            *string  `json:"plan_id,omitempty"`
	ExistingWorkoutID *string  `json:"existing_workout_id,omitempty"`
	Exercises         []string `json:"exercises,omitempty"`
	Completed         bool     `json:"completed"`
	Missed            bool     `json:"missed"`
}

// BodyMeasurement is one dated body-metrics entry. Only Weight matters to
// the calorie estimator; the other fields ride along for completeness.
type BodyMeasurement struct {
	ID         string   `json:"id"`
	Date       string   `json:"date"` // YYYY-MM-DD
	Weight     *float64 `json:"weight,omitempty"` // kg
	BodyFatPct *float64 `json:"body_fat_pct,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}
