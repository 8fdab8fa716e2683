// Package calories estimates energy burned for a finalized workout.
package calories

import (
	"math"

	"github.com/claude/liftlog/internal/models"
)

// DefaultWeightKg is used when the measurement history has no usable
// weight at all.
const DefaultWeightKg = 70.0

// MET constants by workout type. Cardio-like workouts burn at the higher
// rate; everything else is treated as moderate strength work.
const (
	metCardio   = 6.0
	metStrength = 3.5
)

// Estimate returns the estimated calories for a workout of the given
// duration and type. The body weight is taken from the measurement with
// the latest date not after workoutDay that defines a weight; failing
// that, the earliest weighted measurement; failing that,
// DefaultWeightKg.
func Estimate(durationSeconds int, typeTag string, history []models.BodyMeasurement, workoutDay string) int {
	met := metStrength
	if typeTag == "Cardio" || typeTag == "Slide Board" {
		met = metCardio
	}

	weight := weightFor(history, workoutDay)
	return int(math.Round(met * weight * float64(durationSeconds) / 3600))
}

// weightFor runs the nearest-prior-measurement lookup: the latest
// measurement with a weight dated on or before the workout day. When the
// whole history postdates the workout, the earliest weighted measurement
// is the closest one and wins over the default.
func weightFor(history []models.BodyMeasurement, workoutDay string) float64 {
	var prior, earliest *models.BodyMeasurement
	for i := range history {
		m := &history[i]
		if m.Weight == nil {
			continue
		}
		if earliest == nil || m.Date < earliest.Date {
			earliest = m
		}
		if m.Date > workoutDay {
			continue
		}
		if prior == nil || m.Date > prior.Date {
			prior = m
		}
	}
	if prior != nil {
		return *prior.Weight
	}
	if earliest != nil {
		return *earliest.Weight
	}
	return DefaultWeightKg
}
