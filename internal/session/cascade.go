package session

import (
	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/models"
)

// resolveSet builds a new set for exerciseID through the value cascade.
// Each field is resolved independently; the first source that defines it
// wins: the previous set, then the plan override, then the catalog
// defaults, else the field stays nil. The previous set lets in-session
// edits propagate to later sets; override and defaults only seed an
// exercise's first set. Plan overrides carry no duration, so duration
// skips straight from the previous set to the defaults.
func resolveSet(exerciseID string, prev *models.Set, override *models.PlanOverride, defaults *catalog.Settings) models.Set {
	set := models.Set{ExerciseID: exerciseID}

	var dfl catalog.Settings
	if defaults != nil {
		dfl = *defaults
	}
	var ovr models.PlanOverride
	if override != nil {
		ovr = *override
	}

	if prev != nil {
		set.Weight = copyFloat(prev.Weight)
		set.Reps = copyInt(prev.Reps)
		set.Time = copyFloat(prev.Time)
		set.Distance = copyFloat(prev.Distance)
		set.Incline = copyFloat(prev.Incline)
		set.Duration = copyFloat(prev.Duration)
	}

	if set.Weight == nil {
		set.Weight = copyFloat(firstFloat(ovr.Weight, dfl.Weight))
	}
	if set.Reps == nil {
		set.Reps = copyInt(firstInt(ovr.Reps, dfl.Reps))
	}
	if set.Time == nil {
		set.Time = copyFloat(firstFloat(ovr.Time, dfl.Time))
	}
	if set.Distance == nil {
		set.Distance = copyFloat(firstFloat(ovr.Distance, dfl.Distance))
	}
	if set.Incline == nil {
		set.Incline = copyFloat(firstFloat(ovr.Incline, dfl.Incline))
	}
	if set.Duration == nil {
		set.Duration = copyFloat(dfl.Duration)
	}

	return set
}

func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstInt(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
