package models

import (
	"strconv"
	"strings"
)

// RawPlanOverride is a plan override as it arrives from external input,
// with stringified numeric fields.
type RawPlanOverride struct {
	ExerciseID string `json:"exercise_id"`
	Sets       string `json:"sets,omitempty"`
	Reps       string `json:"reps,omitempty"`
	Weight     string `json:"weight,omitempty"`
	Distance   string `json:"distance,omitempty"`
	Time       string `json:"time,omitempty"`
	Incline    string `json:"incline,omitempty"`
}

// ParsePlanOverride coerces a raw override's string fields to typed
// optionals. Empty or unparseable fields come out nil; coercion happens
// exactly once here, at the boundary.
func ParsePlanOverride(raw RawPlanOverride) PlanOverride {
	return PlanOverride{
		ExerciseID: strings.TrimSpace(raw.ExerciseID),
		Sets:       parseInt(raw.Sets),
		Reps:       parseInt(raw.Reps),
		Weight:     parseFloat(raw.Weight),
		Distance:   parseFloat(raw.Distance),
		Time:       parseFloat(raw.Time),
		Incline:    parseFloat(raw.Incline),
	}
}

// ParsePlanOverrides coerces a slice of raw overrides, dropping entries
// without an exercise id.
func ParsePlanOverrides(raw []RawPlanOverride) []PlanOverride {
	if len(raw) == 0 {
		return nil
	}
	out := make([]PlanOverride, 0, len(raw))
	for _, r := range raw {
		po := ParsePlanOverride(r)
		if po.ExerciseID == "" {
			continue
		}
		out = append(out, po)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
