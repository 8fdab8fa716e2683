package models

import (
	"encoding/json"
	"testing"
)

// TestParsePlanOverride verifies string fields coerce to typed optionals,
// with empty and malformed values coming out nil.
func TestParsePlanOverride(t *testing.T) {
	po := ParsePlanOverride(RawPlanOverride{
		ExerciseID: " bench-press ",
		Sets:       "3",
		Reps:       "8",
		Weight:     "52.5",
		Distance:   "",
		Time:       "not-a-number",
	})
	if po.ExerciseID != "bench-press" {
		t.Errorf("exercise_id = %q, want %q", po.ExerciseID, "bench-press")
	}
	if po.Sets == nil || *po.Sets != 3 {
		t.Errorf("sets = %v, want 3", po.Sets)
	}
	if po.Reps == nil || *po.Reps != 8 {
		t.Errorf("reps = %v, want 8", po.Reps)
	}
	if po.Weight == nil || *po.Weight != 52.5 {
		t.Errorf("weight = %v, want 52.5", po.Weight)
	}
	if po.Distance != nil {
		t.Errorf("distance = %v, want nil for empty input", *po.Distance)
	}
	if po.Time != nil {
		t.Errorf("time = %v, want nil for malformed input", *po.Time)
	}
}

// TestParsePlanOverridesDropsBlank verifies entries without an exercise id
// are dropped and an all-blank list collapses to nil.
func TestParsePlanOverridesDropsBlank(t *testing.T) {
	out := ParsePlanOverrides([]RawPlanOverride{
		{ExerciseID: "squat", Weight: "60"},
		{ExerciseID: "  ", Weight: "40"},
	})
	if len(out) != 1 || out[0].ExerciseID != "squat" {
		t.Errorf("overrides = %v, want just squat", out)
	}

	if out := ParsePlanOverrides([]RawPlanOverride{{Weight: "40"}}); out != nil {
		t.Errorf("overrides = %v, want nil", out)
	}
}

// TestRawPlanOverrideJSON verifies the wire shape: stringified numerics as
// clients send them.
func TestRawPlanOverrideJSON(t *testing.T) {
	var raw RawPlanOverride
	data := `{"exercise_id": "bench-press", "weight": "52.5", "reps": "5"}`
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	po := ParsePlanOverride(raw)
	if po.Weight == nil || *po.Weight != 52.5 {
		t.Errorf("weight = %v, want 52.5", po.Weight)
	}
	if po.Reps == nil || *po.Reps != 5 {
		t.Errorf("reps = %v, want 5", po.Reps)
	}
}
