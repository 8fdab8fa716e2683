package models

import (
	"testing"
	"time"
)

// TestParseDayRoundTrip verifies a day string parses in the local location
// and formats back to itself.
func TestParseDayRoundTrip(t *testing.T) {
	day, err := ParseDay("2026-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.Location() != time.Local {
		t.Errorf("location = %v, want local", day.Location())
	}
	if got := DayOf(day); got != "2026-03-10" {
		t.Errorf("DayOf = %q, want %q", got, "2026-03-10")
	}
}

// TestParseDayInvalid verifies malformed dates return an error.
func TestParseDayInvalid(t *testing.T) {
	for _, bad := range []string{"03/10/2026", "2026-3-10", "not-a-date", ""} {
		if _, err := ParseDay(bad); err == nil {
			t.Errorf("ParseDay(%q): expected error", bad)
		}
	}
}

// TestStartOfDay verifies truncation to local midnight preserves the
// calendar day.
func TestStartOfDay(t *testing.T) {
	at := time.Date(2026, 3, 10, 23, 59, 59, 0, time.Local)
	got := StartOfDay(at)
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}

// TestDueInstant verifies a day and clock combine into the right local
// instant, and malformed clocks are rejected.
func TestDueInstant(t *testing.T) {
	got, err := DueInstant("2026-03-10", "07:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 10, 7, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("DueInstant = %v, want %v", got, want)
	}

	if _, err := DueInstant("2026-03-10", "25:99"); err == nil {
		t.Error("expected error for malformed clock time")
	}
}

// TestSessionClone verifies Clone is a deep copy: mutating the copy's
// slices and pointer fields leaves the original untouched.
func TestSessionClone(t *testing.T) {
	w := 40.0
	end := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	orig := &WorkoutSession{
		ID:               "s1",
		ExerciseSequence: []string{"bench-press"},
		Sets:             []Set{{ID: "set1", ExerciseID: "bench-press", Weight: &w}},
		EndTime:          &end,
	}

	c := orig.Clone()
	c.ExerciseSequence[0] = "squat"
	c.Sets[0].ID = "changed"
	*c.EndTime = end.Add(time.Hour)

	if orig.ExerciseSequence[0] != "bench-press" {
		t.Error("clone shares the exercise sequence")
	}
	if orig.Sets[0].ID != "set1" {
		t.Error("clone shares the sets slice")
	}
	if !orig.EndTime.Equal(end) {
		t.Error("clone shares the end-time pointer")
	}

	var nilSession *WorkoutSession
	if nilSession.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
