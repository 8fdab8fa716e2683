package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

// strength returns the default settings shared by weight exercises.
func strength(sets, reps int, weight float64) Settings {
	return Settings{Sets: intp(sets), Reps: intp(reps), Weight: floatp(weight)}
}

// Builtin returns the built-in exercise library.
func Builtin() *Static {
	return NewStatic([]Exercise{
		{ID: "bench-press", Name: "Bench Press", Category: "Chest", Defaults: strength(3, 8, 40)},
		{ID: "incline-dumbbell-press", Name: "Incline Dumbbell Press", Category: "Chest", Defaults: strength(3, 10, 16)},
		{ID: "chest-fly", Name: "Chest Fly", Category: "Chest", Defaults: strength(3, 12, 10)},
		{ID: "deadlift", Name: "Deadlift", Category: "Back", Defaults: strength(3, 5, 60)},
		{ID: "barbell-row", Name: "Barbell Row", Category: "Back", Defaults: strength(3, 8, 40)},
		{ID: "lat-pulldown", Name: "Lat Pulldown", Category: "Back", Defaults: strength(3, 10, 35)},
		{ID: "pull-up", Name: "Pull-Up", Category: "Back", Defaults: Settings{Sets: intp(3), Reps: intp(6)}},
		{ID: "overhead-press", Name: "Overhead Press", Category: "Shoulders", Defaults: strength(3, 8, 25)},
		{ID: "lateral-raise", Name: "Lateral Raise", Category: "Shoulders", Defaults: strength(3, 12, 6)},
		{ID: "bicep-curl", Name: "Bicep Curl", Category: "Arms", Defaults: strength(3, 10, 10)},
		{ID: "tricep-pushdown", Name: "Tricep Pushdown", Category: "Arms", Defaults: strength(3, 10, 20)},
		{ID: "squat", Name: "Squat", Category: "Legs", Defaults: strength(3, 8, 50)},
		{ID: "leg-press", Name: "Leg Press", Category: "Legs", Defaults: strength(3, 10, 100)},
		{ID: "romanian-deadlift", Name: "Romanian Deadlift", Category: "Legs", Defaults: strength(3, 8, 40)},
		{ID: "calf-raise", Name: "Calf Raise", Category: "Legs", Defaults: strength(3, 15, 40)},
		{ID: "plank", Name: "Plank", Category: "Core", Defaults: Settings{Sets: intp(3), Duration: floatp(60)}},
		{ID: "crunch", Name: "Crunch", Category: "Core", Defaults: Settings{Sets: intp(3), Reps: intp(20)}},
		{ID: "treadmill-run", Name: "Treadmill Run", Category: "Cardio", Defaults: Settings{Time: floatp(1800), Distance: floatp(5), Incline: floatp(1)}},
		{ID: "stationary-bike", Name: "Stationary Bike", Category: "Cardio", Defaults: Settings{Time: floatp(1800), Distance: floatp(12)}},
		{ID: "rowing-machine", Name: "Rowing Machine", Category: "Cardio", Defaults: Settings{Time: floatp(1200), Distance: floatp(3)}},
		{ID: "slide-board", Name: "Slide Board", Category: "Slide Board", Defaults: Settings{Duration: floatp(600), Incline: floatp(0)}},
		{ID: "hamstring-stretch", Name: "Hamstring Stretch", Category: "Stretching", Defaults: Settings{Duration: floatp(45)}},
		{ID: "hip-flexor-stretch", Name: "Hip Flexor Stretch", Category: "Stretching", Defaults: Settings{Duration: floatp(45)}},
	})
}

// Load returns the built-in library overlaid with the exercises from the
// YAML file at path. An empty path yields the builtins unchanged.
func Load(path string) (*Static, error) {
	base := Builtin()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	var extra []Exercise
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}

	return NewStatic(append(base.List(), extra...)), nil
}
