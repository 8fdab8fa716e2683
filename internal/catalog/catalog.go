// Package catalog is the read-only exercise library. The engines only
// ever look descriptors up by id; editing the library is out of scope.
package catalog

// Settings are an exercise's category-appropriate default values, used
// as the last resort of the new-set value cascade.
type Settings struct {
	Sets     *int     `yaml:"sets,omitempty" json:"sets,omitempty"`
	Reps     *int     `yaml:"reps,omitempty" json:"reps,omitempty"`
	Weight   *float64 `yaml:"weight,omitempty" json:"weight,omitempty"`
	Time     *float64 `yaml:"time,omitempty" json:"time,omitempty"`
	Distance *float64 `yaml:"distance,omitempty" json:"distance,omitempty"`
	Incline  *float64 `yaml:"incline,omitempty" json:"incline,omitempty"`
	Duration *float64 `yaml:"duration,omitempty" json:"duration,omitempty"`
}

// Exercise describes one catalog entry.
type Exercise struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Category string   `yaml:"category" json:"category"`
	Defaults Settings `yaml:"defaults" json:"defaults"`
}

// Catalog is a read-only exercise lookup.
type Catalog interface {
	GetExerciseByID(id string) (Exercise, bool)
	List() []Exercise
}

// Static is an in-memory Catalog.
type Static struct {
	order     []string
	exercises map[string]Exercise
}

// NewStatic builds a Static catalog from the given exercises, preserving
// order. Later duplicates replace earlier ones.
func NewStatic(exercises []Exercise) *Static {
	s := &Static{exercises: make(map[string]Exercise, len(exercises))}
	for _, ex := range exercises {
		if _, seen := s.exercises[ex.ID]; !seen {
			s.order = append(s.order, ex.ID)
		}
		s.exercises[ex.ID] = ex
	}
	return s
}

// GetExerciseByID returns the descriptor for id.
func (s *Static) GetExerciseByID(id string) (Exercise, bool) {
	ex, ok := s.exercises[id]
	return ex, ok
}

// List returns all exercises in catalog order.
func (s *Static) List() []Exercise {
	out := make([]Exercise, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.exercises[id])
	}
	return out
}
