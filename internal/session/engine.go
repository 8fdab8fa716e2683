// Package session owns the single active workout session: its sets, the
// exercise cursor, and finalization into the workout history.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
)

// Engine is the single owner of the active session, the finalized-session
// history and the saved templates. All mutation goes through its methods;
// there is no other path to the active session.
type Engine struct {
	store   storage.Store
	catalog catalog.Catalog
	log     *slog.Logger

	// Now is the clock used for timestamps. Tests swap it out.
	Now func() time.Time

	mu        sync.Mutex
	active    *models.WorkoutSession
	pending   *PendingStart
	history   []models.WorkoutSession
	templates []models.SavedTemplate
	rev       uint64
}

// StartRequest describes a session to be started.
type StartRequest struct {
	TypeTag       string
	ExerciseIDs   []string
	PlanOverrides []models.PlanOverride
	DisplayName   string

	// ScheduleID is set when the start came from performing a schedule
	// entry.
	ScheduleID *string
}

// PendingStart is the token handed out when starting would overwrite an
// active session. The caller confirms or cancels it explicitly; any
// intervening change to the active session invalidates the token.
type PendingStart struct {
	Token string
	req   StartRequest
	rev   uint64
}

// NewEngine creates a session engine over the given store and catalog.
func NewEngine(store storage.Store, cat catalog.Catalog, log *slog.Logger) *Engine {
	return &Engine{
		store:   store,
		catalog: cat,
		log:     log,
		Now:     time.Now,
	}
}

// Load restores the active-session snapshot, history and templates from
// the store. Call once before serving.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	active, err := storage.LoadJSON[*models.WorkoutSession](ctx, e.store, storage.KeyActiveSession)
	if err != nil {
		return err
	}
	history, err := storage.LoadJSON[[]models.WorkoutSession](ctx, e.store, storage.KeyHistory)
	if err != nil {
		return err
	}
	templates, err := storage.LoadJSON[[]models.SavedTemplate](ctx, e.store, storage.KeyTemplates)
	if err != nil {
		return err
	}

	e.active = active
	e.history = history
	e.templates = templates
	if e.active != nil {
		e.log.Info("recovered in-progress session", "id", e.active.ID, "started", e.active.StartTime)
	}
	return nil
}

// RequestStart begins a new session when none is active, returning it.
// When a session is already active nothing changes and a PendingStart
// token is returned instead; the caller must ConfirmStart or CancelStart.
// Returns models.ErrEmptyExerciseSet when no usable exercise ids remain
// after filtering.
func (e *Engine) RequestStart(ctx context.Context, req StartRequest) (*models.WorkoutSession, *PendingStart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := filterExerciseIDs(req.ExerciseIDs)
	if len(ids) == 0 {
		return nil, nil, models.ErrEmptyExerciseSet
	}
	req.ExerciseIDs = ids

	if e.active != nil {
		e.pending = &PendingStart{Token: uuid.NewString(), req: req, rev: e.rev}
		e.log.Info("start requires confirmation, session active", "active_id", e.active.ID)
		return nil, e.pending, nil
	}

	s, err := e.start(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return s, nil, nil
}

// ConfirmStart discards the active session and starts the pending one.
// The in-progress session is dropped without being written to history.
// Returns models.ErrStaleToken when the token is unknown or the active
// session changed since the token was issued.
func (e *Engine) ConfirmStart(ctx context.Context, token string) (*models.WorkoutSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil || e.pending.Token != token {
		return nil, models.ErrStaleToken
	}
	if e.pending.rev != e.rev {
		e.pending = nil
		return nil, models.ErrStaleToken
	}

	req := e.pending.req
	e.pending = nil
	return e.start(ctx, req)
}

// CancelStart withdraws a pending start, leaving the active session
// untouched.
func (e *Engine) CancelStart(token string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil || e.pending.Token != token {
		return models.ErrStaleToken
	}
	e.pending = nil
	return nil
}

// start replaces the active session. Caller holds the lock.
func (e *Engine) start(ctx context.Context, req StartRequest) (*models.WorkoutSession, error) {
	name := req.DisplayName
	if name == "" {
		name = req.TypeTag + " Workout"
	}

	prev := e.active
	e.active = &models.WorkoutSession{
		ID:               uuid.NewString(),
		Name:             name,
		TypeTag:          req.TypeTag,
		ExerciseSequence: req.ExerciseIDs,
		Sets:             []models.Set{},
		StartTime:        e.Now(),
		PlanOverrides:    req.PlanOverrides,
		ScheduleID:       req.ScheduleID,
	}
	if err := e.persistActive(ctx); err != nil {
		e.active = prev
		return nil, err
	}

	e.rev++
	e.log.Info("session started", "id", e.active.ID, "type", e.active.TypeTag, "exercises", len(req.ExerciseIDs))
	return e.active.Clone(), nil
}

// AddSet appends a new, uncompleted set for the given exercise, pre-filled
// through the value cascade: the exercise's most recent set in this
// session, then its plan override, then its catalog defaults. Returns the
// new set's id.
func (e *Engine) AddSet(ctx context.Context, exerciseID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return "", models.ErrNoActiveSession
	}

	var prevSet *models.Set
	for i := len(e.active.Sets) - 1; i >= 0; i-- {
		if e.active.Sets[i].ExerciseID == exerciseID {
			prevSet = &e.active.Sets[i]
			break
		}
	}

	var override *models.PlanOverride
	for i := range e.active.PlanOverrides {
		if e.active.PlanOverrides[i].ExerciseID == exerciseID {
			override = &e.active.PlanOverrides[i]
			break
		}
	}

	var defaults *catalog.Settings
	if ex, ok := e.catalog.GetExerciseByID(exerciseID); ok {
		defaults = &ex.Defaults
	}

	set := resolveSet(exerciseID, prevSet, override, defaults)
	set.ID = uuid.NewString()
	set.Timestamp = e.Now()

	prev := e.active.Clone()
	e.active.Sets = append(e.active.Sets, set)
	if err := e.persistActive(ctx); err != nil {
		e.active = prev
		return "", err
	}
	e.rev++
	return set.ID, nil
}

// CompleteSet marks the matching set completed in place.
func (e *Engine) CompleteSet(ctx context.Context, setID string) error {
	return e.mutateSet(ctx, setID, func(s *models.Set) {
		s.Completed = true
	})
}

// UpdateSet shallow-merges the patch into the matching set. Completed is
// never altered through this path.
func (e *Engine) UpdateSet(ctx context.Context, setID string, patch models.SetPatch) error {
	return e.mutateSet(ctx, setID, func(s *models.Set) {
		if patch.Weight != nil {
			s.Weight = patch.Weight
		}
		if patch.Reps != nil {
			s.Reps = patch.Reps
		}
		if patch.Time != nil {
			s.Time = patch.Time
		}
		if patch.Distance != nil {
			s.Distance = patch.Distance
		}
		if patch.Incline != nil {
			s.Incline = patch.Incline
		}
		if patch.Duration != nil {
			s.Duration = patch.Duration
		}
	})
}

func (e *Engine) mutateSet(ctx context.Context, setID string, fn func(*models.Set)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		e.log.Warn("set mutation with no active session", "set_id", setID)
		return models.ErrNoActiveSession
	}

	idx := -1
	for i := range e.active.Sets {
		if e.active.Sets[i].ID == setID {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.log.Warn("set not found", "set_id", setID)
		return models.ErrSetNotFound
	}

	prev := e.active.Clone()
	fn(&e.active.Sets[idx])
	if err := e.persistActive(ctx); err != nil {
		e.active = prev
		return err
	}
	e.rev++
	return nil
}

// SkipSet removes the set entirely; a skipped set leaves no trace in the
// eventual history.
func (e *Engine) SkipSet(ctx context.Context, setID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		e.log.Warn("skip with no active session", "set_id", setID)
		return models.ErrNoActiveSession
	}

	idx := -1
	for i := range e.active.Sets {
		if e.active.Sets[i].ID == setID {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.log.Warn("set not found", "set_id", setID)
		return models.ErrSetNotFound
	}

	prev := e.active.Clone()
	e.active.Sets = append(e.active.Sets[:idx], e.active.Sets[idx+1:]...)
	if err := e.persistActive(ctx); err != nil {
		e.active = prev
		return err
	}
	e.rev++
	return nil
}

// SetNotes replaces the session notes. Notes are persisted immediately so
// a crash mid-session loses nothing.
func (e *Engine) SetNotes(ctx context.Context, notes string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return models.ErrNoActiveSession
	}

	prev := e.active.Notes
	e.active.Notes = notes
	if err := e.persistActive(ctx); err != nil {
		e.active.Notes = prev
		return err
	}
	e.rev++
	return nil
}

// NavigateToExercise moves the cursor to the exercise with the given id.
// Unknown ids are a no-op.
func (e *Engine) NavigateToExercise(ctx context.Context, exerciseID string) error {
	return e.navigate(ctx, func(s *models.WorkoutSession) int {
		for i, id := range s.ExerciseSequence {
			if id == exerciseID {
				return i
			}
		}
		return s.CurrentExerciseIndex
	})
}

// NavigateNext moves the cursor forward, clamped at the last exercise.
func (e *Engine) NavigateNext(ctx context.Context) error {
	return e.navigate(ctx, func(s *models.WorkoutSession) int {
		if s.CurrentExerciseIndex < len(s.ExerciseSequence)-1 {
			return s.CurrentExerciseIndex + 1
		}
		return s.CurrentExerciseIndex
	})
}

// NavigatePrevious moves the cursor back, clamped at the first exercise.
func (e *Engine) NavigatePrevious(ctx context.Context) error {
	return e.navigate(ctx, func(s *models.WorkoutSession) int {
		if s.CurrentExerciseIndex > 0 {
			return s.CurrentExerciseIndex - 1
		}
		return s.CurrentExerciseIndex
	})
}

func (e *Engine) navigate(ctx context.Context, next func(*models.WorkoutSession) int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return models.ErrNoActiveSession
	}

	idx := next(e.active)
	if idx == e.active.CurrentExerciseIndex {
		return nil
	}

	prev := e.active.CurrentExerciseIndex
	e.active.CurrentExerciseIndex = idx
	if err := e.persistActive(ctx); err != nil {
		e.active.CurrentExerciseIndex = prev
		return err
	}
	e.rev++
	return nil
}

// EndSession finalizes the active session: stamps the end time, computes
// the whole-second duration, prepends the session to history and clears
// the singleton. Returns the finalized session.
func (e *Engine) EndSession(ctx context.Context) (*models.WorkoutSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return nil, models.ErrNoActiveSession
	}

	end := e.Now()
	total := int(end.Sub(e.active.StartTime).Seconds())

	finalized := e.active.Clone()
	finalized.EndTime = &end
	finalized.TotalTimeSeconds = &total

	prevHistory := e.history
	e.history = append([]models.WorkoutSession{*finalized}, e.history...)
	if err := storage.SaveJSON(ctx, e.store, storage.KeyHistory, e.history); err != nil {
		e.history = prevHistory
		return nil, err
	}

	prevActive := e.active
	e.active = nil
	if err := e.store.Remove(ctx, storage.KeyActiveSession); err != nil {
		e.active = prevActive
		e.history = prevHistory
		if rerr := storage.SaveJSON(ctx, e.store, storage.KeyHistory, prevHistory); rerr != nil {
			e.log.Error("history rollback failed", "error", rerr)
		}
		return nil, fmt.Errorf("clearing active session: %w", err)
	}

	e.rev++
	e.log.Info("session ended", "id", finalized.ID, "duration_sec", total, "sets", len(finalized.Sets))
	return finalized, nil
}

// CancelSession clears the active session without writing anything to
// history.
func (e *Engine) CancelSession(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return models.ErrNoActiveSession
	}

	prev := e.active
	e.active = nil
	if err := e.store.Remove(ctx, storage.KeyActiveSession); err != nil {
		e.active = prev
		return fmt.Errorf("clearing active session: %w", err)
	}
	e.rev++
	e.log.Info("session cancelled", "id", prev.ID)
	return nil
}

// SaveAsTemplate captures the active session's exercise sequence and plan
// overrides as a new template, then clears the active session without
// writing it to history. The clear is deliberate: saving ends the
// in-progress workout.
func (e *Engine) SaveAsTemplate(ctx context.Context, name string) (*models.SavedTemplate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active == nil {
		return nil, models.ErrNoActiveSession
	}
	if len(e.active.ExerciseSequence) == 0 {
		return nil, models.ErrEmptyExerciseSet
	}

	tmpl := models.SavedTemplate{
		ID:               uuid.NewString(),
		Name:             name,
		ExerciseSequence: append([]string(nil), e.active.ExerciseSequence...),
		TypeTag:          e.active.TypeTag,
		CreatedAt:        e.Now(),
		PlanOverrides:    append([]models.PlanOverride(nil), e.active.PlanOverrides...),
	}

	prevTemplates := e.templates
	e.templates = append(append([]models.SavedTemplate(nil), e.templates...), tmpl)
	if err := storage.SaveJSON(ctx, e.store, storage.KeyTemplates, e.templates); err != nil {
		e.templates = prevTemplates
		return nil, err
	}

	prevActive := e.active
	e.active = nil
	if err := e.store.Remove(ctx, storage.KeyActiveSession); err != nil {
		e.active = prevActive
		e.templates = prevTemplates
		if rerr := storage.SaveJSON(ctx, e.store, storage.KeyTemplates, prevTemplates); rerr != nil {
			e.log.Error("template rollback failed", "error", rerr)
		}
		return nil, fmt.Errorf("clearing active session: %w", err)
	}

	e.rev++
	e.log.Info("session saved as template", "template_id", tmpl.ID, "name", name)
	return &tmpl, nil
}

// Active returns a copy of the active session, or nil.
func (e *Engine) Active() *models.WorkoutSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active.Clone()
}

// History returns the finalized sessions, most recent first.
func (e *Engine) History() []models.WorkoutSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.WorkoutSession(nil), e.history...)
}

// HistoryByID returns the finalized session with the given id.
func (e *Engine) HistoryByID(id string) (models.WorkoutSession, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.history {
		if s.ID == id {
			return s, true
		}
	}
	return models.WorkoutSession{}, false
}

// SessionsOnDay returns the finalized sessions whose start falls on the
// given calendar day.
func (e *Engine) SessionsOnDay(day string) []models.WorkoutSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []models.WorkoutSession
	for _, s := range e.history {
		if models.DayOf(s.StartTime) == day {
			out = append(out, s)
		}
	}
	return out
}

// Templates returns the saved templates.
func (e *Engine) Templates() []models.SavedTemplate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.SavedTemplate(nil), e.templates...)
}

// TemplateByID returns the template with the given id.
func (e *Engine) TemplateByID(id string) (models.SavedTemplate, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.templates {
		if t.ID == id {
			return t, true
		}
	}
	return models.SavedTemplate{}, false
}

// persistActive writes the active-session snapshot, or removes the key
// when no session is active. Caller holds the lock.
func (e *Engine) persistActive(ctx context.Context) error {
	if e.active == nil {
		if err := e.store.Remove(ctx, storage.KeyActiveSession); err != nil {
			return fmt.Errorf("clearing active session: %w", err)
		}
		return nil
	}
	return storage.SaveJSON(ctx, e.store, storage.KeyActiveSession, e.active)
}

// filterExerciseIDs trims whitespace and drops empty ids.
func filterExerciseIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
