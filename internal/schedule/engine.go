// Package schedule owns the calendar of scheduled workouts: status
// derivation against wall-clock time, due-notification dispatch, and the
// resolution of a schedule entry into a session start request.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
)

// Day statuses reported by StatusesForDay. Several can coexist on one day.
const (
	StatusCompleted = "completed"
	StatusMissed    = "missed"
	StatusScheduled = "scheduled"
)

// dueWindow is how long after its due instant an entry still counts as
// newly due.
const dueWindow = time.Minute

// HistoryReader is the slice of the session engine the schedule needs:
// classifying days and dereferencing existing-workout linkage.
type HistoryReader interface {
	SessionsOnDay(day string) []models.WorkoutSession
	HistoryByID(id string) (models.WorkoutSession, bool)
}

// TemplateReader dereferences template linkage.
type TemplateReader interface {
	TemplateByID(id string) (models.SavedTemplate, bool)
}

// Engine is the single owner of the scheduled-workout collection and the
// acknowledged-notification set.
type Engine struct {
	store     storage.Store
	history   HistoryReader
	templates TemplateReader
	log       *slog.Logger

	// Now is the clock used for reconciliation. Tests swap it out.
	Now func() time.Time

	mu       sync.Mutex
	entries  []models.ScheduledWorkout
	notified map[string]bool
}

// NewEngine creates a schedule engine over the given store and readers.
func NewEngine(store storage.Store, history HistoryReader, templates TemplateReader, log *slog.Logger) *Engine {
	return &Engine{
		store:     store,
		history:   history,
		templates: templates,
		log:       log,
		Now:       time.Now,
		notified:  make(map[string]bool),
	}
}

// Load restores the schedule and the acknowledged-notification set, then
// runs a reconciliation pass. Call once before serving.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	entries, err := storage.LoadJSON[[]models.ScheduledWorkout](ctx, e.store, storage.KeySchedule)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	notified, err := storage.LoadJSON[[]string](ctx, e.store, storage.KeyNotified)
	if err != nil {
		e.mu.Unlock()
		return err
	}

	e.entries = entries
	e.notified = make(map[string]bool, len(notified))
	for _, id := range notified {
		e.notified[id] = true
	}
	e.mu.Unlock()

	_, err = e.ReconcileMissed(ctx, e.Now())
	return err
}

// Request describes a workout to schedule. At most one of TemplateID,
// PlanID and ExistingWorkoutID should be set, or Exercises when none
// applies; the engine stores what it is given — exclusivity is the
// caller's responsibility.
type Request struct {
	Date              string
	TypeTag           string
	Time              string
	TemplateID        *string
	PlanID            *string
	ExistingWorkoutID *string
	Exercises         []string
}

// Schedule creates a new scheduled workout, neither completed nor missed,
// and runs a reconciliation pass over the updated list.
func (e *Engine) Schedule(ctx context.Context, req Request) (*models.ScheduledWorkout, error) {
	if _, err := models.ParseDay(req.Date); err != nil {
		return nil, err
	}
	if req.Time != "" {
		if _, err := models.DueInstant(req.Date, req.Time); err != nil {
			return nil, err
		}
	}

	e.mu.Lock()
	entry := models.ScheduledWorkout{
		ID:                uuid.NewString(),
		Date:              req.Date,
		TypeTag:           req.TypeTag,
		Time:              req.Time,
		TemplateID:        req.TemplateID,
		PlanID:            req.PlanID,
		ExistingWorkoutID: req.ExistingWorkoutID,
		Exercises:         append([]string(nil), req.Exercises...),
	}

	prev := e.entries
	e.entries = append(append([]models.ScheduledWorkout(nil), e.entries...), entry)
	if err := e.persistEntries(ctx); err != nil {
		e.entries = prev
		e.mu.Unlock()
		return nil, err
	}
	e.log.Info("workout scheduled", "id", entry.ID, "date", entry.Date, "type", entry.TypeTag)
	e.mu.Unlock()

	if _, err := e.ReconcileMissed(ctx, e.Now()); err != nil {
		e.log.Warn("reconcile after schedule failed", "error", err)
	}
	return &entry, nil
}

// ReconcileMissed marks every uncompleted, unmissed entry dated strictly
// before the reference day as missed, and prunes acknowledged
// notification ids whose entry is gone, completed or missed. Idempotent
// and monotonic: an entry is never un-missed. Returns the number of
// entries newly marked.
func (e *Engine) ReconcileMissed(ctx context.Context, ref time.Time) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := models.StartOfDay(ref)
	marked := 0
	updated := append([]models.ScheduledWorkout(nil), e.entries...)
	for i := range updated {
		w := &updated[i]
		if w.Completed || w.Missed {
			continue
		}
		day, err := models.ParseDay(w.Date)
		if err != nil {
			e.log.Warn("unparseable schedule date", "id", w.ID, "date", w.Date)
			continue
		}
		if day.Before(cutoff) {
			w.Missed = true
			marked++
		}
	}

	prevEntries, prevNotified := e.entries, e.notified
	pruned := e.pruneNotifiedLocked(updated)

	if marked == 0 && pruned == 0 {
		return 0, nil
	}

	e.entries = updated
	if marked > 0 {
		if err := e.persistEntries(ctx); err != nil {
			e.entries, e.notified = prevEntries, prevNotified
			return 0, err
		}
	}
	if pruned > 0 {
		if err := e.persistNotified(ctx); err != nil {
			// Entries already written; the notified set stays stale in
			// the store until the next pass retries it.
			e.log.Warn("persisting notified set failed", "error", err)
		}
	}

	if marked > 0 {
		e.log.Info("reconciled schedule", "newly_missed", marked)
	}
	return marked, nil
}

// pruneNotifiedLocked drops acknowledged ids that can never become due
// again. Caller holds the lock. Returns the number pruned.
func (e *Engine) pruneNotifiedLocked(entries []models.ScheduledWorkout) int {
	if len(e.notified) == 0 {
		return 0
	}
	live := make(map[string]bool, len(entries))
	for _, w := range entries {
		if !w.Completed && !w.Missed {
			live[w.ID] = true
		}
	}
	next := make(map[string]bool, len(e.notified))
	for id := range e.notified {
		if live[id] {
			next[id] = true
		}
	}
	pruned := len(e.notified) - len(next)
	if pruned > 0 {
		e.notified = next
	}
	return pruned
}

// DueNotifications returns the entries newly due at ref: non-completed,
// non-missed, with a scheduled time no more than a minute in the past,
// and not yet acknowledged. Pure derivation; call Acknowledge once the
// notifications are dispatched.
func (e *Engine) DueNotifications(ref time.Time) []models.ScheduledWorkout {
	e.mu.Lock()
	defer e.mu.Unlock()

	var due []models.ScheduledWorkout
	for _, w := range e.entries {
		if w.Completed || w.Missed || w.Time == "" || e.notified[w.ID] {
			continue
		}
		instant, err := models.DueInstant(w.Date, w.Time)
		if err != nil {
			continue
		}
		elapsed := ref.Sub(instant)
		if elapsed >= 0 && elapsed < dueWindow {
			due = append(due, w)
		}
	}
	return due
}

// Acknowledge records that notifications for the given ids were
// dispatched, guaranteeing at-most-one notification per entry.
func (e *Engine) Acknowledge(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.notified
	next := make(map[string]bool, len(prev)+len(ids))
	for id := range prev {
		next[id] = true
	}
	for _, id := range ids {
		next[id] = true
	}
	e.notified = next
	if err := e.persistNotified(ctx); err != nil {
		e.notified = prev
		return err
	}
	return nil
}

// StatusesForDay returns the union of statuses for a calendar day: any
// finalized session on that day contributes "completed", and each
// scheduled entry contributes per its flags.
func (e *Engine) StatusesForDay(day string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := make(map[string]bool, 3)
	if len(e.history.SessionsOnDay(day)) > 0 {
		seen[StatusCompleted] = true
	}
	for _, w := range e.entries {
		if w.Date != day {
			continue
		}
		switch {
		case w.Completed:
			seen[StatusCompleted] = true
		case w.Missed:
			seen[StatusMissed] = true
		default:
			seen[StatusScheduled] = true
		}
	}

	var out []string
	for _, s := range []string{StatusCompleted, StatusMissed, StatusScheduled} {
		if seen[s] {
			out = append(out, s)
		}
	}
	return out
}

// Performable is a schedule entry resolved into a session start request.
type Performable struct {
	ScheduleID    string
	TypeTag       string
	ExerciseIDs   []string
	PlanOverrides []models.PlanOverride
}

// ResolvePerformable dereferences the entry's linkage into the exercises
// to perform. Future-dated entries are rejected with
// models.ErrFutureWorkout; dangling template or workout references yield
// models.ErrBrokenLinkage. Plan linkage is resolved by the caller, not
// here.
func (e *Engine) ResolvePerformable(id string, ref time.Time) (*Performable, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.byIDLocked(id)
	if !ok {
		return nil, models.ErrNotFound
	}

	day, err := models.ParseDay(entry.Date)
	if err != nil {
		return nil, err
	}
	if day.After(models.StartOfDay(ref)) {
		return nil, models.ErrFutureWorkout
	}

	p := &Performable{ScheduleID: entry.ID, TypeTag: entry.TypeTag}
	switch {
	case entry.TemplateID != nil:
		tmpl, ok := e.templates.TemplateByID(*entry.TemplateID)
		if !ok {
			return nil, fmt.Errorf("template %s: %w", *entry.TemplateID, models.ErrBrokenLinkage)
		}
		p.ExerciseIDs = append([]string(nil), tmpl.ExerciseSequence...)
		p.PlanOverrides = append([]models.PlanOverride(nil), tmpl.PlanOverrides...)
	case entry.ExistingWorkoutID != nil:
		past, ok := e.history.HistoryByID(*entry.ExistingWorkoutID)
		if !ok {
			return nil, fmt.Errorf("workout %s: %w", *entry.ExistingWorkoutID, models.ErrBrokenLinkage)
		}
		p.ExerciseIDs = append([]string(nil), past.ExerciseSequence...)
		p.PlanOverrides = append([]models.PlanOverride(nil), past.PlanOverrides...)
	case entry.PlanID != nil:
		return nil, fmt.Errorf("plan %s is caller-resolved: %w", *entry.PlanID, models.ErrBrokenLinkage)
	default:
		p.ExerciseIDs = append([]string(nil), entry.Exercises...)
	}

	return p, nil
}

// MarkCompleted flags the entry completed. Idempotent; completion never
// reverts. A previously-missed entry that gets performed after all loses
// its missed flag so the two are never both set.
func (e *Engine) MarkCompleted(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i := range e.entries {
		if e.entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.ErrNotFound
	}
	if e.entries[idx].Completed {
		return nil
	}

	prev := e.entries
	updated := append([]models.ScheduledWorkout(nil), e.entries...)
	updated[idx].Completed = true
	updated[idx].Missed = false
	e.entries = updated
	if err := e.persistEntries(ctx); err != nil {
		e.entries = prev
		return err
	}
	e.log.Info("scheduled workout completed", "id", id)
	return nil
}

// Delete removes a schedule entry and its acknowledged-notification id.
func (e *Engine) Delete(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i := range e.entries {
		if e.entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.ErrNotFound
	}

	prevEntries, prevNotified := e.entries, e.notified
	updated := append([]models.ScheduledWorkout(nil), e.entries...)
	e.entries = append(updated[:idx], updated[idx+1:]...)
	if err := e.persistEntries(ctx); err != nil {
		e.entries = prevEntries
		return err
	}

	if e.notified[id] {
		next := make(map[string]bool, len(e.notified))
		for nid := range e.notified {
			if nid != id {
				next[nid] = true
			}
		}
		e.notified = next
		if err := e.persistNotified(ctx); err != nil {
			e.notified = prevNotified
			e.log.Warn("persisting notified set failed", "error", err)
		}
	}
	return nil
}

// Entries returns all schedule entries.
func (e *Engine) Entries() []models.ScheduledWorkout {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.ScheduledWorkout(nil), e.entries...)
}

// ByID returns the schedule entry with the given id.
func (e *Engine) ByID(id string) (models.ScheduledWorkout, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.byIDLocked(id)
}

func (e *Engine) byIDLocked(id string) (models.ScheduledWorkout, bool) {
	for _, w := range e.entries {
		if w.ID == id {
			return w, true
		}
	}
	return models.ScheduledWorkout{}, false
}

func (e *Engine) persistEntries(ctx context.Context) error {
	return storage.SaveJSON(ctx, e.store, storage.KeySchedule, e.entries)
}

func (e *Engine) persistNotified(ctx context.Context) error {
	ids := make([]string, 0, len(e.notified))
	for id := range e.notified {
		ids = append(ids, id)
	}
	return storage.SaveJSON(ctx, e.store, storage.KeyNotified, ids)
}
