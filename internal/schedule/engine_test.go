package schedule

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// fakeHistory serves canned finalized sessions.
type fakeHistory struct {
	sessions []models.WorkoutSession
}

func (f *fakeHistory) SessionsOnDay(day string) []models.WorkoutSession {
	var out []models.WorkoutSession
	for _, s := range f.sessions {
		if models.DayOf(s.StartTime) == day {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeHistory) HistoryByID(id string) (models.WorkoutSession, bool) {
	for _, s := range f.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return models.WorkoutSession{}, false
}

// fakeTemplates serves canned saved templates.
type fakeTemplates struct {
	templates []models.SavedTemplate
}

func (f *fakeTemplates) TemplateByID(id string) (models.SavedTemplate, bool) {
	for _, tmpl := range f.templates {
		if tmpl.ID == id {
			return tmpl, true
		}
	}
	return models.SavedTemplate{}, false
}

func newTestEngine(t *testing.T, history *fakeHistory, templates *fakeTemplates) (*Engine, *storage.MemoryStore) {
	t.Helper()
	if history == nil {
		history = &fakeHistory{}
	}
	if templates == nil {
		templates = &fakeTemplates{}
	}
	store := storage.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := NewEngine(store, history, templates, log)
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return e, store
}

// refTime is a fixed local reference: mid-morning so same-day schedule
// times before and after it both exist.
var refTime = time.Date(2026, 3, 10, 9, 30, 0, 0, time.Local)

func day(offset int) string {
	return models.DayOf(refTime.AddDate(0, 0, offset))
}

func mustSchedule(t *testing.T, e *Engine, req Request) *models.ScheduledWorkout {
	t.Helper()
	entry, err := e.Schedule(context.Background(), req)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	return entry
}

// TestReconcileMissed verifies that only uncompleted entries dated strictly
// before the reference day are marked missed: today's and future entries are
// untouched regardless of time of day, as are completed ones.
func TestReconcileMissed(t *testing.T) {
	e, _ := newTestEngine(t, nil, nil)
	ctx := context.Background()
	e.Now = func() time.Time { return refTime.AddDate(0, 0, -2) }

	past := mustSchedule(t, e, Request{Date: day(-1), TypeTag: "Push"})
	pastDone := mustSchedule(t, e, Request{Date: day(-1), TypeTag: "Legs"})
	today := mustSchedule(t, e, Request{Date: day(0), TypeTag: "Pull", Time: "06:00"})
	future := mustSchedule(t, e, Request{Date: day(1), TypeTag: "Core"})
	if err := e.MarkCompleted(ctx, pastDone.ID); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	marked, err := e.ReconcileMissed(ctx, refTime)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if marked != 1 {
		t.Errorf("marked = %d, want 1", marked)
	}

	check := func(id string, wantMissed, wantCompleted bool) {
		t.Helper()
		w, ok := e.ByID(id)
		if !ok {
			t.Fatalf("entry %s gone", id)
		}
		if w.Missed != wantMissed || w.Completed != wantCompleted {
			t.Errorf("entry %s: missed=%v completed=%v, want missed=%v completed=%v",
				id, w.Missed, w.Completed, wantMissed, wantCompleted)
		}
	}
	check(past.ID, true, false)
	check(pastDone.ID, false, true)
	check(today.ID, false, false)
	check(future.ID, false, false)

	// Idempotent: a second pass changes nothing.
	marked, err = e.ReconcileMissed(ctx, refTime)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if marked != 0 {
		t.Errorf("second pass marked = %d, want 0", marked)
	}
}

// TestLoadReconciles verifies that restoring the schedule from the store
// immediately runs a reconciliation pass.
func TestLoadReconciles(t *testing.T) {
	e, store := newTestEngine(t, nil, nil)
	e.Now = func() time.Time { return refTime.AddDate(0, 0, -2) }
	stale := mustSchedule(t, e, Request{Date: day(-1), TypeTag: "Push"})

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	restarted := NewEngine(store, &fakeHistory{}, &fakeTemplates{}, log)
	restarted.Now = func() time.Time { return refTime }
	if err := restarted.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	w, ok := restarted.ByID(stale.ID)
	if !ok || !w.Missed {
		t.Error("stale entry not marked missed on load")
	}
}

// TestDueNotificationsWindow verifies an entry is due from its scheduled
// instant until one minute after, and never before or beyond.
func TestDueNotificationsWindow(t *testing.T) {
	e, _ := newTestEngine(t, nil, nil)
	e.Now = func() time.Time { return refTime }
	entry := mustSchedule(t, e, Request{Date: day(0), TypeTag: "Push", Time: "10:00"})
	// An entry without a time is never due.
	mustSchedule(t, e, Request{Date: day(0), TypeTag: "Pull"})

	instant, err := models.DueInstant(entry.Date, entry.Time)
	if err != nil {
		t.Fatalf("due instant: %v", err)
	}

	cases := []struct {
		name string
		ref  time.Time
		want int
	}{
		{"one second early", instant.Add(-time.Second), 0},
		{"exactly due", instant, 1},
		{"late within window", instant.Add(59 * time.Second), 1},
		{"window closed", instant.Add(time.Minute), 0},
	}
	for _, tc := range cases {
		if got := len(e.DueNotifications(tc.ref)); got != tc.want {
			t.Errorf("%s: due = %d, want %d", tc.name, got, tc.want)
		}
	}
}

// TestAcknowledgeOnce verifies an acknowledged entry never becomes due
// again, and that a failed acknowledgement write leaves it due.
func TestAcknowledgeOnce(t *testing.T) {
	e, store := newTestEngine(t, nil, nil)
	ctx := context.Background()
	e.Now = func() time.Time { return refTime }
	entry := mustSchedule(t, e, Request{Date: day(0), TypeTag: "Push", Time: "10:00"})

	instant, _ := models.DueInstant(entry.Date, entry.Time)
	if got := len(e.DueNotifications(instant)); got != 1 {
		t.Fatalf("due = %d, want 1", got)
	}

	store.FailNextSet = errors.New("disk full")
	if err := e.Acknowledge(ctx, entry.ID); err == nil {
		t.Fatal("expected acknowledge write failure to surface")
	}
	if got := len(e.DueNotifications(instant)); got != 1 {
		t.Errorf("due after failed ack = %d, want 1", got)
	}

	if err := e.Acknowledge(ctx, entry.ID); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if got := len(e.DueNotifications(instant)); got != 0 {
		t.Errorf("due after ack = %d, want 0", got)
	}
}

// TestNotifiedPruning verifies that acknowledged ids for entries that can
// never become due again are dropped from the persisted set.
func TestNotifiedPruning(t *testing.T) {
	e, store := newTestEngine(t, nil, nil)
	ctx := context.Background()
	e.Now = func() time.Time { return refTime.AddDate(0, 0, -1) }
	entry := mustSchedule(t, e, Request{Date: day(-1), TypeTag: "Push", Time: "10:00"})
	if err := e.Acknowledge(ctx, entry.ID); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}

	if _, err := e.ReconcileMissed(ctx, refTime); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	ids, err := storage.LoadJSON[[]string](ctx, store, storage.KeyNotified)
	if err != nil {
		t.Fatalf("load notified: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("notified ids = %v, want empty after prune", ids)
	}
}

// TestStatusesForDay verifies a day reports the union of its statuses, with
// finalized sessions contributing "completed" independently of the schedule.
func TestStatusesForDay(t *testing.T) {
	history := &fakeHistory{sessions: []models.WorkoutSession{
		{ID: "w1", StartTime: refTime.Add(-2 * time.Hour)},
	}}
	e, _ := newTestEngine(t, history, nil)
	ctx := context.Background()
	e.Now = func() time.Time { return refTime.AddDate(0, 0, -1) }

	missed := mustSchedule(t, e, Request{Date: day(-1), TypeTag: "Push"})
	mustSchedule(t, e, Request{Date: day(0), TypeTag: "Pull"})
	if _, err := e.ReconcileMissed(ctx, refTime); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if w, _ := e.ByID(missed.ID); !w.Missed {
		t.Fatal("setup: entry not missed")
	}

	got := e.StatusesForDay(day(0))
	want := []string{StatusCompleted, StatusScheduled}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("statuses = %v, want %v", got, want)
	}

	if got := e.StatusesForDay(day(-1)); len(got) != 1 || got[0] != StatusMissed {
		t.Errorf("yesterday statuses = %v, want [missed]", got)
	}
	if got := e.StatusesForDay(day(5)); len(got) != 0 {
		t.Errorf("empty day statuses = %v, want none", got)
	}
}

// TestResolvePerformable verifies each linkage kind resolves to the right
// exercises, dangling references are rejected, and future entries cannot be
// performed.
func TestResolvePerformable(t *testing.T) {
	history := &fakeHistory{sessions: []models.WorkoutSession{
		{ID: "w1", ExerciseSequence: []string{"deadlift", "barbell-row"}, StartTime: refTime.AddDate(0, 0, -7)},
	}}
	templates := &fakeTemplates{templates: []models.SavedTemplate{
		{ID: "t1", ExerciseSequence: []string{"bench-press", "chest-fly"}},
	}}
	e, _ := newTestEngine(t, history, templates)
	e.Now = func() time.Time { return refTime }

	t1 := "t1"
	w1 := "w1"
	dangling := "nope"
	plan := "p1"

	raw := mustSchedule(t, e, Request{Date: day(0), TypeTag: "Push", Exercises: []string{"squat"}})
	fromTemplate := mustSchedule(t, e, Request{Date: day(0), TypeTag: "Push", TemplateID: &t1})
	fromWorkout := mustSchedule(t, e, Request{Date: day(0), TypeTag: "Pull", ExistingWorkoutID: &w1})
	badTemplate := mustSchedule(t, e, Request{Date: day(0), TypeTag: "Push", TemplateID: &dangling})
	fromPlan := mustSchedule(t, e, Request{Date: day(0), TypeTag: "Push", PlanID: &plan})
	future := mustSchedule(t, e, Request{Date: day(1), TypeTag: "Push", Exercises: []string{"squat"}})

	p, err := e.ResolvePerformable(raw.ID, refTime)
	if err != nil {
		t.Fatalf("resolve raw: %v", err)
	}
	if p.ScheduleID != raw.ID || len(p.ExerciseIDs) != 1 || p.ExerciseIDs[0] != "squat" {
		t.Errorf("raw performable = %+v", p)
	}

	p, err = e.ResolvePerformable(fromTemplate.ID, refTime)
	if err != nil {
		t.Fatalf("resolve template: %v", err)
	}
	if len(p.ExerciseIDs) != 2 || p.ExerciseIDs[0] != "bench-press" {
		t.Errorf("template performable = %+v", p)
	}

	p, err = e.ResolvePerformable(fromWorkout.ID, refTime)
	if err != nil {
		t.Fatalf("resolve workout: %v", err)
	}
	if len(p.ExerciseIDs) != 2 || p.ExerciseIDs[0] != "deadlift" {
		t.Errorf("workout performable = %+v", p)
	}

	if _, err := e.ResolvePerformable(badTemplate.ID, refTime); !errors.Is(err, models.ErrBrokenLinkage) {
		t.Errorf("dangling template: err = %v, want ErrBrokenLinkage", err)
	}
	if _, err := e.ResolvePerformable(fromPlan.ID, refTime); !errors.Is(err, models.ErrBrokenLinkage) {
		t.Errorf("plan linkage: err = %v, want ErrBrokenLinkage", err)
	}
	if _, err := e.ResolvePerformable(future.ID, refTime); !errors.Is(err, models.ErrFutureWorkout) {
		t.Errorf("future entry: err = %v, want ErrFutureWorkout", err)
	}
	if _, err := e.ResolvePerformable("no-such-entry", refTime); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown entry: err = %v, want ErrNotFound", err)
	}
}

// TestMarkCompletedClearsMissed verifies completion wins over missed and
// never reverts.
func TestMarkCompletedClearsMissed(t *testing.T) {
	e, _ := newTestEngine(t, nil, nil)
	ctx := context.Background()
	e.Now = func() time.Time { return refTime.AddDate(0, 0, -1) }
	entry := mustSchedule(t, e, Request{Date: day(-1), TypeTag: "Push"})

	if _, err := e.ReconcileMissed(ctx, refTime); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if err := e.MarkCompleted(ctx, entry.ID); err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	w, _ := e.ByID(entry.ID)
	if !w.Completed || w.Missed {
		t.Errorf("entry: completed=%v missed=%v, want completed and not missed", w.Completed, w.Missed)
	}

	// Idempotent, and a later reconcile never un-completes it.
	if err := e.MarkCompleted(ctx, entry.ID); err != nil {
		t.Fatalf("second mark: %v", err)
	}
	if _, err := e.ReconcileMissed(ctx, refTime.AddDate(0, 0, 5)); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	w, _ = e.ByID(entry.ID)
	if !w.Completed || w.Missed {
		t.Error("completion reverted by reconcile")
	}

	if err := e.MarkCompleted(ctx, "no-such-entry"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown entry: err = %v, want ErrNotFound", err)
	}
}

// TestDelete verifies removal of an entry and its acknowledged id.
func TestDelete(t *testing.T) {
	e, _ := newTestEngine(t, nil, nil)
	ctx := context.Background()
	e.Now = func() time.Time { return refTime }
	entry := mustSchedule(t, e, Request{Date: day(0), TypeTag: "Push", Time: "10:00"})
	if err := e.Acknowledge(ctx, entry.ID); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}

	if err := e.Delete(ctx, entry.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := e.ByID(entry.ID); ok {
		t.Error("entry still present after delete")
	}
	if err := e.Delete(ctx, entry.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}

// TestScheduleValidation verifies malformed dates and times are rejected
// before any state changes.
func TestScheduleValidation(t *testing.T) {
	e, _ := newTestEngine(t, nil, nil)
	ctx := context.Background()

	if _, err := e.Schedule(ctx, Request{Date: "03/10/2026", TypeTag: "Push"}); err == nil {
		t.Error("expected error for malformed date")
	}
	if _, err := e.Schedule(ctx, Request{Date: day(0), Time: "25:99", TypeTag: "Push"}); err == nil {
		t.Error("expected error for malformed time")
	}
	if got := len(e.Entries()); got != 0 {
		t.Errorf("entries = %d, want 0", got)
	}
}
