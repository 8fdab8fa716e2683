package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Notifier dispatches a user-facing notification. Fire and forget: no
// return value, no retry.
type Notifier interface {
	Notify(message string)
}

// LogNotifier writes notifications to the log. It is the default when no
// external notifier is configured.
type LogNotifier struct {
	Log *slog.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(message string) {
	n.Log.Info("notification", "message", message)
}

// Runner drives the engine's time-based work: the missed-reconciliation
// pass and the due-notification poll. Each tick is independent and
// non-blocking; the runner stops before the next tick when its context
// is cancelled, never mid-tick.
type Runner struct {
	engine   *Engine
	notifier Notifier
	log      *slog.Logger
	interval time.Duration
}

// NewRunner creates a runner polling at the given interval.
func NewRunner(engine *Engine, notifier Notifier, interval time.Duration, log *slog.Logger) *Runner {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Runner{engine: engine, notifier: notifier, log: log, interval: interval}
}

// Run ticks until ctx is cancelled. Blocks; run it in a goroutine.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	now := r.engine.Now()

	if _, err := r.engine.ReconcileMissed(ctx, now); err != nil {
		r.log.Warn("reconcile tick failed", "error", err)
	}

	due := r.engine.DueNotifications(now)
	if len(due) == 0 {
		return
	}

	ids := make([]string, 0, len(due))
	for _, w := range due {
		label := w.TypeTag
		if label == "" {
			label = "workout"
		}
		r.notifier.Notify(fmt.Sprintf("Time for your %s workout (%s %s)", label, w.Date, w.Time))
		ids = append(ids, w.ID)
	}
	if err := r.engine.Acknowledge(ctx, ids...); err != nil {
		r.log.Warn("acknowledging notifications failed", "error", err)
	}
}
