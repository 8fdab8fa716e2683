// Package measurements keeps the body-measurement history consumed by
// the calorie estimator.
package measurements

import (
	"context"
	"log/slog"
	"sync"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
)

// Keeper owns the body-measurement list.
type Keeper struct {
	store storage.Store
	log   *slog.Logger

	mu      sync.Mutex
	entries []models.BodyMeasurement
}

// NewKeeper creates a measurement keeper over the given store.
func NewKeeper(store storage.Store, log *slog.Logger) *Keeper {
	return &Keeper{store: store, log: log}
}

// Load restores the measurement history. Call once before serving.
func (k *Keeper) Load(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	entries, err := storage.LoadJSON[[]models.BodyMeasurement](ctx, k.store, storage.KeyMeasurements)
	if err != nil {
		return err
	}
	k.entries = entries
	return nil
}

// Add records a new measurement.
func (k *Keeper) Add(ctx context.Context, m models.BodyMeasurement) (*models.BodyMeasurement, error) {
	if _, err := models.ParseDay(m.Date); err != nil {
		return nil, err
	}
	m.ID = uuid.NewString()

	k.mu.Lock()
	defer k.mu.Unlock()

	prev := k.entries
	k.entries = append(append([]models.BodyMeasurement(nil), k.entries...), m)
	if err := storage.SaveJSON(ctx, k.store, storage.KeyMeasurements, k.entries); err != nil {
		k.entries = prev
		return nil, err
	}
	k.log.Info("measurement recorded", "id", m.ID, "date", m.Date)
	return &m, nil
}

// List returns all measurements in insertion order.
func (k *Keeper) List() []models.BodyMeasurement {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]models.BodyMeasurement(nil), k.entries...)
}
