// Package storage provides the persistent key-value store backing the
// engines. Each engine-owned list lives under its own key as an opaque
// JSON blob; the store itself knows nothing about the shapes it holds.
package storage

import (
	"context"
	"errors"
)

// Store keys. One key per engine-owned list, last write wins per key.
const (
	KeyActiveSession = "active_session"
	KeyHistory       = "workout_history"
	KeyTemplates     = "saved_templates"
	KeySchedule      = "scheduled_workouts"
	KeyNotified      = "notified_ids"
	KeyMeasurements  = "body_measurements"
)

// ErrKeyNotFound is returned by Get for keys with no value.
var ErrKeyNotFound = errors.New("key not found")

// Store is an opaque byte store with last-write-wins semantics per key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}
