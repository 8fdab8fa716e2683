package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// LoadJSON reads and decodes the value at key. A missing key yields the
// zero value, not an error.
func LoadJSON[T any](ctx context.Context, s Store, key string) (T, error) {
	var v T
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("loading %s: %w", key, err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decoding %s: %w", key, err)
	}
	return v, nil
}

// SaveJSON encodes v and writes it at key.
func SaveJSON[T any](ctx context.Context, s Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("storing %s: %w", key, err)
	}
	return nil
}
