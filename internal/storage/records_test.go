package storage

import (
	"context"
	"errors"
	"testing"
)

// TestLoadJSONMissingKey verifies a missing key yields the zero value
// instead of an error, so engines start empty on first run.
func TestLoadJSONMissingKey(t *testing.T) {
	s := NewMemoryStore()
	got, err := LoadJSON[[]string](context.Background(), s, KeyHistory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil slice for missing key", got)
	}
}

// TestSaveLoadJSON verifies a value survives the encode/store/decode trip.
func TestSaveLoadJSON(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	type entry struct {
		ID   string `json:"id"`
		Kind string `json:"kind"`
	}
	in := []entry{{ID: "a", Kind: "x"}, {ID: "b", Kind: "y"}}
	if err := SaveJSON(ctx, s, KeySchedule, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := LoadJSON[[]entry](ctx, s, KeySchedule)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].Kind != "y" {
		t.Errorf("got %v, want %v", out, in)
	}
}

// TestLoadJSONCorruptValue verifies undecodable bytes surface as an error
// rather than a silent zero value.
func TestLoadJSONCorruptValue(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.Set(ctx, KeyHistory, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadJSON[[]string](ctx, s, KeyHistory); err == nil {
		t.Fatal("expected decode error")
	}
}

// TestMemoryStoreIsolation verifies Get returns a copy, so callers cannot
// mutate stored bytes in place.
func TestMemoryStoreIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.Set(ctx, "k", []byte("abc")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	got[0] = 'z'
	again, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != "abc" {
		t.Errorf("stored value = %q, want %q", again, "abc")
	}
}

// TestMemoryStoreRemove verifies removed keys read as not found and that
// removing an absent key is not an error.
func TestMemoryStoreRemove(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("get after remove: err = %v, want ErrKeyNotFound", err)
	}
	if err := s.Remove(ctx, "k"); err != nil {
		t.Errorf("remove absent key: %v", err)
	}
}
