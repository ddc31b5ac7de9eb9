package snapshotstore

import (
	"context"
	"errors"
	"testing"

	"github.com/CoReason-AI/coreason-maco/recipe"
)

func TestMemStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	snap := recipe.Snapshot{"a": recipe.Output{"x": 1.0}}
	if err := store.Save(ctx, "run-1", snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, "run-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got["a"]["x"] != 1.0 {
		t.Errorf("got = %v", got)
	}
}

func TestMemStore_LoadMissingReturnsErrNotFound(t *testing.T) {
	store := NewMemStore()
	_, err := store.Load(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemStore_SaveCopiesSoCallerMutationIsIsolated(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	snap := recipe.Snapshot{"a": recipe.Output{"x": 1.0}}
	_ = store.Save(ctx, "run-1", snap)
	snap["b"] = recipe.Output{"y": 2.0}

	got, _ := store.Load(ctx, "run-1")
	if _, ok := got["b"]; ok {
		t.Error("mutating the caller's snapshot after Save should not affect the stored copy")
	}
}

func TestMemStore_Delete(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	_ = store.Save(ctx, "run-1", recipe.Snapshot{"a": recipe.Output{}})
	if err := store.Delete(ctx, "run-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, "run-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err after delete = %v, want ErrNotFound", err)
	}

	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete of missing run_id should not error, got %v", err)
	}
}
