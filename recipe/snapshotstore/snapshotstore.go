// Package snapshotstore persists the node_id → Output snapshot map a
// caller observes from NODE_DONE/COUNCIL_VOTE payloads across runs, so
// a later ExecuteRecipe call can pass it back in for resume. The engine
// itself never serializes a Snapshot (spec.md §9); this package is the
// caller-side helper, adapted from the teacher engine's graph/store
// package but narrowed to the single concern a Snapshot needs.
package snapshotstore

import (
	"context"
	"errors"

	"github.com/CoReason-AI/coreason-maco/recipe"
)

// ErrNotFound is returned when a run_id has no saved snapshot.
var ErrNotFound = errors.New("snapshotstore: not found")

// Store persists and retrieves a recipe.Snapshot keyed by run_id.
type Store interface {
	Save(ctx context.Context, runID string, snapshot recipe.Snapshot) error
	Load(ctx context.Context, runID string) (recipe.Snapshot, error)
	Delete(ctx context.Context, runID string) error
}
