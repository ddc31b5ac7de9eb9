package snapshotstore

import (
	"context"
	"sync"

	"github.com/CoReason-AI/coreason-maco/recipe"
)

// MemStore is an in-memory Store, thread-safe and suitable for tests
// and single-process development, adapted from the teacher engine's
// store.MemStore.
type MemStore struct {
	mu        sync.RWMutex
	snapshots map[string]recipe.Snapshot
}

// NewMemStore builds an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{snapshots: make(map[string]recipe.Snapshot)}
}

// Save stores a copy of snapshot under run_id, overwriting any prior value.
func (m *MemStore) Save(_ context.Context, runID string, snapshot recipe.Snapshot) error {
	cp := make(recipe.Snapshot, len(snapshot))
	for k, v := range snapshot {
		cp[k] = v
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[runID] = cp
	return nil
}

// Load retrieves the snapshot saved for run_id.
func (m *MemStore) Load(_ context.Context, runID string) (recipe.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[runID]
	if !ok {
		return nil, ErrNotFound
	}
	return snap, nil
}

// Delete removes any snapshot saved for run_id. It is not an error to
// delete a run_id with no saved snapshot.
func (m *MemStore) Delete(_ context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, runID)
	return nil
}
