package snapshotstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/CoReason-AI/coreason-maco/recipe"
)

// SQLiteStore is a single-file, zero-setup Store backed by
// modernc.org/sqlite, adapted from the teacher engine's
// store.SQLiteStore. Good for local development and single-process
// deployments; see MySQLStore for multi-worker production use.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if absent) the database at path and
// ensures its schema exists. path may be ":memory:" for an ephemeral,
// process-local database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("snapshotstore: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("snapshotstore: enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("snapshotstore: set busy_timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS recipe_snapshots (
			run_id TEXT PRIMARY KEY,
			snapshot TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("snapshotstore: create table: %w", err)
	}
	return nil
}

// Save upserts the JSON-encoded snapshot for run_id.
func (s *SQLiteStore) Save(ctx context.Context, runID string, snapshot recipe.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("snapshotstore: marshal: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipe_snapshots (run_id, snapshot) VALUES (?, ?)
		ON CONFLICT(run_id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = CURRENT_TIMESTAMP
	`, runID, string(data))
	if err != nil {
		return fmt.Errorf("snapshotstore: save: %w", err)
	}
	return nil
}

// Load retrieves and decodes the snapshot for run_id.
func (s *SQLiteStore) Load(ctx context.Context, runID string) (recipe.Snapshot, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM recipe_snapshots WHERE run_id = ?`, runID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("snapshotstore: load: %w", err)
	}

	var snap recipe.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("snapshotstore: unmarshal: %w", err)
	}
	return snap, nil
}

// Delete removes the row for run_id, if any.
func (s *SQLiteStore) Delete(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM recipe_snapshots WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("snapshotstore: delete: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
