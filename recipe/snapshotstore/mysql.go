package snapshotstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/CoReason-AI/coreason-maco/recipe"
)

// MySQLStore is a production-grade Store for multi-worker deployments
// where snapshots must survive process restarts, adapted from the
// teacher engine's store.MySQLStore.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore opens a connection pool against dsn (see
// go-sql-driver/mysql's DSN format) and ensures the schema exists.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("snapshotstore: open mysql: %w", err)
	}

	s := &MySQLStore{db: db}
	if err := s.createTable(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MySQLStore) createTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS recipe_snapshots (
			run_id VARCHAR(255) PRIMARY KEY,
			snapshot JSON NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("snapshotstore: create table: %w", err)
	}
	return nil
}

// Save upserts the JSON-encoded snapshot for run_id.
func (s *MySQLStore) Save(ctx context.Context, runID string, snapshot recipe.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("snapshotstore: marshal: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipe_snapshots (run_id, snapshot) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE snapshot = VALUES(snapshot)
	`, runID, string(data))
	if err != nil {
		return fmt.Errorf("snapshotstore: save: %w", err)
	}
	return nil
}

// Load retrieves and decodes the snapshot for run_id.
func (s *MySQLStore) Load(ctx context.Context, runID string) (recipe.Snapshot, error) {
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
func (s *MySQLStore) Delete(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM recipe_snapshots WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("snapshotstore: delete: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *MySQLStore) Close() error { return s.db.Close() }
