// Package storage persists serialized scene snapshots in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when no snapshot matches a query.
var ErrNotFound = errors.New("storage: snapshot not found")

// Store manages the SQLite database connection for snapshots.
type Store struct {
	db *sql.DB
}

// Snapshot is one saved scene state.
type Snapshot struct {
	ID        int64
	Scene     string
	Label     string
	Data      []byte
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scene TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			data BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_scene ON snapshots(scene, id DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save records a snapshot of the named scene and returns its id.
func (s *Store) Save(scene, label string, data []byte) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO snapshots (scene, label, data) VALUES (?, ?, ?)",
		scene, label, data,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save snapshot: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// Load returns the snapshot with the given id.
func (s *Store) Load(id int64) (Snapshot, error) {
	row := s.db.QueryRow(
		"SELECT id, scene, label, data, created_at FROM snapshots WHERE id = ?", id,
	)
	return scanSnapshot(row)
}

// Latest returns the most recent snapshot of the named scene.
func (s *Store) Latest(scene string) (Snapshot, error) {
	row := s.db.QueryRow(
		`SELECT id, scene, label, data, created_at
		 FROM snapshots
		 WHERE scene = ?
		 ORDER BY id DESC
		 LIMIT 1`,
		scene,
	)
	return scanSnapshot(row)
}

// List returns snapshot metadata, newest first, without the data. An empty
// scene lists every scene. A non-positive limit means no limit.
func (s *Store) List(scene string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT id, scene, label, created_at
		 FROM snapshots
		 WHERE ? = '' OR scene = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		scene, scene, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var createdAt any
		if err := rows.Scan(&snap.ID, &snap.Scene, &snap.Label, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		snap.CreatedAt = parseTime(createdAt)
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// Delete removes a snapshot. Deleting an unknown id returns ErrNotFound.
func (s *Store) Delete(id int64) error {
	result, err := s.db.Exec("DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete snapshot: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot delete snapshot: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSnapshot(row *sql.Row) (Snapshot, error) {
	var snap Snapshot
	var createdAt any
	err := row.Scan(&snap.ID, &snap.Scene, &snap.Label, &snap.Data, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("storage: cannot scan snapshot: %w", err)
	}
	snap.CreatedAt = parseTime(createdAt)
	return snap, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
