package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the utility table in a sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens a sqlite-backed store at the given path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging state database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running state migrations: %w", err)
	}
	return s, nil
}

// OpenSQLiteMemory creates an in-memory store (useful for testing).
func OpenSQLiteMemory() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory state database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running state migrations: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS utilities (
			arm   TEXT PRIMARY KEY,
			count INTEGER NOT NULL,
			value REAL NOT NULL
		)`)
	return err
}

// Load reads the whole utility table.
func (s *SQLiteStore) Load() (map[string]Arm, error) {
	rows, err := s.db.Query(`SELECT arm, count, value FROM utilities`)
	if err != nil {
		return nil, fmt.Errorf("querying utilities: %w", err)
	}
	defer rows.Close()

	arms := map[string]Arm{}
	for rows.Next() {
		var name string
		var arm Arm
		if err := rows.Scan(&name, &arm.Count, &arm.Value); err != nil {
			return nil, fmt.Errorf("scanning utility row: %w", err)
		}
		arms[name] = arm
	}
	return arms, rows.Err()
}

// Save upserts every arm in one transaction.
func (s *SQLiteStore) Save(arms map[string]Arm) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting utility save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO utilities (arm, count, value) VALUES (?, ?, ?)
		ON CONFLICT(arm) DO UPDATE SET count = excluded.count, value = excluded.value`)
	if err != nil {
		return fmt.Errorf("preparing utility upsert: %w", err)
	}
	defer stmt.Close()

	for name, arm := range arms {
		if _, err := stmt.Exec(name, arm.Count, arm.Value); err != nil {
			return fmt.Errorf("upserting arm %q: %w", name, err)
		}
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
