package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/MeteoBoy4/gpcp-1dd/internal/port"
)

// Store implements port.Catalog using SQLite
type Store struct {
	db *sql.DB
}

// Ensure Store implements port.Catalog
var _ port.Catalog = (*Store)(nil)

// Open opens a connection to the SQLite catalog database
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// migrate creates the schema if it does not exist
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS datasets (
			name       TEXT PRIMARY KEY,
			year       INTEGER NOT NULL,
			month      INTEGER NOT NULL,
			size_bytes INTEGER NOT NULL DEFAULT 0,
			status     TEXT NOT NULL,
			error      TEXT NOT NULL DEFAULT '',
			fetched_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_datasets_year_month ON datasets(year, month);
		CREATE INDEX IF NOT EXISTS idx_datasets_status ON datasets(status);
	`
	_, err := s.db.Exec(schema)
	return err
}
