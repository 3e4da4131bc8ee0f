package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/sadopc/dayplan/internal/log"
)

const (
	currentVersion = 1
	memoryPath     = ":memory:"
)

// Store persists the planner in SQLite. It implements planner.Persistence.
type Store struct {
	db   *sql.DB
	path string

	mu   sync.Mutex
	seen int64 // PRAGMA data_version at the last Changed call
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != memoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if s.seen, err = s.dataVersion(); err != nil {
		db.Close()
		return nil, fmt.Errorf("read data_version: %w", err)
	}
	log.Debug("store opened", "path", dbPath)
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(memoryPath)
}

// Path returns the database file path, or ":memory:".
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	log.Info("migrating database", "from", version, "to", currentVersion)
	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS items (
		kind        TEXT NOT NULL,
		date        TEXT NOT NULL,
		slot        TEXT NOT NULL,
		id          TEXT NOT NULL,
		position    INTEGER NOT NULL,
		text        TEXT NOT NULL,
		meta        TEXT NOT NULL DEFAULT '{}',
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		PRIMARY KEY (kind, date, slot, id)
	);

	CREATE INDEX IF NOT EXISTS idx_items_date ON items(date, slot);

	CREATE TABLE IF NOT EXISTS day_records (
		date        TEXT PRIMARY KEY,
		note        TEXT NOT NULL DEFAULT '',
		rating      TEXT NOT NULL DEFAULT '',
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('rescue_past_todos',   'true'),
		('complete_late_todos', 'false'),
		('week_start',          'monday'),
		('default_kind',        'todo');
	`
	_, err := s.db.Exec(ddl)
	return err
}
