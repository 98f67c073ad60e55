package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLite is a Backend on a single SQLite database file, for deployments
// that want the memory layers queryable with SQL instead of spread over
// JSON files.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and runs migrations.
func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}

	// Single connection avoids write contention for our scale
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			namespace TEXT NOT NULL,
			key       TEXT NOT NULL,
			value     TEXT NOT NULL,
			PRIMARY KEY (namespace, key)
		);

		CREATE TABLE IF NOT EXISTS lists (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			namespace TEXT NOT NULL,
			key       TEXT NOT NULL,
			value     TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_lists_ns_key ON lists(namespace, key);
	`)
	return err
}

func (s *SQLite) Get(namespace, key string) (string, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM kv WHERE namespace = ? AND key = ?`, namespace, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLite) Set(namespace, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (namespace, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value`,
		namespace, key, value,
	)
	return err
}

func (s *SQLite) Delete(namespace, key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE namespace = ? AND key = ?`, namespace, key)
	return err
}

func (s *SQLite) Append(namespace, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO lists (namespace, key, value) VALUES (?, ?, ?)`,
		namespace, key, value,
	)
	return err
}

func (s *SQLite) GetList(namespace, key string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT value FROM lists WHERE namespace = ? AND key = ? ORDER BY id`,
		namespace, key,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

func (s *SQLite) TrimList(namespace, key string, maxSize int) error {
	_, err := s.db.Exec(
		`DELETE FROM lists WHERE namespace = ? AND key = ? AND id NOT IN (
			SELECT id FROM lists WHERE namespace = ? AND key = ?
			ORDER BY id DESC LIMIT ?
		)`,
		namespace, key, namespace, key, maxSize,
	)
	return err
}

func (s *SQLite) ClearList(namespace, key string) error {
	_, err := s.db.Exec(`DELETE FROM lists WHERE namespace = ? AND key = ?`, namespace, key)
	return err
}

func (s *SQLite) ListLength(namespace, key string) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM lists WHERE namespace = ? AND key = ?`, namespace, key,
	).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

var _ Backend = (*SQLite)(nil)
