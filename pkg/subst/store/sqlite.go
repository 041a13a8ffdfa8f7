package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists templates to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite template store.
// The path should be a file path (e.g., "./templates.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Each connection to ":memory:" is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS templates (
			name TEXT NOT NULL PRIMARY KEY,
			revision INTEGER NOT NULL,
			timestamp TEXT NOT NULL,
			fingerprint INTEGER NOT NULL,
			source TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(name, source string) error {
	if err := validateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	// SQLite integers are signed; the fingerprint is stored bit for bit.
	_, err := s.db.Exec(`
		INSERT INTO templates (name, revision, timestamp, fingerprint, source)
		VALUES (?, 1, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			revision = templates.revision + 1,
			timestamp = excluded.timestamp,
			fingerprint = excluded.fingerprint,
			source = excluded.source
	`, name, time.Now().UTC().Format(time.RFC3339Nano), int64(Fingerprint(source)), source)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", ErrStoreClosed
	}

	var source string
	err := s.db.QueryRow(`SELECT source FROM templates WHERE name = ?`, name).Scan(&source)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load template: %w", err)
	}
	return source, nil
}

// List implements Store.
func (s *SQLiteStore) List() ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT name, revision, timestamp, fingerprint, LENGTH(CAST(source AS BLOB))
		FROM templates
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	infos := []Info{}
	for rows.Next() {
		var (
			info        Info
			timestamp   string
			fingerprint int64
		)
		if err := rows.Scan(&info.Name, &info.Revision, &timestamp, &fingerprint, &info.Size); err != nil {
			return nil, fmt.Errorf("scan template info: %w", err)
		}
		info.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
		info.Fingerprint = uint64(fingerprint)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return infos, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM templates WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
