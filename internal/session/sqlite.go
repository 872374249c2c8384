// ABOUTME: Persistent session storage backed by a SQLite key-value table
// ABOUTME: Uses the pure Go modernc driver so no cgo toolchain is needed

package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStorage keeps the session under one key of <dir>/storage.sqlite
type SQLiteStorage struct {
	path string
}

// NewSQLiteStorage creates a SQLite storage rooted at dir
func NewSQLiteStorage(dir string) *SQLiteStorage {
	return &SQLiteStorage{path: filepath.Join(dir, "storage.sqlite")}
}

// Path returns the database file location
func (s *SQLiteStorage) Path() string {
	return s.path
}

func (s *SQLiteStorage) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL);`,
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// Load reads the stored session
func (s *SQLiteStorage) Load() (*Session, error) {
	ctx := context.Background()
	db, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}
	defer db.Close()

	var value string
	err = db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, StorageKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	return decodeSession([]byte(value)), nil
}

// Save writes the session, replacing any previous record
func (s *SQLiteStorage) Save(sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := s.open(ctx)
	if err != nil {
		return fmt.Errorf("opening session db: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO kv(key, value) VALUES(?, ?)`, StorageKey, string(data)); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Clear deletes the stored session
func (s *SQLiteStorage) Clear() error {
	ctx := context.Background()
	db, err := s.open(ctx)
	if err != nil {
		return fmt.Errorf("opening session db: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, StorageKey); err != nil {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
