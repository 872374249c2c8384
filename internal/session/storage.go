// ABOUTME: Persistent session storage backed by a JSON file
// ABOUTME: Writes are atomic; unreadable records load as no session

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

// Storage persists at most one Session across process restarts
type Storage interface {
	// Load returns nil when no well-formed record exists
	Load() (*Session, error)
	Save(Session) error
	Clear() error
}

// FileStorage keeps the session in <dir>/login-details.json
type FileStorage struct {
	dir string
}

// NewFileStorage creates a file storage rooted at dir
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

// Path returns the location of the session file
func (f *FileStorage) Path() string {
	return filepath.Join(f.dir, StorageKey+".json")
}

// Load reads the stored session
func (f *FileStorage) Load() (*Session, error) {
	data, err := os.ReadFile(f.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}
	return decodeSession(data), nil
}

// Save writes the session, replacing any previous record
func (f *FileStorage) Save(s Session) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return writeJSONAtomic(f.Path(), s)
}

// Clear deletes the stored session; a missing record is not an error
func (f *FileStorage) Clear() error {
	if err := os.Remove(f.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

func decodeSession(data []byte) *Session {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		slog.Warn("Ignoring malformed stored session", "error", err)
		return nil
	}
	return &s
}

func writeJSONAtomic(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err == nil {
		return nil
	}

	defer os.Remove(tmp)

	if runtime.GOOS == "windows" {
		_ = os.Remove(path)
	}
	return os.Rename(tmp, path)
}
