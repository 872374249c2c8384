// ABOUTME: Remembers recently uploaded image paths for the image modal
// ABOUTME: Stored as JSON in the config directory, newest first

package recentimages

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// MaxRecent is the maximum number of paths to keep
const MaxRecent = 5

const fileName = "recent-images.json"

// Store is the recent image list
type Store struct {
	dir   string
	paths []string
}

type recentData struct {
	Paths []string `json:"paths"`
}

// New creates a store under dir; nothing is read until first use
func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, fileName)
}

// Load reads the list from disk, dropping files that no longer exist.
// A missing or unreadable list loads as empty.
func (s *Store) Load() ([]string, error) {
	data, err := os.ReadFile(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		s.paths = []string{}
		return s.paths, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		s.paths = []string{}
		return s.paths, nil
	}

	s.paths = make([]string, 0, len(recent.Paths))
	for _, p := range recent.Paths {
		if _, err := os.Stat(p); err == nil {
			s.paths = append(s.paths, p)
		}
	}
	return s.paths, nil
}

// Add moves path to the front, trimming to MaxRecent
func (s *Store) Add(path string) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	next := make([]string, 0, MaxRecent)
	next = append(next, path)
	for _, p := range s.List() {
		if p != path && len(next) < MaxRecent {
			next = append(next, p)
		}
	}
	s.paths = next

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(recentData{Paths: next}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), data, 0o600)
}

// List returns the remembered paths, loading them on first use
func (s *Store) List() []string {
	if s.paths == nil {
		if _, err := s.Load(); err != nil {
			s.paths = []string{}
		}
	}
	return s.paths
}
