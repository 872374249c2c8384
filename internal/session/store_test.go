// ABOUTME: Tests for the session store and both storage backends
// ABOUTME: Covers persistence round trips, presence broadcast, and derived clients

package session

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/markalston/cooking-codex/internal/client"
)

func sampleSession() Session {
	return Session{
		APIURL:   "http://api.test/api/",
		MediaURL: "http://api.test/media",
		Token: client.LoginToken{
			Type:   "Bearer",
			Token:  "tok",
			Expiry: time.Date(2031, 5, 6, 7, 8, 9, 0, time.UTC),
		},
	}
}

func backends(t *testing.T) map[string]func(dir string) Storage {
	t.Helper()
	return map[string]func(dir string) Storage{
		"file":   func(dir string) Storage { return NewFileStorage(dir) },
		"sqlite": func(dir string) Storage { return NewSQLiteStorage(dir) },
	}
}

func TestStore_RoundTripAcrossProcesses(t *testing.T) {
	for name, newStorage := range backends(t) {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			s := sampleSession()

			store := NewStore(newStorage(dir))
			if store.HasSession() {
				t.Fatal("expected no session on empty storage")
			}
			if err := store.SetSession(&s); err != nil {
				t.Fatalf("SetSession: %v", err)
			}

			reloaded := NewStore(newStorage(dir))
			got, ok := reloaded.Session()
			if !ok {
				t.Fatal("expected session after reload")
			}
			if got.APIURL != s.APIURL || got.MediaURL != s.MediaURL ||
				got.Token.Token != s.Token.Token || got.Token.Type != s.Token.Type ||
				!got.Token.Expiry.Equal(s.Token.Expiry) {
				t.Errorf("reloaded session %+v != %+v", got, s)
			}

			if err := reloaded.Clear(); err != nil {
				t.Fatalf("Clear: %v", err)
			}
			if NewStore(newStorage(dir)).HasSession() {
				t.Error("expected no session after clear and reload")
			}
		})
	}
}

func TestStore_LoadsExpiredSession(t *testing.T) {
	dir := t.TempDir()
	s := sampleSession()
	s.Token.Expiry = time.Now().Add(-time.Hour)
	if err := NewFileStorage(dir).Save(s); err != nil {
		t.Fatal(err)
	}

	store := NewStore(NewFileStorage(dir))
	got, ok := store.Session()
	if !ok {
		t.Fatal("expected expired session to load")
	}
	if !got.Expired(time.Now()) {
		t.Error("expected session to report expired")
	}
}

func TestFileStorage_MalformedLoadsAsNone(t *testing.T) {
	dir := t.TempDir()
	storage := NewFileStorage(dir)
	if err := os.WriteFile(storage.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := storage.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != nil {
		t.Errorf("expected nil session, got %+v", s)
	}
	if NewStore(storage).HasSession() {
		t.Error("expected store to start without session")
	}
}

func TestFileStorage_ClearMissingIsNoop(t *testing.T) {
	if err := NewFileStorage(t.TempDir()).Clear(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFileStorage_NoTempFileLeft(t *testing.T) {
	dir := t.TempDir()
	storage := NewFileStorage(dir)
	if err := storage.Save(sampleSession()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(storage.Path() + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no temp file, stat err = %v", err)
	}
	if filepath.Base(storage.Path()) != "login-details.json" {
		t.Errorf("unexpected file name %s", storage.Path())
	}
}

func TestStore_DerivedClient(t *testing.T) {
	store := NewStore(NewFileStorage(t.TempDir()))
	if store.Client() != nil {
		t.Fatal("expected no client without session")
	}

	s := sampleSession()
	store.SetSession(&s)
	c := store.Client()
	if c == nil {
		t.Fatal("expected client with session")
	}
	if c.BaseURL() != "http://api.test/api" {
		t.Errorf("unexpected base url %s", c.BaseURL())
	}
	if c.Authorization() != "Bearer tok" {
		t.Errorf("unexpected authorization %q", c.Authorization())
	}

	store.Clear()
	if store.Client() != nil {
		t.Error("expected client to be absent after clear")
	}
}

func TestStore_SessionIsCopied(t *testing.T) {
	store := NewStore(NewFileStorage(t.TempDir()))
	s := sampleSession()
	store.SetSession(&s)
	s.Token.Token = "mutated"

	got, _ := store.Session()
	if got.Token.Token != "tok" {
		t.Errorf("store aliased caller session: %s", got.Token.Token)
	}
}

func TestStore_SubscribeSeesPresence(t *testing.T) {
	store := NewStore(NewFileStorage(t.TempDir()))
	ch, cancel := store.Subscribe()
	defer cancel()

	if <-ch {
		t.Fatal("expected initial presence false")
	}

	s := sampleSession()
	store.SetSession(&s)
	if !<-ch {
		t.Error("expected presence true after login")
	}

	store.Clear()
	if <-ch {
		t.Error("expected presence false after logout")
	}
}

type failingStorage struct{}

func (failingStorage) Load() (*Session, error) { return nil, errors.New("disk gone") }
func (failingStorage) Save(Session) error      { return errors.New("disk gone") }
func (failingStorage) Clear() error            { return errors.New("disk gone") }

func TestStore_StorageFailureStillUpdatesMemory(t *testing.T) {
	store := NewStore(failingStorage{})
	if store.HasSession() {
		t.Fatal("expected no session when load fails")
	}

	s := sampleSession()
	if err := store.SetSession(&s); err == nil {
		t.Error("expected storage error to be returned")
	}
	if !store.HasSession() {
		t.Error("expected in-memory session despite storage failure")
	}

	if err := store.Clear(); err == nil {
		t.Error("expected storage error on clear")
	}
	if store.HasSession() {
		t.Error("expected logout despite storage failure")
	}
}

// slowStorage delays saves so a later clear can overtake them
type slowStorage struct {
	mu    sync.Mutex
	saved *Session
	delay time.Duration
}

func (s *slowStorage) Load() (*Session, error) { return nil, nil }

func (s *slowStorage) Save(sess Session) error {
	time.Sleep(s.delay)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = &sess
	return nil
}

func (s *slowStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = nil
	return nil
}

func (s *slowStorage) has() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved != nil
}

func TestStore_ConcurrentSetAndClearAgreeWithStorage(t *testing.T) {
	storage := &slowStorage{delay: 5 * time.Millisecond}
	store := NewStore(storage)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s := sampleSession()
		store.SetSession(&s)
	}()
	go func() {
		defer wg.Done()
		time.Sleep(time.Millisecond)
		store.Clear()
	}()
	wg.Wait()

	if store.HasSession() != storage.has() {
		t.Errorf("memory has session=%v, storage has session=%v", store.HasSession(), storage.has())
	}
}

func TestSession_ImageURL(t *testing.T) {
	s := Session{MediaURL: "http://api.test/media/"}
	if got := s.ImageURL("abc"); got != "http://api.test/media/recipe-image/abc" {
		t.Errorf("unexpected image url %s", got)
	}
}

func TestRequirement_Satisfied(t *testing.T) {
	tests := []struct {
		req  Requirement
		has  bool
		want bool
	}{
		{RequireSession, true, true},
		{RequireSession, false, false},
		{RequireNoSession, true, false},
		{RequireNoSession, false, true},
	}
	for _, tt := range tests {
		if got := tt.req.Satisfied(tt.has); got != tt.want {
			t.Errorf("%s.Satisfied(%v) = %v, want %v", tt.req, tt.has, got, tt.want)
		}
	}
}
