// ABOUTME: Process-wide session store with a derived API client
// ABOUTME: Persists every change and broadcasts session presence to subscribers

package session

import (
	"log/slog"
	"sync"

	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/watch"
)

// Store holds the current session and the API client derived from it.
// SetSession and Clear are the only mutations.
type Store struct {
	mu         sync.Mutex
	// persistMu orders whole changes so storage matches memory
	persistMu  sync.Mutex
	storage    Storage
	current    *Session
	api        *client.Client
	clientOpts []client.Option
	presence   *watch.Broker[bool]
}

// Option configures a Store
type Option func(*Store)

// WithClientOptions applies options to every derived client
func WithClientOptions(opts ...client.Option) Option {
	return func(s *Store) {
		s.clientOpts = append(s.clientOpts, opts...)
	}
}

// NewStore creates a store and loads the initial session from storage.
// Expiry is not checked here; a stale token is discovered by a 401.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage:  storage,
		presence: watch.NewBroker[bool](),
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := storage.Load()
	if err != nil {
		slog.Warn("Failed to load stored session, starting logged out", "error", err)
	}
	if loaded != nil {
		s.install(loaded)
	}
	return s
}

// Session returns a copy of the current session
func (s *Store) Session() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// HasSession reports whether a session is present
func (s *Store) HasSession() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Client returns the API client for the current session, nil when absent
func (s *Store) Client() *client.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api
}

// SetSession replaces the session; nil logs out. The in-memory state is
// always updated; a storage failure is logged and returned.
func (s *Store) SetSession(next *Session) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.install(next)
	has := s.current != nil
	var snapshot Session
	if has {
		snapshot = *s.current
	}
	s.mu.Unlock()

	s.presence.Publish(has)

	var err error
	if has {
		err = s.storage.Save(snapshot)
	} else {
		err = s.storage.Clear()
	}
	if err != nil {
		slog.Error("Failed to persist session", "has_session", has, "error", err)
	}
	return err
}

// Clear logs out
func (s *Store) Clear() error {
	return s.SetSession(nil)
}

// Subscribe returns a channel carrying session presence, primed with the
// current value. Call the returned function to stop receiving.
func (s *Store) Subscribe() (<-chan bool, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presence.Subscribe(s.current != nil)
}

// install must be called with mu held or before the store is shared
func (s *Store) install(next *Session) {
	if next == nil {
		s.current = nil
		s.api = nil
		return
	}
	cp := *next
	s.current = &cp
	s.api = client.New(cp.APIURL, &cp.Token, s.clientOpts...)
}
