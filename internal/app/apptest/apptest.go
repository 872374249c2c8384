// ABOUTME: Test helpers that wire an application against the in-process fake API
// ABOUTME: Shared by command and TUI tests

package apptest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/markalston/cooking-codex/internal/app"
	"github.com/markalston/cooking-codex/internal/config"
	"github.com/markalston/cooking-codex/internal/fakeapi"
	"github.com/markalston/cooking-codex/internal/toast"
)

// New wires an application against a fresh fake API. Notifications never
// expire on their own.
func New(t testing.TB) (*app.App, *fakeapi.Server) {
	t.Helper()
	fake := fakeapi.New()
	server := httptest.NewServer(fake.Handler())
	t.Cleanup(server.Close)

	cfg := &config.Config{
		APIURL:         server.URL,
		MediaURL:       config.DefaultMediaURL(server.URL),
		RequestTimeout: 5 * time.Second,
		ConfigDir:      t.TempDir(),
		Storage:        config.StorageFile,
		PerPage:        20,
	}
	a, err := app.New(cfg, toast.WithAfterFunc(func(time.Duration, func()) {}))
	if err != nil {
		t.Fatal(err)
	}
	return a, fake
}

// LoggedIn is New with alice (password "pw") logged in
func LoggedIn(t testing.TB) (*app.App, *fakeapi.Server) {
	t.Helper()
	a, fake := New(t)
	fake.AddUser("alice", "pw")
	if _, err := a.Login(context.Background(), "", "alice", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return a, fake
}
