// ABOUTME: Application container wiring configuration, session, notifications and editors
// ABOUTME: Built once per process and passed explicitly to commands and the TUI

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/config"
	"github.com/markalston/cooking-codex/internal/editor"
	"github.com/markalston/cooking-codex/internal/report"
	"github.com/markalston/cooking-codex/internal/session"
	"github.com/markalston/cooking-codex/internal/toast"
)

// ErrNotLoggedIn is returned by operations that need a session
var ErrNotLoggedIn = errors.New("not logged in; run 'cooking-codex login' first")

// App holds the process-wide services
type App struct {
	Config   *config.Config
	Sessions *session.Store
	Toasts   *toast.Queue
	Slot     *editor.Slot

	clientOpts []client.Option
}

// New builds the services described by cfg
func New(cfg *config.Config, toastOpts ...toast.Option) (*App, error) {
	clientOpts := []client.Option{client.WithTimeout(cfg.RequestTimeout)}
	if cfg.AllProxy != "" {
		rt, err := client.NewProxyTransport(cfg.AllProxy)
		if err != nil {
			return nil, fmt.Errorf("configuring proxy: %w", err)
		}
		clientOpts = append(clientOpts, client.WithTransport(rt))
		slog.Debug("Routing API traffic through SSH tunnel")
	}

	var storage session.Storage
	switch cfg.Storage {
	case config.StorageSQLite:
		storage = session.NewSQLiteStorage(cfg.ConfigDir)
	default:
		storage = session.NewFileStorage(cfg.ConfigDir)
	}

	return &App{
		Config:     cfg,
		Sessions:   session.NewStore(storage, session.WithClientOptions(clientOpts...)),
		Toasts:     toast.NewQueue(toastOpts...),
		Slot:       editor.NewSlot(),
		clientOpts: clientOpts,
	}, nil
}

// AnonymousClient returns a client for apiURL without credentials
func (a *App) AnonymousClient(apiURL string) *client.Client {
	if apiURL == "" {
		apiURL = a.Config.APIURL
	}
	return client.New(apiURL, nil, a.clientOpts...)
}

// Client returns the session's client or ErrNotLoggedIn
func (a *App) Client() (*client.Client, error) {
	c := a.Sessions.Client()
	if c == nil {
		return nil, ErrNotLoggedIn
	}
	return c, nil
}

// Login exchanges credentials for a token and stores the new session.
// An empty apiURL uses the configured one.
func (a *App) Login(ctx context.Context, apiURL, username, password string) (*session.Session, error) {
	if apiURL == "" {
		apiURL = a.Config.APIURL
	}
	apiURL = client.SanitizeBaseURL(apiURL)

	token, err := a.AnonymousClient(apiURL).Login(ctx, client.Login{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	mediaURL := a.Config.MediaURL
	if apiURL != a.Config.APIURL {
		mediaURL = config.DefaultMediaURL(apiURL)
	}
	s := &session.Session{APIURL: apiURL, MediaURL: mediaURL, Token: *token}
	if err := a.Sessions.SetSession(s); err != nil {
		slog.Warn("Logged in but session was not persisted", "error", err)
	}
	slog.Info("Logged in", "api_url", apiURL, "username", username)
	return s, nil
}

// Signup creates an account; it does not log in
func (a *App) Signup(ctx context.Context, apiURL, username, password string) (*client.User, error) {
	return a.AnonymousClient(apiURL).CreateAccount(ctx, client.CreateUser{Username: username, Password: password})
}

// Logout clears the session
func (a *App) Logout() error {
	return a.Sessions.Clear()
}

// Fail reports err as a notification for the action when
func (a *App) Fail(err error, when string) {
	report.Failure(err, when, a.Toasts, a.Sessions)
}

// EditRecipe creates an orchestrator sharing the process-wide editor slot
func (a *App) EditRecipe(recipe client.Recipe) *editor.Orchestrator {
	return editor.New(recipe, a.Sessions, a.Toasts, editor.WithSlot(a.Slot))
}
