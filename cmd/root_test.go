// ABOUTME: Tests for the root command and global flag handling
// ABOUTME: Verifies environment variable and flag configuration

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/markalston/cooking-codex/internal/app"
	"github.com/markalston/cooking-codex/internal/app/apptest"
	"github.com/markalston/cooking-codex/internal/config"
	"github.com/markalston/cooking-codex/internal/fakeapi"
)

// newTestApp wires an application against a fresh fake API
func newTestApp(t *testing.T) (*app.App, *fakeapi.Server) {
	t.Helper()
	return apptest.New(t)
}

// loggedInApp is newTestApp with alice logged in
func loggedInApp(t *testing.T) (*app.App, *fakeapi.Server) {
	t.Helper()
	return apptest.LoggedIn(t)
}

func TestGetAPIURL_Default(t *testing.T) {
	t.Setenv("COOKING_CODEX_API_URL", "")
	apiURL = ""

	if url := GetAPIURL(); url != config.DefaultAPIURL {
		t.Errorf("expected default URL %s, got %s", config.DefaultAPIURL, url)
	}
}

func TestGetAPIURL_FromEnv(t *testing.T) {
	t.Setenv("COOKING_CODEX_API_URL", "http://recipes.example.com/api")
	apiURL = ""

	if url := GetAPIURL(); url != "http://recipes.example.com/api" {
		t.Errorf("expected env URL, got %s", url)
	}
}

func TestGetAPIURL_FlagOverridesEnv(t *testing.T) {
	t.Setenv("COOKING_CODEX_API_URL", "http://recipes.example.com/api")
	apiURL = "http://flag-override.example.com/api"
	defer func() { apiURL = "" }()

	if url := GetAPIURL(); url != "http://flag-override.example.com/api" {
		t.Errorf("expected flag to override env, got %s", url)
	}
}

func TestLoadConfig_FlagOverridesEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("COOKING_CODEX_API_URL", "http://env.example.com/api")
	t.Setenv("COOKING_CODEX_MEDIA_URL", "")
	t.Setenv("COOKING_CODEX_CONFIG_DIR", t.TempDir())
	apiURL = "http://flag.example.com/api/"
	defer func() { apiURL = "" }()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "http://flag.example.com/api" {
		t.Errorf("expected flag URL, got %s", cfg.APIURL)
	}
	if cfg.MediaURL != "http://flag.example.com/api/media" {
		t.Errorf("expected media URL to follow the flag, got %s", cfg.MediaURL)
	}
}

func TestJSONOutput(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}

func TestFail_NotLoggedIn(t *testing.T) {
	a, _ := newTestApp(t)
	var buf bytes.Buffer

	code := fail(a, &buf, app.ErrNotLoggedIn, "loading recipes")

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "not logged in") {
		t.Errorf("unexpected output %q", buf.String())
	}
	if a.Toasts.Len() != 0 {
		t.Error("a missing login is not a failed request and should not be queued")
	}
}

func TestFlushToasts(t *testing.T) {
	a, _ := newTestApp(t)
	a.Toasts.Push("first")
	a.Toasts.Push("second")

	var buf bytes.Buffer
	flushToasts(a, &buf)

	if buf.String() != "Error: first\nError: second\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
	if a.Toasts.Len() != 0 {
		t.Errorf("expected queue drained, got %d", a.Toasts.Len())
	}
}
