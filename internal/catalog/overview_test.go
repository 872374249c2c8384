// ABOUTME: Tests for the home overview loader
// ABOUTME: Runs against the fake API through the real client

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/fakeapi"
)

func TestLoadOverview(t *testing.T) {
	fake := fakeapi.New()
	server := httptest.NewServer(fake.Handler())
	defer server.Close()

	fake.AddUser("alice", "pw")
	fake.AddUser("bob", "pw")
	for _, title := range []string{"Soup", "Bread", "Salad"} {
		fake.Seed("alice", client.Recipe{Title: title})
	}
	token := fake.IssueToken("alice")

	ov, err := LoadOverview(context.Background(), client.New(server.URL, &token), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ov.Stats.UserCount != 2 || ov.Stats.RecipeCount != 3 {
		t.Errorf("unexpected stats %+v", ov.Stats)
	}
	if len(ov.Recipes) != 2 || !ov.HasMore {
		t.Errorf("expected a full first page with more, got %d has_more=%v", len(ov.Recipes), ov.HasMore)
	}
}

func TestLoadOverview_Unauthorized(t *testing.T) {
	fake := fakeapi.New()
	server := httptest.NewServer(fake.Handler())
	defer server.Close()

	_, err := LoadOverview(context.Background(), client.New(server.URL, nil), 0)
	code, ok := client.StatusCode(err)
	if !ok || code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}
