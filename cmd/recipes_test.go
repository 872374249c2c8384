// ABOUTME: Tests for the recipe commands
// ABOUTME: Verifies listing, paging, show, create, delete, and image handling against the fake API

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/render"
)

func seedRecipes(t *testing.T, fakeSeed func(string, client.Recipe) client.Recipe, n int) []client.Recipe {
	t.Helper()
	var out []client.Recipe
	for i := 1; i <= n; i++ {
		out = append(out, fakeSeed("alice", client.Recipe{Title: fmt.Sprintf("Recipe %d", i)}))
	}
	return out
}

func TestRunRecipesList_Page(t *testing.T) {
	a, fake := loggedInApp(t)
	seedRecipes(t, fake.Seed, 3)
	var buf bytes.Buffer

	code := runRecipesList(context.Background(), a, &buf, 1, 2, false)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	out := buf.String()
	if strings.Count(out, "Recipe ") != 2 {
		t.Errorf("expected two recipes, got %q", out)
	}
	if !strings.Contains(out, "--page 2") {
		t.Errorf("expected a hint for the next page, got %q", out)
	}
}

func TestRunRecipesList_All(t *testing.T) {
	a, fake := loggedInApp(t)
	seedRecipes(t, fake.Seed, 5)
	jsonOutput = true
	defer func() { jsonOutput = false }()
	var buf bytes.Buffer

	if code := runRecipesList(context.Background(), a, &buf, 1, 2, true); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	var recipes []client.Recipe
	if err := json.Unmarshal(buf.Bytes(), &recipes); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(recipes) != 5 {
		t.Errorf("expected all five recipes, got %d", len(recipes))
	}
	if n := fake.CountRequests(http.MethodGet, "/recipes/"); n != 3 {
		t.Errorf("expected three page requests, got %d", n)
	}
}

func TestRunRecipesList_NotLoggedIn(t *testing.T) {
	a, _ := newTestApp(t)
	var buf bytes.Buffer

	if code := runRecipesList(context.Background(), a, &buf, 1, 20, false); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}

func TestRunRecipesList_ExpiredTokenLogsOut(t *testing.T) {
	a, fake := loggedInApp(t)
	fake.ExpireTokens()
	var buf bytes.Buffer

	if code := runRecipesList(context.Background(), a, &buf, 1, 20, false); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if a.Sessions.HasSession() {
		t.Error("expected 401 to clear the session")
	}
	if !strings.Contains(buf.String(), "status code '401', when loading recipes") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestFormatRecipeTable(t *testing.T) {
	short := "Quick"
	out := formatRecipeTable([]client.Recipe{
		{ID: "r1", Title: "Soup", ShortDescription: &short, Tags: []string{"hot"}},
	})
	if out != "r1  Soup - Quick [hot]" {
		t.Errorf("unexpected table %q", out)
	}
	if !strings.Contains(formatRecipeTable(nil), "No recipes yet") {
		t.Error("expected empty state message")
	}
}

func TestRunRecipesShow(t *testing.T) {
	a, fake := loggedInApp(t)
	r := fake.Seed("alice", client.Recipe{
		Title:       "Pancakes",
		Ingredients: []client.Ingredient{{Name: "flour", Amount: 1.5, UnitType: "cup"}},
	})
	var buf bytes.Buffer

	if code := runRecipesShow(context.Background(), a, &buf, r.ID, render.StylePlain); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Pancakes") || !strings.Contains(buf.String(), "1 1/2 cup flour") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestRunRecipesShow_NotFound(t *testing.T) {
	a, _ := loggedInApp(t)
	var buf bytes.Buffer

	if code := runRecipesShow(context.Background(), a, &buf, "missing", render.StylePlain); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "resource was not found, when loading recipe") {
		t.Errorf("unexpected output %q", buf.String())
	}
	if !a.Sessions.HasSession() {
		t.Error("404 must not log out")
	}
}

func TestRunRecipesNew(t *testing.T) {
	a, fake := loggedInApp(t)
	var buf bytes.Buffer

	req := newRecipePayload(" Bread ", "", "", []string{"baking", " ", "baking"})
	if code := runRecipesNew(context.Background(), a, &buf, req); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}

	recipes, _ := a.Sessions.Client().ListRecipes(context.Background(), client.DefaultPagination())
	if len(recipes) != 1 {
		t.Fatalf("expected one recipe, got %d", len(recipes))
	}
	got, _ := fake.Recipe(recipes[0].ID)
	if got.Title != "Bread" || got.ShortDescription != nil || len(got.Tags) != 1 {
		t.Errorf("unexpected stored recipe %+v", got)
	}
}

func TestRunRecipesNew_BlankTitle(t *testing.T) {
	a, fake := loggedInApp(t)
	var buf bytes.Buffer

	if code := runRecipesNew(context.Background(), a, &buf, newRecipePayload("  ", "", "", nil)); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if n := fake.CountRequests(http.MethodPost, "/recipes/"); n != 0 {
		t.Errorf("expected no request, got %d", n)
	}
}

func TestRunRecipesDelete(t *testing.T) {
	a, fake := loggedInApp(t)
	r := fake.Seed("alice", client.Recipe{Title: "Soup"})
	var buf bytes.Buffer

	if code := runRecipesDelete(context.Background(), a, &buf, r.ID); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if _, ok := fake.Recipe(r.ID); ok {
		t.Error("expected recipe to be deleted")
	}
}

func TestRunImageSetAndDelete(t *testing.T) {
	a, fake := loggedInApp(t)
	r := fake.Seed("alice", client.Recipe{Title: "Soup"})

	path := filepath.Join(t.TempDir(), "soup.png")
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	if err := os.WriteFile(path, png, 0o600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if code := runImageSet(context.Background(), a, &buf, r.ID, path); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	stored, _ := fake.Recipe(r.ID)
	if stored.ImageID == nil {
		t.Fatal("expected image id on the stored recipe")
	}
	if !strings.Contains(buf.String(), "/media/recipe-image/"+*stored.ImageID) {
		t.Errorf("expected image URL in output, got %q", buf.String())
	}

	buf.Reset()
	if code := runImageDelete(context.Background(), a, &buf, r.ID); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	stored, _ = fake.Recipe(r.ID)
	if stored.ImageID != nil {
		t.Error("expected image removed")
	}

	if active, busy := a.Slot.Active(); busy {
		t.Errorf("expected editor slot released, %q still open", active)
	}
}

func TestRunImageSet_NotAnImage(t *testing.T) {
	a, fake := loggedInApp(t)
	r := fake.Seed("alice", client.Recipe{Title: "Soup"})

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("just text"), 0o600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if code := runImageSet(context.Background(), a, &buf, r.ID, path); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if _, busy := a.Slot.Active(); busy {
		t.Error("expected editor slot released after a rejected file")
	}
}

func TestRunImageDelete_NoImage(t *testing.T) {
	a, fake := loggedInApp(t)
	r := fake.Seed("alice", client.Recipe{Title: "Soup"})
	var buf bytes.Buffer

	if code := runImageDelete(context.Background(), a, &buf, r.ID); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if n := fake.CountRequests(http.MethodDelete, "/recipes/"+r.ID+"/image/"); n != 0 {
		t.Errorf("expected no request, got %d", n)
	}
}
