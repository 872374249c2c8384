// ABOUTME: Tests for the edit command
// ABOUTME: Verifies per-field partial updates, list edits, and input parsing

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/editor"
	"github.com/markalston/cooking-codex/internal/fraction"
)

func strPtr(s string) *string { return &s }

func TestRunRecipesEdit_EachFieldSentAlone(t *testing.T) {
	a, fake := loggedInApp(t)
	r := fake.Seed("alice", client.Recipe{Title: "Soup", Tags: []string{"old"}})
	var buf bytes.Buffer

	opts := editOptions{
		Title: strPtr("Tomato soup"),
		Tags:  &[]string{"red", "red", "hot"},
	}
	if code := runRecipesEdit(context.Background(), a, &buf, r.ID, opts); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}

	var patches []map[string]json.RawMessage
	for _, req := range fake.Requests() {
		if req.Method != http.MethodPatch {
			continue
		}
		var m map[string]json.RawMessage
		if err := json.Unmarshal(req.Body, &m); err != nil {
			t.Fatal(err)
		}
		patches = append(patches, m)
	}
	if len(patches) != 2 {
		t.Fatalf("expected two patches, got %d", len(patches))
	}
	if _, ok := patches[0]["title"]; !ok || len(patches[0]) != 1 {
		t.Errorf("expected a title-only patch, got %v", patches[0])
	}
	if string(patches[1]["tags"]) != `["red","hot"]` || len(patches[1]) != 1 {
		t.Errorf("expected a tags-only patch, got %v", patches[1])
	}

	stored, _ := fake.Recipe(r.ID)
	if stored.Title != "Tomato soup" {
		t.Errorf("unexpected stored title %q", stored.Title)
	}
}

func TestRunRecipesEdit_Lists(t *testing.T) {
	a, fake := loggedInApp(t)
	r := fake.Seed("alice", client.Recipe{
		Title: "Bread",
		Ingredients: []client.Ingredient{
			{Name: "flour", Amount: 500, UnitType: "g"},
			{Name: "sugar", Amount: 1, UnitType: "tbsp"},
		},
		Steps: []client.Step{{Description: "Knead"}, {Description: "Mix"}},
	})
	var buf bytes.Buffer

	opts := editOptions{
		AddIngredients:    []string{"1 1/2 tsp salt", "300 ml warm water"},
		RemoveIngredients: []int{2},
		MoveStepUp:        []int{2},
		AddSteps:          []string{"Bake"},
	}
	if code := runRecipesEdit(context.Background(), a, &buf, r.ID, opts); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}

	stored, _ := fake.Recipe(r.ID)
	var names []string
	for _, ing := range stored.Ingredients {
		names = append(names, ing.Name)
	}
	if strings.Join(names, ",") != "flour,salt,warm water" {
		t.Errorf("unexpected ingredients %v", names)
	}
	if stored.Ingredients[1].Amount != 1.5 || stored.Ingredients[1].UnitType != "tsp" {
		t.Errorf("unexpected parsed ingredient %+v", stored.Ingredients[1])
	}
	var steps []string
	for _, s := range stored.Steps {
		steps = append(steps, s.Description)
	}
	if strings.Join(steps, ",") != "Mix,Knead,Bake" {
		t.Errorf("unexpected steps %v", steps)
	}
}

func TestRunRecipesEdit_ValidationFailureSendsNothing(t *testing.T) {
	a, fake := loggedInApp(t)
	r := fake.Seed("alice", client.Recipe{Title: "Soup"})
	var buf bytes.Buffer

	if code := runRecipesEdit(context.Background(), a, &buf, r.ID, editOptions{Title: strPtr("  ")}); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), editor.ErrTitleRequired.Error()) {
		t.Errorf("unexpected output %q", buf.String())
	}
	if n := fake.CountRequests(http.MethodPatch, "/recipes/"+r.ID+"/"); n != 0 {
		t.Errorf("expected no patch, got %d", n)
	}
	if _, busy := a.Slot.Active(); busy {
		t.Error("expected editor closed after validation failure")
	}
}

func TestRunRecipesEdit_MoveStepPastEndFails(t *testing.T) {
	a, fake := loggedInApp(t)
	r := fake.Seed("alice", client.Recipe{
		Title: "Bread",
		Steps: []client.Step{{Description: "Knead"}, {Description: "Mix"}},
	})
	var buf bytes.Buffer

	if code := runRecipesEdit(context.Background(), a, &buf, r.ID, editOptions{MoveStepDown: []int{5}}); code != 1 {
		t.Fatalf("expected exit code 1, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "position 5") || strings.Contains(buf.String(), "Updated") {
		t.Errorf("unexpected output %q", buf.String())
	}
	if n := fake.CountRequests(http.MethodPatch, "/recipes/"+r.ID+"/"); n != 0 {
		t.Errorf("expected no patch, got %d", n)
	}
	if _, busy := a.Slot.Active(); busy {
		t.Error("expected editor closed after a bad position")
	}
}

func TestSetField_ServerFailureQueuesNotification(t *testing.T) {
	a, fake := loggedInApp(t)
	r := fake.Seed("alice", client.Recipe{Title: "Soup"})
	o := a.EditRecipe(r)

	fake.FailNext(http.StatusInternalServerError)
	err := setField(editor.Title, "Stew")(context.Background(), o)

	if code, ok := client.StatusCode(err); !ok || code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
	if o.Recipe().Title != "Soup" {
		t.Errorf("snapshot must be unchanged, got %q", o.Recipe().Title)
	}

	var buf bytes.Buffer
	flushToasts(a, &buf)
	if buf.String() != "Error: Action failed received status code '500', when saving recipe title\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
	if _, busy := a.Slot.Active(); busy {
		t.Error("expected editor closed after a failed save")
	}
}

func TestRunRecipesEdit_BadInputSendsNothing(t *testing.T) {
	a, fake := loggedInApp(t)
	r := fake.Seed("alice", client.Recipe{Title: "Soup"})
	var buf bytes.Buffer

	opts := editOptions{AddIngredients: []string{"a pinch of salt"}}
	if code := runRecipesEdit(context.Background(), a, &buf, r.ID, opts); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if len(fake.Requests()) != 1 {
		t.Errorf("expected only the login request, got %d", len(fake.Requests()))
	}
}

func TestParseIngredient(t *testing.T) {
	tests := []struct {
		in      string
		want    client.Ingredient
		wantErr bool
	}{
		{"2 tbsp butter", client.Ingredient{Amount: 2, UnitType: "tbsp", Name: "butter"}, false},
		{"1 1/2 cup plain flour", client.Ingredient{Amount: 1.5, UnitType: "cup", Name: "plain flour"}, false},
		{"3/4 cup milk", client.Ingredient{Amount: 0.75, UnitType: "cup", Name: "milk"}, false},
		{"2 eggs", client.Ingredient{}, true},
		{"some salt", client.Ingredient{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseIngredient(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Amount != tt.want.Amount || got.UnitType != tt.want.UnitType || got.Name != tt.want.Name {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseYields(t *testing.T) {
	info, err := parseYields("4 servings")
	if err != nil || info.Yields == nil || info.Yields.Value != 4 || info.Yields.UnitType != "servings" {
		t.Errorf("unexpected yields %+v, %v", info.Yields, err)
	}

	info, err = parseYields("  ")
	if err != nil || info.Yields != nil {
		t.Errorf("expected blank to clear yields, got %+v, %v", info.Yields, err)
	}

	if _, err := parseYields("lots"); !errors.Is(err, fraction.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
