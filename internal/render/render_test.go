// ABOUTME: Tests for recipe rendering
// ABOUTME: Checks markdown layout and the plain terminal style

package render

import (
	"strings"
	"testing"

	"github.com/markalston/cooking-codex/internal/client"
)

func ptr(s string) *string { return &s }

func TestIngredient(t *testing.T) {
	tests := []struct {
		in   client.Ingredient
		want string
	}{
		{client.Ingredient{Name: "flour", Amount: 1.5, UnitType: "cup"}, "1 1/2 cup flour"},
		{client.Ingredient{Name: "salt", Amount: 0.25, UnitType: "tsp", Description: ptr("fine")}, "1/4 tsp salt (fine)"},
		{client.Ingredient{Name: "eggs", Amount: 2, UnitType: "servings", Description: ptr("  ")}, "2 servings eggs"},
	}
	for _, tt := range tests {
		if got := Ingredient(tt.in); got != tt.want {
			t.Errorf("Ingredient(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMarkdown(t *testing.T) {
	r := client.Recipe{
		Title:            "Pancakes",
		ShortDescription: ptr("Fluffy"),
		LongDescription:  ptr("Best on **Sundays**."),
		Tags:             []string{"breakfast", "sweet"},
		Info:             client.Info{Yields: &client.Yields{Value: 4, UnitType: "servings"}},
		Ingredients: []client.Ingredient{
			{Name: "flour", Amount: 1.5, UnitType: "cup"},
		},
		Steps: []client.Step{
			{Title: ptr("Mix"), Description: "Whisk everything"},
			{Description: "Fry"},
		},
	}

	md := Markdown(r, "http://media/recipe-image/abc")

	for _, want := range []string{
		"# Pancakes",
		"*Fluffy*",
		"**Tags:** breakfast, sweet",
		"**Yields:** 4 servings",
		"http://media/recipe-image/abc",
		"Best on **Sundays**.",
		"- 1 1/2 cup flour",
		"1. **Mix** Whisk everything",
		"2. Fry",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q\n%s", want, md)
		}
	}
}

func TestMarkdown_Empty(t *testing.T) {
	md := Markdown(client.Recipe{Title: "Blank"}, "")
	if strings.Count(md, "*None yet*") != 2 {
		t.Errorf("expected placeholders for ingredients and steps\n%s", md)
	}
	if strings.Contains(md, "Image") || strings.Contains(md, "Yields") {
		t.Errorf("unexpected optional sections\n%s", md)
	}
}

func TestTerminal_Plain(t *testing.T) {
	out := Terminal("# Soup\n\nHot **broth**", 40, StylePlain)
	if !strings.Contains(out, "Soup") || !strings.Contains(out, "broth") {
		t.Errorf("expected rendered text, got %q", out)
	}
	if Terminal("   ", 40, StylePlain) != "" {
		t.Error("expected empty output for blank markdown")
	}
}

func TestDetectStyle_Override(t *testing.T) {
	t.Setenv("COOKING_CODEX_MD_STYLE", "light")
	if got := DetectStyle(); got != StyleLight {
		t.Errorf("expected light, got %s", got)
	}
	t.Setenv("COOKING_CODEX_MD_STYLE", "")
	t.Setenv("COLORFGBG", "15;0")
	if got := DetectStyle(); got != StyleDark {
		t.Errorf("expected dark from COLORFGBG, got %s", got)
	}
}
