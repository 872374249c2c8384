// ABOUTME: Editable recipe fields and their validation
// ABOUTME: Each field maps a draft value onto a single-field partial update

package editor

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/markalston/cooking-codex/internal/client"
)

var (
	ErrTitleRequired       = errors.New("title is required")
	ErrYieldsInvalid       = errors.New("yields need a positive amount and a unit")
	ErrIngredientInvalid   = errors.New("ingredient needs a name, a unit and a positive amount")
	ErrStepDescriptionNone = errors.New("step needs a description")
)

// Title is the recipe title; it may not be blank
var Title = Field[string]{
	Name:   "title",
	Action: "saving recipe title",
	Get:    func(r client.Recipe) string { return r.Title },
	Set:    func(r *client.Recipe, v string) { r.Title = v },
	Patch:  func(v string) client.UpdateRecipe { return client.UpdateRecipe{Title: &v} },
	Validate: func(v string) error {
		if strings.TrimSpace(v) == "" {
			return ErrTitleRequired
		}
		return nil
	},
}

// ShortDescription is the one line summary shown in listings
var ShortDescription = Field[string]{
	Name:   "short description",
	Action: "saving recipe short description",
	Get:    func(r client.Recipe) string { return deref(r.ShortDescription) },
	Set:    func(r *client.Recipe, v string) { r.ShortDescription = optional(v) },
	Patch:  func(v string) client.UpdateRecipe { return client.UpdateRecipe{ShortDescription: &v} },
}

// LongDescription is free-form markdown
var LongDescription = Field[string]{
	Name:   "long description",
	Action: "saving recipe long description",
	Get:    func(r client.Recipe) string { return deref(r.LongDescription) },
	Set:    func(r *client.Recipe, v string) { r.LongDescription = optional(v) },
	Patch:  func(v string) client.UpdateRecipe { return client.UpdateRecipe{LongDescription: &v} },
}

// Tags are free-form labels; blanks and duplicates are dropped on save
var Tags = Field[[]string]{
	Name:   "tags",
	Action: "saving recipe tags",
	Get:    func(r client.Recipe) []string { return r.Tags },
	Set:    func(r *client.Recipe, v []string) { r.Tags = NormalizeTags(v) },
	Patch: func(v []string) client.UpdateRecipe {
		tags := NormalizeTags(v)
		return client.UpdateRecipe{Tags: &tags}
	},
	Clone: func(v []string) []string { return slices.Clone(v) },
}

// Info is serving information
var Info = Field[client.Info]{
	Name:   "info",
	Action: "saving recipe info",
	Get:    func(r client.Recipe) client.Info { return r.Info },
	Set:    func(r *client.Recipe, v client.Info) { r.Info = v },
	Patch:  func(v client.Info) client.UpdateRecipe { return client.UpdateRecipe{Info: &v} },
	Validate: func(v client.Info) error {
		if v.Yields == nil {
			return nil
		}
		if v.Yields.Value <= 0 || strings.TrimSpace(v.Yields.UnitType) == "" {
			return ErrYieldsInvalid
		}
		return nil
	},
	Clone: client.Info.Clone,
}

// Ingredients is the ordered ingredient list, committed as a whole
var Ingredients = Field[[]client.Ingredient]{
	Name:   "ingredients",
	Action: "saving recipe ingredients",
	Get:    func(r client.Recipe) []client.Ingredient { return r.Ingredients },
	Set:    func(r *client.Recipe, v []client.Ingredient) { r.Ingredients = v },
	Patch: func(v []client.Ingredient) client.UpdateRecipe {
		if v == nil {
			v = []client.Ingredient{}
		}
		return client.UpdateRecipe{Ingredients: &v}
	},
	Validate: func(v []client.Ingredient) error {
		for i, ing := range v {
			if strings.TrimSpace(ing.Name) == "" || strings.TrimSpace(ing.UnitType) == "" || ing.Amount <= 0 {
				return fmt.Errorf("ingredient %d: %w", i+1, ErrIngredientInvalid)
			}
		}
		return nil
	},
	Clone: client.CloneIngredients,
}

// Steps is the ordered method, committed as a whole
var Steps = Field[[]client.Step]{
	Name:   "steps",
	Action: "saving recipe steps",
	Get:    func(r client.Recipe) []client.Step { return r.Steps },
	Set:    func(r *client.Recipe, v []client.Step) { r.Steps = v },
	Patch: func(v []client.Step) client.UpdateRecipe {
		if v == nil {
			v = []client.Step{}
		}
		return client.UpdateRecipe{Steps: &v}
	},
	Validate: func(v []client.Step) error {
		for i, s := range v {
			if strings.TrimSpace(s.Description) == "" {
				return fmt.Errorf("step %d: %w", i+1, ErrStepDescriptionNone)
			}
		}
		return nil
	},
	Clone: client.CloneSteps,
}

// NormalizeTags trims tags and drops blanks and repeats, keeping order
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
