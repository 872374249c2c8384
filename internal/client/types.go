// ABOUTME: Wire types for the recipe API
// ABOUTME: Mirrors the JSON shapes accepted and returned by the remote service

package client

import (
	"slices"
	"time"
)

// Login is the credential payload for POST /login/
type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginToken is the bearer credential issued by the API
type LoginToken struct {
	Type   string    `json:"type"`
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

// CreateUser is the payload for POST /users/
type CreateUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is returned after creating an account
type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
}

// Pagination selects a page of recipes, pages start at 1
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

// DefaultPagination matches the page size used by the recipe listing
func DefaultPagination() Pagination {
	return Pagination{Page: 1, PerPage: 20}
}

// Ingredient is a single ingredient line; Amount is displayed as a fraction
type Ingredient struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	UnitType    string  `json:"unitType"`
	Description *string `json:"description,omitempty"`
}

// Step is one instruction; ordering is the slice index
type Step struct {
	Title       *string `json:"title,omitempty"`
	Description string  `json:"description"`
}

// Yields is how much a recipe makes
type Yields struct {
	Value    float64 `json:"value"`
	UnitType string  `json:"unitType"`
}

// Info holds serving information
type Info struct {
	Yields *Yields `json:"yields,omitempty"`
}

// Recipe is the full recipe returned by the API
type Recipe struct {
	ID               string       `json:"id"`
	OwnerID          string       `json:"ownerId"`
	Title            string       `json:"title"`
	ShortDescription *string      `json:"shortDescription,omitempty"`
	LongDescription  *string      `json:"longDescription,omitempty"`
	Tags             []string     `json:"tags"`
	Ingredients      []Ingredient `json:"ingredients"`
	Steps            []Step       `json:"steps"`
	Info             Info         `json:"info"`
	ImageID          *string      `json:"imageId,omitempty"`
}

// Clone returns a deep copy so callers can mutate without aliasing
func (r Recipe) Clone() Recipe {
	out := r
	out.ShortDescription = cloneString(r.ShortDescription)
	out.LongDescription = cloneString(r.LongDescription)
	out.ImageID = cloneString(r.ImageID)
	out.Tags = slices.Clone(r.Tags)
	out.Ingredients = CloneIngredients(r.Ingredients)
	out.Steps = CloneSteps(r.Steps)
	out.Info = r.Info.Clone()
	return out
}

// Clone returns a deep copy of the serving info
func (i Info) Clone() Info {
	if i.Yields == nil {
		return Info{}
	}
	y := *i.Yields
	return Info{Yields: &y}
}

// CloneIngredients deep copies an ingredient list
func CloneIngredients(in []Ingredient) []Ingredient {
	if in == nil {
		return nil
	}
	out := make([]Ingredient, len(in))
	for i, ing := range in {
		ing.Description = cloneString(ing.Description)
		out[i] = ing
	}
	return out
}

// CloneSteps deep copies a step list
func CloneSteps(in []Step) []Step {
	if in == nil {
		return nil
	}
	out := make([]Step, len(in))
	for i, s := range in {
		s.Title = cloneString(s.Title)
		out[i] = s
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// CreateRecipe is the payload for POST /recipes/
type CreateRecipe struct {
	Title            string       `json:"title"`
	ShortDescription *string      `json:"shortDescription,omitempty"`
	LongDescription  *string      `json:"longDescription,omitempty"`
	Tags             []string     `json:"tags,omitempty"`
	Ingredients      []Ingredient `json:"ingredients,omitempty"`
	Steps            []Step       `json:"steps,omitempty"`
	Info             *Info        `json:"info,omitempty"`
}

// UpdateRecipe is a partial update: only non-nil fields are sent
// and only those fields change server-side.
type UpdateRecipe struct {
	Title            *string       `json:"title,omitempty"`
	ShortDescription *string       `json:"shortDescription,omitempty"`
	LongDescription  *string       `json:"longDescription,omitempty"`
	Tags             *[]string     `json:"tags,omitempty"`
	Ingredients      *[]Ingredient `json:"ingredients,omitempty"`
	Steps            *[]Step       `json:"steps,omitempty"`
	Info             *Info         `json:"info,omitempty"`
}

// IsEmpty reports whether the update carries no fields
func (u UpdateRecipe) IsEmpty() bool {
	return u.Title == nil && u.ShortDescription == nil && u.LongDescription == nil &&
		u.Tags == nil && u.Ingredients == nil && u.Steps == nil && u.Info == nil
}

// AccountStats is returned by GET /stats/me/
type AccountStats struct {
	UserCount   int64 `json:"userCount"`
	RecipeCount int64 `json:"recipeCount"`
}
