// ABOUTME: New recipe screen
// ABOUTME: Collects a title and summary, creates the recipe, then hands over its id

package newrecipe

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/cooking-codex/internal/app"
	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/editor"
	"github.com/markalston/cooking-codex/internal/tui/styles"
)

const createAction = "creating recipe"

// CreatedMsg carries the new recipe
type CreatedMsg struct {
	Recipe client.Recipe
}

// CancelledMsg is sent when the form is abandoned
type CancelledMsg struct{}

type createdMsg struct {
	recipe *client.Recipe
	err    error
}

// Model is the new recipe form
type Model struct {
	app  *app.App
	form *huh.Form

	title string
	short string
	tags  string

	creating bool
}

// New creates an empty form
func New(a *app.App) *Model {
	m := &Model{app: a}
	m.form = m.buildForm()
	return m
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.title).
				Validate(editor.Title.Validate),
			huh.NewInput().
				Title("Short description").
				Value(&m.short),
			huh.NewInput().
				Title("Tags").
				Description("Comma separated").
				Value(&m.tags),
		).Title("New recipe"),
	).WithTheme(huh.ThemeBase()).WithShowHelp(true)
}

// payload builds the create request from the form values
func (m *Model) payload() client.CreateRecipe {
	req := client.CreateRecipe{Title: strings.TrimSpace(m.title)}
	if s := strings.TrimSpace(m.short); s != "" {
		req.ShortDescription = &s
	}
	if tags := editor.NormalizeTags(strings.Split(m.tags, ",")); len(tags) > 0 {
		req.Tags = tags
	}
	return req
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if created, ok := msg.(createdMsg); ok {
		m.creating = false
		if created.err != nil {
			m.app.Fail(created.err, createAction)
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		r := *created.recipe
		return m, func() tea.Msg { return CreatedMsg{Recipe: r} }
	}
	if m.creating {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.create()
	}
	return m, cmd
}

func (m *Model) create() tea.Cmd {
	m.creating = true
	a, req := m.app, m.payload()
	return func() tea.Msg {
		c, err := a.Client()
		if err != nil {
			return createdMsg{err: err}
		}
		r, err := c.CreateRecipe(context.Background(), req)
		return createdMsg{recipe: r, err: err}
	}
}

// View implements tea.Model
func (m *Model) View() string {
	if m.creating {
		return styles.Subtitle.Render("Creating recipe...")
	}
	return m.form.View()
}
