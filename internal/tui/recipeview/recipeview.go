// ABOUTME: Recipe detail screen with field editing modals
// ABOUTME: Renders the recipe as markdown and opens one field editor at a time

package recipeview

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/cooking-codex/internal/app"
	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/editor"
	"github.com/markalston/cooking-codex/internal/render"
	"github.com/markalston/cooking-codex/internal/tui/fieldmodal"
	"github.com/markalston/cooking-codex/internal/tui/icons"
	"github.com/markalston/cooking-codex/internal/tui/recentimages"
	"github.com/markalston/cooking-codex/internal/tui/styles"
	"github.com/markalston/cooking-codex/internal/tui/widgets"
)

const (
	loadAction   = "loading recipe"
	deleteAction = "deleting recipe"
)

// BackMsg asks to leave the recipe
type BackMsg struct{}

// DeletedMsg is sent after the recipe was deleted
type DeletedMsg struct {
	ID string
}

type loadedMsg struct {
	recipe *client.Recipe
	err    error
}

type deletedMsg struct {
	err error
}

// View shows one recipe
type View struct {
	app   *app.App
	id    string
	style string

	o        *editor.Orchestrator
	viewport viewport.Model
	modal    fieldmodal.Modal
	recent   *recentimages.Store

	confirmDelete bool
	err           error
	width         int
	height        int
}

// New creates the screen for recipe id; style is a glamour style name
func New(a *app.App, id, style string) *View {
	return &View{
		app:      a,
		id:       id,
		style:    style,
		viewport: viewport.New(80, 20),
		recent:   recentimages.New(a.Config.ConfigDir),
	}
}

// Init loads the recipe
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	a, id := v.app, v.id
	return func() tea.Msg {
		c, err := a.Client()
		if err != nil {
			return loadedMsg{err: err}
		}
		r, err := c.GetRecipe(context.Background(), id)
		return loadedMsg{recipe: r, err: err}
	}
}

// Recipe returns the current snapshot, if loaded
func (v *View) Recipe() (client.Recipe, bool) {
	if v.o == nil {
		return client.Recipe{}, false
	}
	return v.o.Recipe(), true
}

// Editing reports whether a field modal is open
func (v *View) Editing() bool {
	return v.modal != nil
}

// Close cancels any open field editor
func (v *View) Close() {
	if v.modal != nil {
		v.modal.Cancel()
		v.modal = nil
	}
}

// SetSize sizes the viewport
func (v *View) SetSize(width, height int) {
	v.width, v.height = width, height
	v.viewport.Width = width
	v.viewport.Height = max(height-2, 1)
	v.refresh()
}

// refresh re-renders the snapshot into the viewport
func (v *View) refresh() {
	if v.o == nil {
		return
	}
	r := v.o.Recipe()
	imageURL := ""
	if s, ok := v.app.Sessions.Session(); ok && r.ImageID != nil {
		imageURL = s.ImageURL(*r.ImageID)
	}
	v.viewport.SetContent(render.Terminal(render.Markdown(r, imageURL), v.viewport.Width, v.style))
}

// Update implements tea.Model
func (v *View) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case loadedMsg:
		if msg.err != nil {
			v.app.Fail(msg.err, loadAction)
			return v, back
		}
		if v.o == nil {
			v.o = v.app.EditRecipe(*msg.recipe)
		} else {
			v.o.Replace(*msg.recipe)
		}
		v.refresh()
		return v, nil

	case deletedMsg:
		if msg.err != nil {
			v.app.Fail(msg.err, deleteAction)
			return v, nil
		}
		id := v.id
		return v, func() tea.Msg { return DeletedMsg{ID: id} }

	case fieldmodal.ClosedMsg:
		v.modal = nil
		v.refresh()
		return v, nil
	}

	if v.modal != nil {
		var cmd tea.Cmd
		v.modal, cmd = v.modal.Update(msg)
		return v, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		return v.handleKey(k)
	}
	return v, nil
}

func back() tea.Msg {
	return BackMsg{}
}

func (v *View) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.confirmDelete {
		v.confirmDelete = false
		if k.String() == "y" {
			return v, v.delete()
		}
		return v, nil
	}

	if v.o == nil {
		if k.String() == "esc" || k.String() == "b" {
			return v, back
		}
		return v, nil
	}

	v.err = nil
	switch k.String() {
	case "esc", "b":
		return v, back
	case "r":
		return v, v.load()
	case "D":
		v.confirmDelete = true
		return v, nil
	case "t":
		return v, v.open(func() (fieldmodal.Modal, error) {
			return fieldmodal.NewText(v.o, editor.Title, "Title", false)
		})
	case "s":
		return v, v.open(func() (fieldmodal.Modal, error) {
			return fieldmodal.NewText(v.o, editor.ShortDescription, "Short description", false)
		})
	case "l":
		return v, v.open(func() (fieldmodal.Modal, error) {
			return fieldmodal.NewText(v.o, editor.LongDescription, "Description (markdown)", true)
		})
	case "g":
		return v, v.open(func() (fieldmodal.Modal, error) { return fieldmodal.NewTags(v.o) })
	case "y":
		return v, v.open(func() (fieldmodal.Modal, error) { return fieldmodal.NewYields(v.o) })
	case "i":
		return v, v.open(func() (fieldmodal.Modal, error) { return fieldmodal.NewIngredients(v.o) })
	case "m":
		return v, v.open(func() (fieldmodal.Modal, error) { return fieldmodal.NewSteps(v.o) })
	case "p":
		return v, v.open(func() (fieldmodal.Modal, error) { return fieldmodal.NewImage(v.o, v.recent) })
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(k)
	return v, cmd
}

// open starts a field modal; a busy editor slot is shown inline
func (v *View) open(newModal func() (fieldmodal.Modal, error)) tea.Cmd {
	m, err := newModal()
	if err != nil {
		v.err = err
		return nil
	}
	v.modal = m
	return m.Init()
}

func (v *View) delete() tea.Cmd {
	a, id := v.app, v.id
	return func() tea.Msg {
		c, err := a.Client()
		if err != nil {
			return deletedMsg{err: err}
		}
		return deletedMsg{err: c.DeleteRecipe(context.Background(), id)}
	}
}

// View implements tea.Model
func (v *View) View() string {
	if v.o == nil {
		return widgets.StatusText("Loading recipe...", widgets.StatusInfo)
	}
	if v.modal != nil {
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, v.modal.View())
	}

	var sb strings.Builder
	sb.WriteString(v.viewport.View())
	sb.WriteString("\n")
	switch {
	case v.confirmDelete:
		sb.WriteString(styles.StatusCritical.Render(icons.Delete.String() + " Delete this recipe? y to confirm, any other key to keep it"))
	case v.err != nil:
		sb.WriteString(widgets.StatusText(v.err.Error(), widgets.StatusWarning))
	}
	return sb.String()
}
