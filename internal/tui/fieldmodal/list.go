// ABOUTME: List modals for ingredients and method steps
// ABOUTME: Items are added, edited, removed and reordered in the draft, then saved together

package fieldmodal

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/editor"
	"github.com/markalston/cooking-codex/internal/fraction"
	"github.com/markalston/cooking-codex/internal/render"
	"github.com/markalston/cooking-codex/internal/tui/icons"
	"github.com/markalston/cooking-codex/internal/tui/styles"
)

const listHelp = "a add  e edit  d delete  K/J move  s save  esc cancel"

// itemForm builds a form prefilled from an item and a function reading it back
type itemForm[E any] func(E) (*huh.Form, func() (E, error))

// ListModal edits an ordered list field
type ListModal[E any] struct {
	title  string
	l      *editor.ListEditor[E]
	format func(E) string
	item   itemForm[E]

	cursor int

	// editing is the item index being edited, len(draft) when adding
	editing  int
	form     *huh.Form
	readItem func() (E, error)

	saving bool
	err    error
}

func newListModal[E any](title string, l *editor.ListEditor[E], format func(E) string, item itemForm[E]) *ListModal[E] {
	return &ListModal[E]{title: title, l: l, format: format, item: item, editing: -1}
}

// NewIngredients edits the ingredient list
func NewIngredients(o *editor.Orchestrator) (*ListModal[client.Ingredient], error) {
	l, err := editor.OpenList(o, editor.Ingredients, nil)
	if err != nil {
		return nil, err
	}
	return newListModal(icons.Ingredient.String()+" Edit ingredients", l, render.Ingredient, ingredientForm), nil
}

// NewSteps edits the method
func NewSteps(o *editor.Orchestrator) (*ListModal[client.Step], error) {
	l, err := editor.OpenList(o, editor.Steps, nil)
	if err != nil {
		return nil, err
	}
	return newListModal(icons.Step.String()+" Edit steps", l, formatStep, stepForm), nil
}

// Field implements Modal
func (m *ListModal[E]) Field() string {
	return m.l.Name()
}

// Cancel closes the editor without saving
func (m *ListModal[E]) Cancel() {
	m.l.Cancel()
}

// Err returns the inline error, if any
func (m *ListModal[E]) Err() error {
	return m.err
}

// Init implements Modal
func (m *ListModal[E]) Init() tea.Cmd {
	return nil
}

// Update implements Modal
func (m *ListModal[E]) Update(msg tea.Msg) (Modal, tea.Cmd) {
	if saved, ok := msg.(savedMsg); ok {
		m.saving = false
		inline, cmd := afterSave(m.l, m.Field(), saved.err)
		m.err = inline
		return m, cmd
	}
	if m.saving {
		return m, nil
	}
	if m.form != nil {
		return m.updateItem(msg)
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	n := m.l.Len()
	switch k.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "a":
		var zero E
		return m, m.openItem(n, zero)
	case "e", "enter":
		if n > 0 {
			return m, m.openItem(m.cursor, m.l.Draft()[m.cursor])
		}
	case "d", "delete":
		if n > 0 && m.check(m.l.Remove(m.cursor)) && m.cursor >= n-1 && m.cursor > 0 {
			m.cursor--
		}
	case "K", "shift+up":
		if m.cursor > 0 && m.check(m.l.MoveUp(m.cursor)) {
			m.cursor--
		}
	case "J", "shift+down":
		if m.cursor < n-1 && m.check(m.l.MoveDown(m.cursor)) {
			m.cursor++
		}
	case "s":
		return m, m.save()
	case "esc":
		return m, cancel(m.l, m.Field())
	}
	return m, nil
}

// check records err inline and reports success
func (m *ListModal[E]) check(err error) bool {
	m.err = err
	return err == nil
}

func (m *ListModal[E]) save() tea.Cmd {
	if err := m.l.Validate(); err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.saving = true
	return saveCmd(m.l.Save)
}

func (m *ListModal[E]) openItem(index int, v E) tea.Cmd {
	m.editing = index
	m.form, m.readItem = m.item(v)
	return m.form.Init()
}

func (m *ListModal[E]) closeItem() {
	m.editing = -1
	m.form = nil
	m.readItem = nil
}

func (m *ListModal[E]) updateItem(msg tea.Msg) (Modal, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.closeItem()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State != huh.StateCompleted {
		return m, cmd
	}
	m.commitItem()
	return m, nil
}

// commitItem writes the item form back into the draft
func (m *ListModal[E]) commitItem() {
	v, err := m.readItem()
	if err == nil {
		if m.editing >= m.l.Len() {
			err = m.l.Append(v)
			m.cursor = m.l.Len() - 1
		} else {
			err = m.l.Set(m.editing, v)
		}
	}
	m.err = err
	m.closeItem()
}

// View implements Modal
func (m *ListModal[E]) View() string {
	if m.form != nil {
		verb := "Edit item"
		if m.editing >= m.l.Len() {
			verb = "Add item"
		}
		return frame(m.title+": "+verb, m.form.View(), m.err, false, "esc back")
	}

	draft := m.l.Draft()
	var sb strings.Builder
	if len(draft) == 0 {
		sb.WriteString(styles.Subtitle.Render("Empty. Press a to add."))
	}
	for i, v := range draft {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(styles.Row(fmt.Sprintf("%d. %s", i+1, m.format(v)), i == m.cursor))
	}
	return frame(m.title, sb.String(), m.err, m.saving, listHelp)
}

func formatStep(s client.Step) string {
	if s.Title != nil && *s.Title != "" {
		return *s.Title + ": " + s.Description
	}
	return s.Description
}

func ingredientForm(ing client.Ingredient) (*huh.Form, func() (client.Ingredient, error)) {
	name, unit := ing.Name, ing.UnitType
	amount, desc := "", ""
	if ing.Amount > 0 {
		amount = fraction.Format(ing.Amount)
	}
	if ing.Description != nil {
		desc = *ing.Description
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Name").Value(&name).Validate(required("name")),
		huh.NewInput().Title("Amount").Description("e.g. 2, 1/2 or 1 1/2").Value(&amount).Validate(positiveAmount),
		huh.NewInput().Title("Unit").Suggestions(YieldUnits).Value(&unit).Validate(required("unit")),
		huh.NewInput().Title("Note").Description("Optional, e.g. finely chopped").Value(&desc),
	)).WithTheme(huh.ThemeBase()).WithShowHelp(false)

	read := func() (client.Ingredient, error) {
		v, err := fraction.Parse(amount)
		if err != nil {
			return client.Ingredient{}, err
		}
		out := client.Ingredient{Name: strings.TrimSpace(name), Amount: v, UnitType: strings.TrimSpace(unit)}
		if d := strings.TrimSpace(desc); d != "" {
			out.Description = &d
		}
		return out, nil
	}
	return form, read
}

func stepForm(s client.Step) (*huh.Form, func() (client.Step, error)) {
	title, desc := "", s.Description
	if s.Title != nil {
		title = *s.Title
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Title").Description("Optional").Value(&title),
		huh.NewText().Title("Description").Value(&desc).Lines(4).Validate(required("description")),
	)).WithTheme(huh.ThemeBase()).WithShowHelp(false)

	read := func() (client.Step, error) {
		out := client.Step{Description: strings.TrimSpace(desc)}
		if t := strings.TrimSpace(title); t != "" {
			out.Title = &t
		}
		return out, nil
	}
	return form, read
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func positiveAmount(s string) error {
	v, err := fraction.Parse(s)
	if err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}
