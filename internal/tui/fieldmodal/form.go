// ABOUTME: Form based modals for single valued recipe fields
// ABOUTME: Title, descriptions, tags and yields are edited with huh forms

package fieldmodal

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/editor"
	"github.com/markalston/cooking-codex/internal/fraction"
	"github.com/markalston/cooking-codex/internal/tui/icons"
)

// YieldUnits are offered as suggestions for the yields unit
var YieldUnits = []string{
	"servings", "g", "kg", "ml", "l", "tsp", "tbsp", "cup", "oz", "lb", "can", "bottle", "jar",
}

// FormModal edits one field of type T through a huh form. The form
// inputs are bound to values.
type FormModal[T any] struct {
	title   string
	e       *editor.Editor[T]
	values  []string
	build   func(values []string) *huh.Form
	collect func(values []string) (T, error)

	form   *huh.Form
	saving bool
	err    error
}

func newFormModal[T any](title string, e *editor.Editor[T], values []string,
	build func([]string) *huh.Form, collect func([]string) (T, error)) *FormModal[T] {
	m := &FormModal[T]{title: icons.Edit.String() + " " + title, e: e, values: values, build: build, collect: collect}
	m.form = build(m.values)
	return m
}

// Field implements Modal
func (m *FormModal[T]) Field() string {
	return m.e.Name()
}

// Cancel closes the editor without saving
func (m *FormModal[T]) Cancel() {
	m.e.Cancel()
}

// Err returns the inline error, if any
func (m *FormModal[T]) Err() error {
	return m.err
}

// Init implements Modal
func (m *FormModal[T]) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements Modal
func (m *FormModal[T]) Update(msg tea.Msg) (Modal, tea.Cmd) {
	if saved, ok := msg.(savedMsg); ok {
		m.saving = false
		inline, cmd := afterSave(m.e, m.Field(), saved.err)
		if inline != nil {
			m.err = inline
			m.form = m.build(m.values)
			return m, m.form.Init()
		}
		return m, cmd
	}
	if m.saving {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return m, cancel(m.e, m.Field())
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.submit()
	}
	return m, cmd
}

// submit moves the form values into the draft and starts the save
func (m *FormModal[T]) submit() tea.Cmd {
	v, err := m.collect(m.values)
	if err == nil {
		err = m.e.SetDraft(v)
	}
	if err != nil {
		m.err = err
		m.form = m.build(m.values)
		return m.form.Init()
	}
	m.err = nil
	m.saving = true
	return saveCmd(m.e.Save)
}

// View implements Modal
func (m *FormModal[T]) View() string {
	body := ""
	if !m.saving {
		body = m.form.View()
	}
	return frame(m.title, body, m.err, m.saving, "esc cancel")
}

// NewText edits a string field. Multiline fields use a text area.
func NewText(o *editor.Orchestrator, f editor.Field[string], title string, multiline bool) (*FormModal[string], error) {
	e, err := editor.Open(o, f, nil)
	if err != nil {
		return nil, err
	}
	build := func(v []string) *huh.Form {
		var field huh.Field
		if multiline {
			t := huh.NewText().Title(title).Value(&v[0]).Lines(8)
			if f.Validate != nil {
				t = t.Validate(f.Validate)
			}
			field = t
		} else {
			in := huh.NewInput().Title(title).Value(&v[0])
			if f.Validate != nil {
				in = in.Validate(f.Validate)
			}
			field = in
		}
		return huh.NewForm(huh.NewGroup(field)).WithTheme(huh.ThemeBase()).WithShowHelp(false)
	}
	collect := func(v []string) (string, error) {
		return strings.TrimSpace(v[0]), nil
	}
	return newFormModal("Edit "+f.Name, e, []string{e.Draft()}, build, collect), nil
}

// NewTags edits tags as a comma separated line
func NewTags(o *editor.Orchestrator) (*FormModal[[]string], error) {
	e, err := editor.Open(o, editor.Tags, nil)
	if err != nil {
		return nil, err
	}
	build := func(v []string) *huh.Form {
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Tags").
				Description("Comma separated").
				Value(&v[0]),
		)).WithTheme(huh.ThemeBase()).WithShowHelp(false)
	}
	collect := func(v []string) ([]string, error) {
		return editor.NormalizeTags(strings.Split(v[0], ",")), nil
	}
	return newFormModal("Edit tags", e, []string{strings.Join(e.Draft(), ", ")}, build, collect), nil
}

// NewYields edits serving information. Leaving both fields blank clears it.
func NewYields(o *editor.Orchestrator) (*FormModal[client.Info], error) {
	e, err := editor.Open(o, editor.Info, nil)
	if err != nil {
		return nil, err
	}
	values := []string{"", ""}
	if y := e.Draft().Yields; y != nil {
		values = []string{fraction.Format(y.Value), y.UnitType}
	}
	build := func(v []string) *huh.Form {
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Amount").
				Description("e.g. 4 or 1 1/2").
				Value(&v[0]).
				Validate(optionalAmount),
			huh.NewInput().
				Title("Unit").
				Suggestions(YieldUnits).
				Value(&v[1]),
		)).WithTheme(huh.ThemeBase()).WithShowHelp(false)
	}
	collect := func(v []string) (client.Info, error) {
		return yieldsInfo(v[0], v[1])
	}
	return newFormModal("Edit yields", e, values, build, collect), nil
}

func optionalAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := fraction.Parse(s)
	return err
}

// yieldsInfo builds Info from the form strings
func yieldsInfo(amount, unit string) (client.Info, error) {
	amount, unit = strings.TrimSpace(amount), strings.TrimSpace(unit)
	if amount == "" && unit == "" {
		return client.Info{}, nil
	}
	v, err := fraction.Parse(amount)
	if err != nil {
		return client.Info{}, fmt.Errorf("amount %q: %w", amount, err)
	}
	return client.Info{Yields: &client.Yields{Value: v, UnitType: unit}}, nil
}
