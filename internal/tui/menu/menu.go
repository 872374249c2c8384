// ABOUTME: Home screen menu with account stats and recent recipes
// ABOUTME: Lets the user browse, create, refresh, log out, or quit

package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/cooking-codex/internal/catalog"
	"github.com/markalston/cooking-codex/internal/tui/icons"
	"github.com/markalston/cooking-codex/internal/tui/styles"
	"github.com/markalston/cooking-codex/internal/tui/widgets"
)

// Action is a home screen choice
type Action int

const (
	ActionRecipes Action = iota
	ActionNewRecipe
	ActionRefresh
	ActionLogout
	ActionQuit
)

// SelectedMsg is sent when an action is chosen
type SelectedMsg struct {
	Action Action
}

// OpenRecipeMsg is sent when a recent recipe is chosen
type OpenRecipeMsg struct {
	ID string
}

type option struct {
	label  string
	icon   icons.Icon
	action Action
}

// Menu is the home screen
type Menu struct {
	options  []option
	cursor   int
	overview *catalog.Overview
	width    int
}

// New creates the home menu
func New() *Menu {
	return &Menu{
		options: []option{
			{label: "Browse recipes", icon: icons.Recipe, action: ActionRecipes},
			{label: "New recipe", icon: icons.Add, action: ActionNewRecipe},
			{label: "Refresh", icon: icons.Refresh, action: ActionRefresh},
			{label: "Log out", icon: icons.Logout, action: ActionLogout},
			{label: "Quit", icon: icons.Quit, action: ActionQuit},
		},
	}
}

// SetOverview replaces the stats and recent recipes shown
func (m *Menu) SetOverview(ov *catalog.Overview) {
	m.overview = ov
	if m.cursor >= m.rowCount() {
		m.cursor = 0
	}
}

// rowCount is actions followed by recent recipes
func (m *Menu) rowCount() int {
	n := len(m.options)
	if m.overview != nil {
		n += len(m.overview.Recipes)
	}
	return n
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < m.rowCount()-1 {
				m.cursor++
			}
		case "r":
			return m, selected(ActionRefresh)
		case "n":
			return m, selected(ActionNewRecipe)
		case "q":
			return m, selected(ActionQuit)
		case "enter":
			if m.cursor < len(m.options) {
				return m, selected(m.options[m.cursor].action)
			}
			id := m.overview.Recipes[m.cursor-len(m.options)].ID
			return m, func() tea.Msg { return OpenRecipeMsg{ID: id} }
		}
	}
	return m, nil
}

func selected(a Action) tea.Cmd {
	return func() tea.Msg { return SelectedMsg{Action: a} }
}

// View implements tea.Model
func (m *Menu) View() string {
	var sb strings.Builder

	if m.overview == nil {
		sb.WriteString(widgets.StatusText("Loading your codex...", widgets.StatusInfo))
	} else {
		cfg := widgets.DefaultMetricBlockConfig()
		recipes := widgets.CountBlock(icons.Recipe, "Recipes", m.overview.Stats.RecipeCount, "in your codex", cfg)
		users := widgets.CountBlock(icons.Users, "Cooks", m.overview.Stats.UserCount, "on this server", cfg)
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, recipes, " ", users))
	}
	sb.WriteString("\n\n")

	for i, opt := range m.options {
		sb.WriteString(styles.Row(fmt.Sprintf("%s %s", opt.icon.String(), opt.label), i == m.cursor))
		sb.WriteString("\n")
	}

	if m.overview != nil && len(m.overview.Recipes) > 0 {
		sb.WriteString("\n")
		sb.WriteString(styles.Title.Render("Recent recipes"))
		sb.WriteString("\n")
		for i, r := range m.overview.Recipes {
			sb.WriteString(styles.Row(r.Title, m.cursor == len(m.options)+i))
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
