// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Routes between screens, follows session presence and shows notifications

package tui

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/cooking-codex/internal/app"
	"github.com/markalston/cooking-codex/internal/catalog"
	"github.com/markalston/cooking-codex/internal/render"
	"github.com/markalston/cooking-codex/internal/session"
	"github.com/markalston/cooking-codex/internal/toast"
	"github.com/markalston/cooking-codex/internal/tui/icons"
	"github.com/markalston/cooking-codex/internal/tui/login"
	"github.com/markalston/cooking-codex/internal/tui/menu"
	"github.com/markalston/cooking-codex/internal/tui/newrecipe"
	"github.com/markalston/cooking-codex/internal/tui/recipelist"
	"github.com/markalston/cooking-codex/internal/tui/recipeview"
	"github.com/markalston/cooking-codex/internal/tui/styles"
	"github.com/markalston/cooking-codex/internal/tui/toasts"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenHome
	ScreenRecipes
	ScreenRecipe
	ScreenNewRecipe
)

// Requirement is the session presence the screen needs
func (s Screen) Requirement() session.Requirement {
	if s == ScreenLogin {
		return session.RequireNoSession
	}
	return session.RequireSession
}

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before the frame stops shrinking
	frameOverhead    = 2  // Header and footer lines
	recentCount      = 5
)

const (
	overviewAction = "loading account stats"
	loginAction    = "logging in"
	signupAction   = "creating account"
)

// presenceMsg carries session presence from the store
type presenceMsg bool

// toastsMsg carries the notification queue contents
type toastsMsg []toast.Notification

type overviewMsg struct {
	overview *catalog.Overview
	err      error
}

type authDoneMsg struct {
	submitted login.SubmittedMsg
	err       error
}

// App is the root model for the TUI
type App struct {
	app      *app.App
	screen   Screen
	width    int
	height   int
	style    string
	loggedIn bool
	notes    []toast.Notification

	presence     <-chan bool
	stopPresence func()
	noteCh       <-chan []toast.Notification
	stopNotes    func()

	// Child models
	login     *login.Model
	menu      *menu.Menu
	list      *recipelist.List
	recipe    *recipeview.View
	newRecipe *newrecipe.Model

	// recipeFrom is the screen the recipe view returns to
	recipeFrom Screen
}

// New creates the TUI over a; call Close when the program exits
func New(a *app.App) *App {
	presence, stopPresence := a.Sessions.Subscribe()
	noteCh, stopNotes := a.Toasts.Subscribe()

	m := &App{
		app:          a,
		style:        render.DetectStyle(),
		presence:     presence,
		stopPresence: stopPresence,
		noteCh:       noteCh,
		stopNotes:    stopNotes,
		menu:         menu.New(),
	}
	m.loggedIn = a.Sessions.HasSession()
	if m.loggedIn {
		m.screen = ScreenHome
	} else {
		m.screen = ScreenLogin
		m.login = login.New(a.Config.APIURL, "")
	}
	return m
}

// Close stops following the session and notifications and releases any
// open editor
func (m *App) Close() {
	m.stopPresence()
	m.stopNotes()
	if m.recipe != nil {
		m.recipe.Close()
	}
}

// Screen returns the active screen
func (m *App) Screen() Screen {
	return m.screen
}

// Init implements tea.Model
func (m *App) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitPresence(), m.waitNotes()}
	switch m.screen {
	case ScreenLogin:
		cmds = append(cmds, m.login.Init())
	case ScreenHome:
		cmds = append(cmds, m.loadOverview())
	}
	return tea.Batch(cmds...)
}

// waitPresence blocks for the next presence change
func (m *App) waitPresence() tea.Cmd {
	ch := m.presence
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return presenceMsg(v)
	}
}

// waitNotes blocks for the next change to the notification queue
func (m *App) waitNotes() tea.Cmd {
	ch := m.noteCh
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return toastsMsg(v)
	}
}

// Update implements tea.Model
func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: m.contentHeight()}
		m.menu.Update(inner)
		if m.list != nil {
			m.list.Update(inner)
		}
		if m.recipe != nil {
			m.recipe.SetSize(inner.Width, inner.Height)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if msg.String() == "q" && m.quitAllowed() {
			return m, tea.Quit
		}
		return m.routeToScreen(msg)

	case presenceMsg:
		cmd := m.handlePresence(bool(msg))
		return m, tea.Batch(cmd, m.waitPresence())

	case toastsMsg:
		m.notes = msg
		return m, m.waitNotes()

	case overviewMsg:
		if msg.err != nil {
			m.app.Fail(msg.err, overviewAction)
			return m, nil
		}
		m.menu.SetOverview(msg.overview)
		return m, nil

	case login.SubmittedMsg:
		return m, m.authenticate(msg)

	case authDoneMsg:
		return m, m.handleAuthDone(msg)

	case menu.SelectedMsg:
		return m, m.handleMenu(msg.Action)

	case menu.OpenRecipeMsg:
		return m, m.openRecipe(msg.ID, ScreenHome)

	case recipelist.OpenMsg:
		return m, m.openRecipe(msg.ID, ScreenRecipes)

	case recipelist.BackMsg:
		return m, m.goHome()

	case recipeview.BackMsg:
		return m, m.leaveRecipe()

	case recipeview.DeletedMsg:
		return m, m.leaveRecipe()

	case newrecipe.CreatedMsg:
		m.newRecipe = nil
		return m, m.openRecipe(msg.Recipe.ID, ScreenHome)

	case newrecipe.CancelledMsg:
		m.newRecipe = nil
		return m, m.goHome()
	}

	// Results of child commands and form internals go to the active screen
	return m.routeToScreen(msg)
}

// quitAllowed reports whether "q" quits rather than being typed
func (m *App) quitAllowed() bool {
	switch m.screen {
	case ScreenRecipes:
		return true
	case ScreenRecipe:
		return m.recipe != nil && !m.recipe.Editing()
	}
	// Home handles q through the menu; forms take it as input
	return false
}

func (m *App) routeToScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case ScreenLogin:
		if m.login != nil {
			_, cmd = m.login.Update(msg)
		}
	case ScreenHome:
		_, cmd = m.menu.Update(msg)
	case ScreenRecipes:
		if m.list != nil {
			_, cmd = m.list.Update(msg)
		}
	case ScreenRecipe:
		if m.recipe != nil {
			_, cmd = m.recipe.Update(msg)
		}
	case ScreenNewRecipe:
		if m.newRecipe != nil {
			_, cmd = m.newRecipe.Update(msg)
		}
	}
	return m, cmd
}

// handlePresence redirects when the active screen's requirement no
// longer holds
func (m *App) handlePresence(loggedIn bool) tea.Cmd {
	m.loggedIn = loggedIn
	if m.screen.Requirement().Satisfied(loggedIn) {
		return nil
	}
	slog.Debug("Redirecting on session change", "logged_in", loggedIn, "screen", m.screen)

	if loggedIn {
		m.login = nil
		return m.goHome()
	}

	if m.recipe != nil {
		m.recipe.Close()
		m.recipe = nil
	}
	m.list = nil
	m.newRecipe = nil
	m.menu = menu.New()
	m.login = login.New(m.app.Config.APIURL, "")
	m.screen = ScreenLogin
	return m.login.Init()
}

// authenticate runs a login or signup submission
func (m *App) authenticate(s login.SubmittedMsg) tea.Cmd {
	a := m.app
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if s.Mode == login.ModeSignup {
			_, err = a.Signup(ctx, s.APIURL, s.Username, s.Password)
		} else {
			_, err = a.Login(ctx, s.APIURL, s.Username, s.Password)
		}
		return authDoneMsg{submitted: s, err: err}
	}
}

func (m *App) handleAuthDone(msg authDoneMsg) tea.Cmd {
	s := msg.submitted
	if msg.err != nil {
		action := loginAction
		if s.Mode == login.ModeSignup {
			action = signupAction
		}
		m.app.Fail(msg.err, action)
		if m.login != nil {
			m.login.Retry()
			return m.login.Init()
		}
		return nil
	}

	if s.Mode == login.ModeSignup && m.login != nil {
		m.login = login.New(s.APIURL, s.Username)
		m.login.SetNotice(fmt.Sprintf("Account %s created. Log in to continue.", s.Username))
		return m.login.Init()
	}
	// A successful login arrives as a presence change
	return nil
}

func (m *App) handleMenu(action menu.Action) tea.Cmd {
	switch action {
	case menu.ActionRecipes:
		c, err := m.app.Client()
		if err != nil {
			m.app.Fail(err, "loading recipes")
			return nil
		}
		m.list = recipelist.New(catalog.NewPager(c, m.app.Config.PerPage), m.app.Fail)
		m.list.Update(tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()})
		m.screen = ScreenRecipes
		return m.list.Init()

	case menu.ActionNewRecipe:
		m.newRecipe = newrecipe.New(m.app)
		m.screen = ScreenNewRecipe
		return m.newRecipe.Init()

	case menu.ActionRefresh:
		return m.loadOverview()

	case menu.ActionLogout:
		if err := m.app.Logout(); err != nil {
			slog.Warn("Stored session was not removed", "error", err)
		}
		return nil

	case menu.ActionQuit:
		return tea.Quit
	}
	return nil
}

func (m *App) goHome() tea.Cmd {
	m.list = nil
	m.screen = ScreenHome
	return m.loadOverview()
}

func (m *App) openRecipe(id string, from Screen) tea.Cmd {
	if m.recipe != nil {
		m.recipe.Close()
	}
	m.recipe = recipeview.New(m.app, id, m.style)
	m.recipe.SetSize(m.width, m.contentHeight())
	m.recipeFrom = from
	m.screen = ScreenRecipe
	return m.recipe.Init()
}

// leaveRecipe returns to where the recipe was opened from, reloading so
// edits and deletions show
func (m *App) leaveRecipe() tea.Cmd {
	if m.recipe != nil {
		m.recipe.Close()
		m.recipe = nil
	}
	if m.recipeFrom == ScreenRecipes && m.list != nil {
		m.screen = ScreenRecipes
		return m.list.Reload()
	}
	return m.goHome()
}

// loadOverview fetches stats and recent recipes for the home screen
func (m *App) loadOverview() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		c, err := a.Client()
		if err != nil {
			return overviewMsg{err: err}
		}
		ov, err := catalog.LoadOverview(context.Background(), c, recentCount)
		return overviewMsg{overview: ov, err: err}
	}
}

// View implements tea.Model
func (m *App) View() string {
	var content string

	switch m.screen {
	case ScreenLogin:
		if m.login != nil {
			content = m.login.View()
		}
	case ScreenHome:
		content = m.menu.View()
	case ScreenRecipes:
		if m.list != nil {
			content = m.list.View()
		}
	case ScreenRecipe:
		if m.recipe != nil {
			content = m.recipe.View()
		}
	case ScreenNewRecipe:
		if m.newRecipe != nil {
			content = m.newRecipe.View()
		}
	}

	if notes := toasts.Render(m.notes, m.frameWidth()); notes != "" {
		content += "\n" + lipgloss.PlaceHorizontal(m.frameWidth(), lipgloss.Right, notes)
	}

	return m.wrapWithFrame(content)
}

// frameWidth is the terminal width less one column, never below the minimum
func (m *App) frameWidth() int {
	width := m.width - 1
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return width
}

// contentHeight calculates the height available between header and footer
func (m *App) contentHeight() int {
	return max(m.height-frameOverhead, 1)
}

// sessionHost names the server the user is logged in to
func (m *App) sessionHost() string {
	s, ok := m.app.Sessions.Session()
	if !ok {
		return ""
	}
	if u, err := url.Parse(s.APIURL); err == nil && u.Host != "" {
		return u.Host
	}
	return s.APIURL
}

// renderHeader creates the header bar with app branding and context
func (m *App) renderHeader() string {
	width := m.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftRendered := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Cooking Codex"))

	rightRendered := ""
	if host := m.sessionHost(); host != "" && m.screen != ScreenLogin {
		rightRendered = " " + contextStyle.Render(host) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftRendered) - lipgloss.Width(rightRendered) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftRendered + strings.Repeat("─", fillWidth) + rightRendered + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts for the screen
func (m *App) renderFooter() string {
	width := m.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	shortcuts := m.shortcuts()

	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ") + " "
	leftPlainText := " " + strings.Join(shortcuts, "  ") + " "

	fillWidth := width - 4 - lipgloss.Width(leftPlainText) // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + "─╯"
	return borderStyle.Render(footer)
}

func (m *App) shortcuts() []string {
	switch m.screen {
	case ScreenLogin:
		return []string{"Tab Next", "Enter Submit", "ctrl+c Quit"}
	case ScreenHome:
		return []string{"↑↓ Navigate", "Enter Select", "n New", "r Refresh", "q Quit"}
	case ScreenRecipes:
		return []string{"↑↓ Navigate", "Enter Open", "m More", "r Reload", "b Back", "q Quit"}
	case ScreenRecipe:
		if m.recipe != nil && m.recipe.Editing() {
			return []string{"Enter Confirm", "Esc Cancel"}
		}
		return []string{"t Title", "s Summary", "l Description", "g Tags", "y Yields", "i Ingredients", "m Method", "p Image", "D Delete", "b Back"}
	case ScreenNewRecipe:
		return []string{"Tab Next", "Enter Create", "Esc Cancel"}
	}
	return nil
}

// wrapWithFrame wraps content with header and footer
func (m *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())

	return sb.String()
}
