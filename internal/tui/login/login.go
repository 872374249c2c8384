// ABOUTME: Login and signup form as a bubbletea model
// ABOUTME: Collects the API location and credentials with a huh form

package login

import (
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/cooking-codex/internal/tui/widgets"
)

// Mode selects what the form submits
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

func (m Mode) String() string {
	if m == ModeSignup {
		return "signup"
	}
	return "login"
}

// SubmittedMsg is sent when the form is filled in
type SubmittedMsg struct {
	Mode     Mode
	APIURL   string
	Username string
	Password string
}

// Model is the login screen
type Model struct {
	form *huh.Form

	mode     Mode
	apiURL   string
	username string
	password string

	busy   bool
	notice string
}

// New creates the form; apiURL and username prefill their fields
func New(apiURL, username string) *Model {
	m := &Model{apiURL: apiURL, username: username}
	m.form = m.buildForm()
	return m
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Mode]().
				Title("Welcome to Cooking Codex").
				Options(
					huh.NewOption("Log in", ModeLogin),
					huh.NewOption("Create account", ModeSignup),
				).
				Value(&m.mode),
			huh.NewInput().
				Title("Server").
				Description("API location, e.g. http://localhost:8000/api").
				Value(&m.apiURL).
				Validate(ValidateURL),
			huh.NewInput().
				Title("Username").
				Value(&m.username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.password).
				Validate(required("password")),
		),
	).WithTheme(huh.ThemeBase()).WithShowHelp(true)
}

// ValidateURL accepts absolute http(s) URLs
func ValidateURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errInvalidURL
	}
	return nil
}

// Busy reports whether a submission is in flight
func (m *Model) Busy() bool {
	return m.busy
}

// Retry rebuilds the form after a failed submission, keeping everything
// but the password
func (m *Model) Retry() {
	m.busy = false
	m.password = ""
	m.form = m.buildForm()
}

// SetNotice shows a status line above the form
func (m *Model) SetNotice(notice string) {
	m.notice = notice
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		submitted := SubmittedMsg{
			Mode:     m.mode,
			APIURL:   strings.TrimSpace(m.apiURL),
			Username: strings.TrimSpace(m.username),
			Password: m.password,
		}
		return m, func() tea.Msg { return submitted }
	}
	return m, cmd
}

// View implements tea.Model
func (m *Model) View() string {
	if m.busy {
		if m.mode == ModeSignup {
			return "Creating account..."
		}
		return "Logging in..."
	}
	if m.notice != "" {
		return widgets.StatusText(m.notice, widgets.StatusOK) + "\n\n" + m.form.View()
	}
	return m.form.View()
}
