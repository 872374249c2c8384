// ABOUTME: Image modal for uploading or deleting the recipe image
// ABOUTME: Reads a file path from a text input

package fieldmodal

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/cooking-codex/internal/editor"
	"github.com/markalston/cooking-codex/internal/tui/icons"
	"github.com/markalston/cooking-codex/internal/tui/recentimages"
	"github.com/markalston/cooking-codex/internal/tui/styles"
	"github.com/markalston/cooking-codex/internal/tui/widgets"
)

const imageField = "image"

// ImageModal uploads a new image or deletes the current one
type ImageModal struct {
	e      *editor.ImageEditor
	input  textinput.Model
	recent *recentimages.Store

	// pick indexes the recent path shown in the input, -1 for typed text
	pick      int
	uploading string

	saving bool
	err    error
}

// NewImage opens the image editor. recent may be nil.
func NewImage(o *editor.Orchestrator, recent *recentimages.Store) (*ImageModal, error) {
	e, err := editor.OpenImage(o, nil)
	if err != nil {
		return nil, err
	}
	ti := textinput.New()
	ti.Placeholder = "/path/to/photo.jpg"
	ti.CharLimit = 4096
	ti.Width = 50
	ti.Focus()
	return &ImageModal{e: e, input: ti, recent: recent, pick: -1}, nil
}

// Field implements Modal
func (m *ImageModal) Field() string {
	return imageField
}

// Cancel closes the editor without saving
func (m *ImageModal) Cancel() {
	m.e.Cancel()
}

// Err returns the inline error, if any
func (m *ImageModal) Err() error {
	return m.err
}

// Init implements Modal
func (m *ImageModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements Modal
func (m *ImageModal) Update(msg tea.Msg) (Modal, tea.Cmd) {
	if saved, ok := msg.(savedMsg); ok {
		m.saving = false
		inline, cmd := afterSave(m.e, imageField, saved.err)
		m.err = inline
		if saved.err == nil && m.uploading != "" && m.recent != nil {
			if err := m.recent.Add(m.uploading); err != nil {
				slog.Warn("Recent image not remembered", "path", m.uploading, "error", err)
			}
		}
		m.uploading = ""
		return m, cmd
	}
	if m.saving {
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return m, cancel(m.e, imageField)
		case "enter":
			return m, m.upload()
		case "ctrl+d":
			return m, m.remove()
		case "up":
			m.cycle(-1)
			return m, nil
		case "down":
			m.cycle(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// cycle fills the input with the next or previous recent path
func (m *ImageModal) cycle(step int) {
	paths := m.recentPaths()
	if len(paths) == 0 {
		return
	}
	m.pick += step
	if m.pick < 0 {
		m.pick = len(paths) - 1
	}
	if m.pick >= len(paths) {
		m.pick = 0
	}
	m.input.SetValue(paths[m.pick])
	m.input.CursorEnd()
}

func (m *ImageModal) recentPaths() []string {
	if m.recent == nil {
		return nil
	}
	return m.recent.List()
}

func (m *ImageModal) upload() tea.Cmd {
	path := strings.TrimSpace(m.input.Value())
	if path == "" {
		m.err = editor.ErrNoFile
		return nil
	}
	if err := m.e.SelectPath(path); err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.saving = true
	m.uploading = path
	return saveCmd(m.e.Upload)
}

func (m *ImageModal) remove() tea.Cmd {
	if !m.e.HasImage() {
		m.err = editor.ErrNoImage
		return nil
	}
	m.err = nil
	m.saving = true
	return saveCmd(m.e.Delete)
}

// View implements Modal
func (m *ImageModal) View() string {
	help := "enter upload  esc cancel"
	status := styles.Subtitle.Render("No image yet")
	if m.e.HasImage() {
		help = "enter replace  ctrl+d delete  esc cancel"
		status = widgets.StatusText("Has an image", widgets.StatusOK)
	}
	body := status + "\n" + m.input.View()
	if paths := m.recentPaths(); len(paths) > 0 {
		help = "↑↓ recent  " + help
		var sb strings.Builder
		sb.WriteString(styles.Subtitle.UnsetMarginBottom().Render("Recent:"))
		for i, p := range paths {
			sb.WriteString("\n")
			sb.WriteString(styles.Row(p, i == m.pick))
		}
		body += "\n\n" + sb.String()
	}
	return frame(icons.Image.String()+" Recipe image", body, m.err, m.saving, help)
}
