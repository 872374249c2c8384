// ABOUTME: Field editor modals shown over the recipe view
// ABOUTME: Each modal owns one open editor and closes with ClosedMsg

package fieldmodal

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/cooking-codex/internal/editor"
	"github.com/markalston/cooking-codex/internal/tui/styles"
	"github.com/markalston/cooking-codex/internal/tui/widgets"
)

// Modal is an open field editor
type Modal interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Modal, tea.Cmd)
	View() string
	Field() string
	Err() error
	// Cancel discards the draft; a save already in flight still completes
	Cancel()
}

// ClosedMsg is sent once the editor has closed. Saved is false after a
// cancel or a failed save; failures were already reported.
type ClosedMsg struct {
	Field string
	Saved bool
}

type savedMsg struct {
	err error
}

// editorState is the lifecycle surface shared by field and image editors
type editorState interface {
	State() editor.State
	Cancel() error
}

// afterSave turns a save outcome into either an inline error (the editor
// is still open) or a close
func afterSave(e editorState, field string, err error) (inline error, cmd tea.Cmd) {
	if err != nil && e.State() == editor.StateOpen {
		return err, nil
	}
	saved := err == nil
	return nil, func() tea.Msg { return ClosedMsg{Field: field, Saved: saved} }
}

// cancel closes e without saving. An editor that already closed
// (ErrNotOpen) still yields ClosedMsg.
func cancel(e editorState, field string) tea.Cmd {
	_ = e.Cancel()
	return func() tea.Msg { return ClosedMsg{Field: field} }
}

func saveCmd(save func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{err: save(context.Background())}
	}
}

// frame renders a modal body with its title, inline error and key help
func frame(title, body string, err error, saving bool, help string) string {
	parts := []string{styles.Title.Render(title), body}
	if err != nil {
		parts = append(parts, widgets.StatusText(err.Error(), widgets.StatusWarning))
	}
	if saving {
		parts = append(parts, styles.Subtitle.Render("Saving..."))
	} else if help != "" {
		parts = append(parts, styles.Help.Render(help))
	}
	return styles.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
