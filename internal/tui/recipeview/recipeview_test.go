// ABOUTME: Tests for the recipe detail screen
// ABOUTME: Loads from the fake API and drives modals and deletion by key

package recipeview

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/cooking-codex/internal/app/apptest"
	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/editor"
	"github.com/markalston/cooking-codex/internal/render"
	"github.com/markalston/cooking-codex/internal/tui/fieldmodal"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// deliver runs cmd and feeds its message back into v
func deliver(v *View, cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	_, next := v.Update(msg)
	if next != nil {
		return next()
	}
	return msg
}

func TestLoadAndRender(t *testing.T) {
	a, fake := apptest.LoggedIn(t)
	r := fake.Seed("alice", client.Recipe{Title: "Tomato Soup", Tags: []string{"soup"}})

	v := New(a, r.ID, render.StylePlain)
	v.SetSize(80, 30)
	if !strings.Contains(v.View(), "Loading") {
		t.Error("expected loading placeholder")
	}

	deliver(v, v.Init())

	got, ok := v.Recipe()
	if !ok || got.Title != "Tomato Soup" {
		t.Fatalf("expected recipe loaded, got %+v", got)
	}
	if !strings.Contains(v.View(), "Tomato Soup") {
		t.Errorf("expected title in view, got %q", v.View())
	}
}

func TestLoadFailureGoesBack(t *testing.T) {
	a, _ := apptest.LoggedIn(t)
	v := New(a, "missing", render.StylePlain)

	msg := deliver(v, v.Init())

	if _, ok := msg.(BackMsg); !ok {
		t.Errorf("expected BackMsg, got %#v", msg)
	}
	if a.Toasts.Len() != 1 {
		t.Errorf("expected one notification, got %d", a.Toasts.Len())
	}
}

func TestModalOpensAndCancels(t *testing.T) {
	a, fake := apptest.LoggedIn(t)
	r := fake.Seed("alice", client.Recipe{Title: "Soup"})
	v := New(a, r.ID, render.StylePlain)
	deliver(v, v.Init())

	v.Update(runes("t"))
	if !v.Editing() {
		t.Fatal("expected title modal open")
	}
	if name, _ := a.Slot.Active(); name != "title" {
		t.Errorf("expected title editor holding the slot, got %q", name)
	}

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	msg := cmd()
	if _, ok := msg.(fieldmodal.ClosedMsg); !ok {
		t.Fatalf("expected ClosedMsg, got %#v", msg)
	}
	v.Update(msg)

	if v.Editing() {
		t.Error("expected modal closed")
	}
	if _, busy := a.Slot.Active(); busy {
		t.Error("expected slot released")
	}
}

func TestSlotBusyShownInline(t *testing.T) {
	a, fake := apptest.LoggedIn(t)
	r := fake.Seed("alice", client.Recipe{Title: "Soup"})

	other := a.EditRecipe(r)
	e, err := editor.Open(other, editor.Tags, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Cancel()

	v := New(a, r.ID, render.StylePlain)
	deliver(v, v.Init())
	v.Update(runes("i"))

	if v.Editing() {
		t.Error("expected no modal while another editor is open")
	}
	if !errors.Is(v.err, editor.ErrSlotBusy) {
		t.Errorf("expected ErrSlotBusy, got %v", v.err)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	a, fake := apptest.LoggedIn(t)
	r := fake.Seed("alice", client.Recipe{Title: "Soup"})
	v := New(a, r.ID, render.StylePlain)
	deliver(v, v.Init())

	v.Update(runes("D"))
	if !strings.Contains(v.View(), "Delete this recipe?") {
		t.Error("expected confirmation prompt")
	}
	if _, cmd := v.Update(runes("n")); cmd != nil {
		t.Error("expected no delete without confirmation")
	}
	if _, ok := fake.Recipe(r.ID); !ok {
		t.Fatal("recipe deleted without confirmation")
	}

	v.Update(runes("D"))
	_, cmd := v.Update(runes("y"))
	msg := deliver(v, cmd)
	deleted, ok := msg.(DeletedMsg)
	if !ok || deleted.ID != r.ID {
		t.Fatalf("expected DeletedMsg, got %#v", msg)
	}
	if _, ok := fake.Recipe(r.ID); ok {
		t.Error("expected recipe gone from the server")
	}
}
