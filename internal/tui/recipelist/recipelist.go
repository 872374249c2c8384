// ABOUTME: Paged recipe list screen
// ABOUTME: Loads pages on demand and offers a load more row until the last page

package recipelist

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/markalston/cooking-codex/internal/catalog"
	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/tui/icons"
	"github.com/markalston/cooking-codex/internal/tui/styles"
	"github.com/markalston/cooking-codex/internal/tui/widgets"
)

const loadAction = "loading recipes"

// OpenMsg asks to show a recipe
type OpenMsg struct {
	ID string
}

// BackMsg asks to leave the list
type BackMsg struct{}

type loadedMsg struct {
	err error
}

// List is the recipe list screen
type List struct {
	pager   *catalog.Pager
	fail    func(error, string)
	items   []client.Recipe
	cursor  int
	loading bool
	width   int
	height  int
}

// New creates a list over pager; fail reports load errors
func New(pager *catalog.Pager, fail func(error, string)) *List {
	return &List{pager: pager, fail: fail}
}

// Init loads the first page
func (l *List) Init() tea.Cmd {
	return l.loadMore()
}

// Reload forgets loaded pages and fetches the first one again
func (l *List) Reload() tea.Cmd {
	l.pager.Reset()
	l.items = nil
	l.cursor = 0
	l.loading = false
	return l.loadMore()
}

func (l *List) loadMore() tea.Cmd {
	if l.loading || !l.pager.HasMore() {
		return nil
	}
	l.loading = true
	pager := l.pager
	return func() tea.Msg {
		_, err := pager.LoadMore(context.Background())
		return loadedMsg{err: err}
	}
}

// rows counts recipes plus the load more row when offered
func (l *List) rows() int {
	n := len(l.items)
	if l.pager.HasMore() {
		n++
	}
	return n
}

// Update implements tea.Model
func (l *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width
		l.height = msg.Height
	case loadedMsg:
		l.loading = false
		if msg.err != nil {
			l.fail(msg.err, loadAction)
			return l, nil
		}
		l.items = l.pager.Items()
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if l.cursor > 0 {
				l.cursor--
			}
		case "down", "j":
			if l.cursor < l.rows()-1 {
				l.cursor++
			}
		case "r":
			return l, l.Reload()
		case "m":
			return l, l.loadMore()
		case "esc", "b":
			return l, func() tea.Msg { return BackMsg{} }
		case "enter":
			if l.cursor < len(l.items) {
				id := l.items[l.cursor].ID
				return l, func() tea.Msg { return OpenMsg{ID: id} }
			}
			return l, l.loadMore()
		}
	}
	return l, nil
}

// View implements tea.Model
func (l *List) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Recipe.String() + " Recipes"))
	sb.WriteString("\n")

	if len(l.items) == 0 && !l.pager.HasMore() {
		sb.WriteString(styles.Subtitle.Render("No recipes yet. Press n on the home screen to create one."))
		return sb.String()
	}

	for i, r := range l.items {
		label := r.Title
		if r.ShortDescription != nil && *r.ShortDescription != "" {
			label += styles.Subtitle.UnsetMarginBottom().Render(" - " + *r.ShortDescription)
		}
		if len(r.Tags) > 0 {
			label += " " + widgets.TagBadges(r.Tags)
		}
		// room for the cursor marker and row padding
		if l.width > 6 {
			label = xansi.Truncate(label, l.width-6, "…")
		}
		sb.WriteString(styles.Row(label, i == l.cursor))
		sb.WriteString("\n")
	}

	switch {
	case l.loading:
		sb.WriteString(widgets.StatusText("Loading...", widgets.StatusInfo))
	case l.pager.HasMore():
		sb.WriteString(styles.Row("Load more", l.cursor == len(l.items)))
	default:
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d recipes, that's all of them", len(l.items))))
	}
	return sb.String()
}
