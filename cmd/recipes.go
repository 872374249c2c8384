// ABOUTME: Recipe commands for cooking-codex CLI
// ABOUTME: List, show, create, and delete recipes

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/markalston/cooking-codex/internal/app"
	"github.com/markalston/cooking-codex/internal/catalog"
	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/editor"
	"github.com/markalston/cooking-codex/internal/render"
)

var (
	listPage    int
	listPerPage int
	listAll     bool

	newTitle string
	newShort string
	newLong  string
	newTags  []string
)

var recipesCmd = &cobra.Command{
	Use:     "recipes",
	Aliases: []string{"recipe"},
	Short:   "Manage recipes",
}

var recipesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your recipes",
	Args:  cobra.NoArgs,
	Run: withApp(func(a *app.App) int {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		perPage := listPerPage
		if perPage <= 0 {
			perPage = a.Config.PerPage
		}
		return runRecipesList(ctx, a, os.Stdout, listPage, perPage, listAll)
	}),
}

var recipesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a recipe",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(func(a *app.App) int {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return runRecipesShow(ctx, a, os.Stdout, args[0], render.DetectStyle())
		})(cmd, args)
	},
}

var recipesNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a recipe",
	Long:  `Create a recipe. Prompts for the title when --title is not given.`,
	Args:  cobra.NoArgs,
	Run: withApp(func(a *app.App) int {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if newTitle == "" {
			if err := promptNewRecipe(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 2
			}
		}
		return runRecipesNew(ctx, a, os.Stdout, newRecipePayload(newTitle, newShort, newLong, newTags))
	}),
}

var recipesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recipe",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(func(a *app.App) int {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return runRecipesDelete(ctx, a, os.Stdout, args[0])
		})(cmd, args)
	},
}

func init() {
	recipesListCmd.Flags().IntVar(&listPage, "page", 1, "Page to show")
	recipesListCmd.Flags().IntVar(&listPerPage, "per-page", 0, "Recipes per page (default COOKING_CODEX_PER_PAGE)")
	recipesListCmd.Flags().BoolVar(&listAll, "all", false, "Fetch every page")

	recipesNewCmd.Flags().StringVar(&newTitle, "title", "", "Recipe title")
	recipesNewCmd.Flags().StringVar(&newShort, "short-description", "", "One line summary")
	recipesNewCmd.Flags().StringVar(&newLong, "long-description", "", "Markdown description")
	recipesNewCmd.Flags().StringSliceVar(&newTags, "tags", nil, "Comma separated tags")

	recipesCmd.AddCommand(recipesListCmd, recipesShowCmd, recipesNewCmd, recipesDeleteCmd)
	rootCmd.AddCommand(recipesCmd)
}

func promptNewRecipe() error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&newTitle).
				Validate(requireText("title")),
			huh.NewInput().
				Title("Short description").
				Value(&newShort),
		),
	).WithTheme(huh.ThemeBase()).Run()
}

// newRecipePayload builds the create request, leaving blank optionals unset
func newRecipePayload(title, short, long string, tags []string) client.CreateRecipe {
	req := client.CreateRecipe{Title: strings.TrimSpace(title)}
	if s := strings.TrimSpace(short); s != "" {
		req.ShortDescription = &s
	}
	if l := strings.TrimSpace(long); l != "" {
		req.LongDescription = &l
	}
	if t := editor.NormalizeTags(tags); len(t) > 0 {
		req.Tags = t
	}
	return req
}

// runRecipesList prints a page (or every page) of recipes and returns exit code
func runRecipesList(ctx context.Context, a *app.App, w io.Writer, page, perPage int, all bool) int {
	c, err := a.Client()
	if err != nil {
		return fail(a, w, err, "loading recipes")
	}

	var recipes []client.Recipe
	hasMore := false
	if all {
		pager := catalog.NewPager(c, perPage)
		for pager.HasMore() {
			if _, err := pager.LoadMore(ctx); err != nil {
				return fail(a, w, err, "loading recipes")
			}
		}
		recipes = pager.Items()
	} else {
		recipes, err = c.ListRecipes(ctx, client.Pagination{Page: page, PerPage: perPage})
		if err != nil {
			return fail(a, w, err, "loading recipes")
		}
		hasMore = len(recipes) == perPage
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(recipes, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}
	fmt.Fprintln(w, formatRecipeTable(recipes))
	if hasMore {
		fmt.Fprintf(w, "\nMore recipes available: --page %d\n", page+1)
	}
	return 0
}

// formatRecipeTable formats recipes one per line
func formatRecipeTable(recipes []client.Recipe) string {
	if len(recipes) == 0 {
		return "No recipes yet. Create one with 'cooking-codex recipes new'."
	}
	var sb strings.Builder
	for i, r := range recipes {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s  %s", r.ID, r.Title)
		if r.ShortDescription != nil && *r.ShortDescription != "" {
			fmt.Fprintf(&sb, " - %s", *r.ShortDescription)
		}
		if len(r.Tags) > 0 {
			fmt.Fprintf(&sb, " [%s]", strings.Join(r.Tags, ", "))
		}
	}
	return sb.String()
}

// runRecipesShow prints one recipe and returns exit code
func runRecipesShow(ctx context.Context, a *app.App, w io.Writer, id, style string) int {
	c, err := a.Client()
	if err != nil {
		return fail(a, w, err, "loading recipe")
	}

	r, err := c.GetRecipe(ctx, id)
	if err != nil {
		return fail(a, w, err, "loading recipe")
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(r, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	imageURL := ""
	if s, ok := a.Sessions.Session(); ok && r.ImageID != nil {
		imageURL = s.ImageURL(*r.ImageID)
	}
	fmt.Fprintln(w, render.Terminal(render.Markdown(*r, imageURL), 80, style))
	return 0
}

// runRecipesNew creates a recipe and returns exit code
func runRecipesNew(ctx context.Context, a *app.App, w io.Writer, req client.CreateRecipe) int {
	if strings.TrimSpace(req.Title) == "" {
		fmt.Fprintf(w, "Error: %v\n", editor.ErrTitleRequired)
		return 2
	}

	c, err := a.Client()
	if err != nil {
		return fail(a, w, err, "creating recipe")
	}

	r, err := c.CreateRecipe(ctx, req)
	if err != nil {
		return fail(a, w, err, "creating recipe")
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(r, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Created %s (%s)\n", r.Title, r.ID)
	}
	return 0
}

// runRecipesDelete deletes a recipe and returns exit code
func runRecipesDelete(ctx context.Context, a *app.App, w io.Writer, id string) int {
	c, err := a.Client()
	if err != nil {
		return fail(a, w, err, "deleting recipe")
	}

	if err := c.DeleteRecipe(ctx, id); err != nil {
		return fail(a, w, err, "deleting recipe")
	}
	fmt.Fprintf(w, "Deleted %s\n", id)
	return 0
}
