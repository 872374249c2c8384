// ABOUTME: Recipe image commands for cooking-codex CLI
// ABOUTME: Upload or remove a recipe's image through the image editor

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/cooking-codex/internal/app"
	"github.com/markalston/cooking-codex/internal/editor"
)

var recipesImageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage a recipe's image",
}

var recipesImageSetCmd = &cobra.Command{
	Use:   "set <id> <path>",
	Short: "Upload an image for a recipe",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(func(a *app.App) int {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return runImageSet(ctx, a, os.Stdout, args[0], args[1])
		})(cmd, args)
	},
}

var recipesImageDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a recipe's image",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(func(a *app.App) int {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return runImageDelete(ctx, a, os.Stdout, args[0])
		})(cmd, args)
	},
}

func init() {
	recipesImageCmd.AddCommand(recipesImageSetCmd, recipesImageDeleteCmd)
	recipesCmd.AddCommand(recipesImageCmd)
}

// openImageEditor loads the recipe and opens its image editor
func openImageEditor(ctx context.Context, a *app.App, id string, onClose func(*editor.ImageChange)) (*editor.ImageEditor, error) {
	c, err := a.Client()
	if err != nil {
		return nil, err
	}
	r, err := c.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	return editor.OpenImage(a.EditRecipe(*r), onClose)
}

// runImageSet uploads path as the recipe image and returns exit code
func runImageSet(ctx context.Context, a *app.App, w io.Writer, id, path string) int {
	var result *editor.ImageChange
	e, err := openImageEditor(ctx, a, id, func(c *editor.ImageChange) { result = c })
	if err != nil {
		return fail(a, w, err, "loading recipe")
	}
	if err := e.SelectPath(path); err != nil {
		e.Cancel()
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if err := e.Upload(ctx); err != nil {
		flushToasts(a, w)
		return 1
	}

	fmt.Fprintf(w, "Uploaded image for %s\n", id)
	if s, ok := a.Sessions.Session(); ok && result != nil && result.Uploaded() {
		fmt.Fprintln(w, s.ImageURL(*result.ImageID))
	}
	return 0
}

// runImageDelete removes the recipe image and returns exit code
func runImageDelete(ctx context.Context, a *app.App, w io.Writer, id string) int {
	e, err := openImageEditor(ctx, a, id, nil)
	if err != nil {
		return fail(a, w, err, "loading recipe")
	}
	if err := e.Delete(ctx); err != nil {
		if e.State() == editor.StateOpen {
			e.Cancel()
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		flushToasts(a, w)
		return 1
	}
	fmt.Fprintf(w, "Removed image from %s\n", id)
	return 0
}
