// ABOUTME: Edit command for cooking-codex CLI
// ABOUTME: Applies field changes one editor at a time, each saved as a partial update

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/cooking-codex/internal/app"
	"github.com/markalston/cooking-codex/internal/client"
	"github.com/markalston/cooking-codex/internal/editor"
	"github.com/markalston/cooking-codex/internal/fraction"
)

// editOptions holds the requested changes; nil pointers are left alone
type editOptions struct {
	Title            *string
	ShortDescription *string
	LongDescription  *string
	Tags             *[]string
	Yields           *string

	AddIngredients    []string
	RemoveIngredients []int
	AddSteps          []string
	RemoveSteps       []int
	MoveStepUp        []int
	MoveStepDown      []int
}

var editFlags struct {
	title, short, long, yields string
	tags                       []string
	addIngredients, addSteps   []string
	removeIngredients          []int
	removeSteps                []int
	moveUp, moveDown           []int
}

var recipesEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a recipe",
	Long: `Edit fields of a recipe. Each changed field is saved on its own; only that field is sent.

Ingredients are written as "AMOUNT UNIT NAME", e.g. "1 1/2 cup flour".
Yields are written as "AMOUNT UNIT", e.g. "4 servings"; pass an empty value to clear.
Positions are 1-based.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := editOptionsFromFlags(cmd)
		withApp(func(a *app.App) int {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return runRecipesEdit(ctx, a, os.Stdout, args[0], opts)
		})(cmd, args)
	},
}

func init() {
	f := recipesEditCmd.Flags()
	f.StringVar(&editFlags.title, "title", "", "New title")
	f.StringVar(&editFlags.short, "short-description", "", "New one line summary")
	f.StringVar(&editFlags.long, "long-description", "", "New markdown description")
	f.StringSliceVar(&editFlags.tags, "tags", nil, "Replace tags (comma separated)")
	f.StringVar(&editFlags.yields, "yields", "", `Serving information, e.g. "4 servings"`)
	f.StringArrayVar(&editFlags.addIngredients, "add-ingredient", nil, `Append an ingredient, e.g. "2 tbsp butter"`)
	f.IntSliceVar(&editFlags.removeIngredients, "remove-ingredient", nil, "Remove the ingredient at a position")
	f.StringArrayVar(&editFlags.addSteps, "add-step", nil, "Append a step")
	f.IntSliceVar(&editFlags.removeSteps, "remove-step", nil, "Remove the step at a position")
	f.IntSliceVar(&editFlags.moveUp, "move-step-up", nil, "Move the step at a position up")
	f.IntSliceVar(&editFlags.moveDown, "move-step-down", nil, "Move the step at a position down")

	recipesCmd.AddCommand(recipesEditCmd)
}

func editOptionsFromFlags(cmd *cobra.Command) editOptions {
	changed := cmd.Flags().Changed
	opts := editOptions{
		AddIngredients:    editFlags.addIngredients,
		RemoveIngredients: editFlags.removeIngredients,
		AddSteps:          editFlags.addSteps,
		RemoveSteps:       editFlags.removeSteps,
		MoveStepUp:        editFlags.moveUp,
		MoveStepDown:      editFlags.moveDown,
	}
	if changed("title") {
		opts.Title = &editFlags.title
	}
	if changed("short-description") {
		opts.ShortDescription = &editFlags.short
	}
	if changed("long-description") {
		opts.LongDescription = &editFlags.long
	}
	if changed("tags") {
		opts.Tags = &editFlags.tags
	}
	if changed("yields") {
		opts.Yields = &editFlags.yields
	}
	return opts
}

// runRecipesEdit fetches the recipe, applies each change and returns exit code
func runRecipesEdit(ctx context.Context, a *app.App, w io.Writer, id string, opts editOptions) int {
	changes, err := opts.changes()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if len(changes) == 0 {
		fmt.Fprintln(w, "Nothing to change")
		return 0
	}

	c, err := a.Client()
	if err != nil {
		return fail(a, w, err, "loading recipe")
	}
	r, err := c.GetRecipe(ctx, id)
	if err != nil {
		return fail(a, w, err, "loading recipe")
	}

	o := a.EditRecipe(*r)

	for _, apply := range changes {
		if err := apply(ctx, o); err != nil {
			// network failures were already queued as notifications
			if a.Toasts.Len() > 0 {
				flushToasts(a, w)
			} else {
				fmt.Fprintf(w, "Error: %v\n", err)
			}
			return 1
		}
	}

	updated := o.Recipe()
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(updated, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Updated %s (%s)\n", updated.Title, updated.ID)
	}
	return 0
}

type change func(ctx context.Context, o *editor.Orchestrator) error

// changes turns the options into editor sessions, parsing input first so
// nothing is saved when any value is malformed
func (opts editOptions) changes() ([]change, error) {
	var out []change

	if opts.Title != nil {
		out = append(out, setField(editor.Title, *opts.Title))
	}
	if opts.ShortDescription != nil {
		out = append(out, setField(editor.ShortDescription, *opts.ShortDescription))
	}
	if opts.LongDescription != nil {
		out = append(out, setField(editor.LongDescription, *opts.LongDescription))
	}
	if opts.Tags != nil {
		out = append(out, setField(editor.Tags, *opts.Tags))
	}
	if opts.Yields != nil {
		info, err := parseYields(*opts.Yields)
		if err != nil {
			return nil, err
		}
		out = append(out, setField(editor.Info, info))
	}

	if len(opts.AddIngredients) > 0 || len(opts.RemoveIngredients) > 0 {
		var adds []client.Ingredient
		for _, s := range opts.AddIngredients {
			ing, err := parseIngredient(s)
			if err != nil {
				return nil, err
			}
			adds = append(adds, ing)
		}
		removes := opts.RemoveIngredients
		out = append(out, editList(editor.Ingredients, func(l *editor.ListEditor[client.Ingredient]) error {
			if err := removeDescending(l, removes); err != nil {
				return err
			}
			for _, ing := range adds {
				if err := l.Append(ing); err != nil {
					return err
				}
			}
			return nil
		}))
	}

	if len(opts.AddSteps) > 0 || len(opts.RemoveSteps) > 0 || len(opts.MoveStepUp) > 0 || len(opts.MoveStepDown) > 0 {
		adds, removes, ups, downs := opts.AddSteps, opts.RemoveSteps, opts.MoveStepUp, opts.MoveStepDown
		out = append(out, editList(editor.Steps, func(l *editor.ListEditor[client.Step]) error {
			if err := removeDescending(l, removes); err != nil {
				return err
			}
			for _, pos := range ups {
				if err := l.MoveUp(pos - 1); err != nil {
					return fmt.Errorf("position %d: %w", pos, err)
				}
			}
			for _, pos := range downs {
				if err := l.MoveDown(pos - 1); err != nil {
					return fmt.Errorf("position %d: %w", pos, err)
				}
			}
			for _, s := range adds {
				if err := l.Append(client.Step{Description: s}); err != nil {
					return err
				}
			}
			return nil
		}))
	}

	return out, nil
}

// setField replaces a single valued field
func setField[T any](f editor.Field[T], v T) change {
	return func(ctx context.Context, o *editor.Orchestrator) error {
		e, err := editor.Open(o, f, nil)
		if err != nil {
			return err
		}
		if err := e.SetDraft(v); err != nil {
			e.Cancel()
			return err
		}
		return saveOrCancel(ctx, e)
	}
}

// editList opens a list field, applies edit to the draft and saves
func editList[E any](f editor.Field[[]E], edit func(*editor.ListEditor[E]) error) change {
	return func(ctx context.Context, o *editor.Orchestrator) error {
		l, err := editor.OpenList(o, f, nil)
		if err != nil {
			return err
		}
		if err := edit(l); err != nil {
			l.Cancel()
			return err
		}
		return saveOrCancel(ctx, l.Editor)
	}
}

// saveOrCancel saves, closing the editor when validation keeps it open
func saveOrCancel[T any](ctx context.Context, e *editor.Editor[T]) error {
	err := e.Save(ctx)
	if err != nil && e.State() == editor.StateOpen {
		e.Cancel()
	}
	return err
}

// removeDescending removes 1-based positions from the end first so
// earlier positions stay valid
func removeDescending[E any](l *editor.ListEditor[E], positions []int) error {
	sorted := slices.Clone(positions)
	slices.Sort(sorted)
	slices.Reverse(sorted)
	for _, pos := range sorted {
		if err := l.Remove(pos - 1); err != nil {
			return fmt.Errorf("position %d: %w", pos, err)
		}
	}
	return nil
}

// parseYields reads "AMOUNT UNIT"; blank clears the yields
func parseYields(s string) (client.Info, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return client.Info{}, nil
	}
	amount, rest, err := splitAmount(s)
	if err != nil {
		return client.Info{}, fmt.Errorf("yields %q: %w", s, err)
	}
	return client.Info{Yields: &client.Yields{Value: amount, UnitType: rest}}, nil
}

// parseIngredient reads "AMOUNT UNIT NAME"
func parseIngredient(s string) (client.Ingredient, error) {
	amount, rest, err := splitAmount(strings.TrimSpace(s))
	if err != nil {
		return client.Ingredient{}, fmt.Errorf("ingredient %q: %w", s, err)
	}
	unit, name, ok := strings.Cut(rest, " ")
	if !ok || strings.TrimSpace(name) == "" {
		return client.Ingredient{}, fmt.Errorf("ingredient %q: %w", s, editor.ErrIngredientInvalid)
	}
	return client.Ingredient{Amount: amount, UnitType: unit, Name: strings.TrimSpace(name)}, nil
}

// splitAmount parses a leading amount, trying a mixed number ("1 1/2")
// before a single token
func splitAmount(s string) (float64, string, error) {
	fields := strings.Fields(s)
	if len(fields) >= 3 {
		if v, err := fraction.Parse(fields[0] + " " + fields[1]); err == nil && strings.Contains(fields[1], "/") {
			return v, strings.Join(fields[2:], " "), nil
		}
	}
	if len(fields) < 2 {
		return 0, "", fraction.ErrInvalid
	}
	v, err := fraction.Parse(fields[0])
	if err != nil {
		return 0, "", err
	}
	return v, strings.Join(fields[1:], " "), nil
}
