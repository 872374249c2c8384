// ABOUTME: Home screen overview: account stats plus the newest recipes
// ABOUTME: Both are fetched concurrently and fail together

package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/markalston/cooking-codex/internal/client"
)

// OverviewSource is the subset of the API the overview reads
type OverviewSource interface {
	Lister
	AccountStats(ctx context.Context) (*client.AccountStats, error)
}

// Overview is what the home screen shows
type Overview struct {
	Stats   client.AccountStats
	Recipes []client.Recipe
	HasMore bool
}

// LoadOverview fetches stats and the first page of recipes in parallel
func LoadOverview(ctx context.Context, api OverviewSource, perPage int) (*Overview, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	var (
		stats   *client.AccountStats
		recipes []client.Recipe
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = api.AccountStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		recipes, err = api.ListRecipes(gctx, client.Pagination{Page: 1, PerPage: perPage})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Overview{
		Stats:   *stats,
		Recipes: recipes,
		HasMore: len(recipes) == perPage,
	}, nil
}
