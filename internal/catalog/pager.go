// ABOUTME: Incremental "load more" paging over the recipe listing
// ABOUTME: Concurrent requests for the same page share one API call

package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/markalston/cooking-codex/internal/client"
)

// DefaultPerPage matches the listing page size
const DefaultPerPage = 20

// Lister fetches one page of recipes
type Lister interface {
	ListRecipes(ctx context.Context, page client.Pagination) ([]client.Recipe, error)
}

// Pager accumulates pages until the API returns a short page.
type Pager struct {
	lister  Lister
	perPage int

	mu         sync.Mutex
	items      []client.Recipe
	next       int
	done       bool
	generation int

	sfGroup singleflight.Group
}

// NewPager creates a pager; perPage <= 0 uses DefaultPerPage
func NewPager(lister Lister, perPage int) *Pager {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &Pager{lister: lister, perPage: perPage, next: 1}
}

// PerPage returns the page size
func (p *Pager) PerPage() int {
	return p.perPage
}

// HasMore reports whether the "load more" affordance should be offered
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.done
}

// Items returns every recipe loaded so far
func (p *Pager) Items() []client.Recipe {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.items)
}

// Reset forgets loaded pages; results of in-flight loads are discarded
func (p *Pager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
	p.next = 1
	p.done = false
	p.generation++
}

// LoadMore fetches the next page and returns its recipes. After the last
// page it returns nil without calling the API.
func (p *Pager) LoadMore(ctx context.Context) ([]client.Recipe, error) {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return nil, nil
	}
	page, gen := p.next, p.generation
	p.mu.Unlock()

	key := fmt.Sprintf("%d/%d", gen, page)
	v, err, _ := p.sfGroup.Do(key, func() (any, error) {
		recipes, err := p.lister.ListRecipes(ctx, client.Pagination{Page: page, PerPage: p.perPage})
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		if p.generation == gen && p.next == page {
			p.items = append(p.items, recipes...)
			p.next++
			p.done = len(recipes) < p.perPage
		}
		return recipes, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]client.Recipe)), nil
}
