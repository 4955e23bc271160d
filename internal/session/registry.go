// Package session keeps mounted storefront pages addressable by id.
package session

import (
	"context"
	"fmt"

	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/catalog"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// PageFactory builds a fresh, unmounted page
type PageFactory func() *catalog.Page

// Registry is a bounded set of mounted pages. Evicting a page unmounts it.
type Registry struct {
	pages   *lru.Cache[string, *catalog.Page]
	newPage PageFactory
}

func NewRegistry(size int, factory PageFactory) (*Registry, error) {
	pages, err := lru.NewWithEvict[string, *catalog.Page](size, func(_ string, p *catalog.Page) {
		p.Unmount()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create page registry: %w", err)
	}
	return &Registry{pages: pages, newPage: factory}, nil
}

// Mount creates a page, starts its fetch and registers it under a new id
func (r *Registry) Mount(ctx context.Context) (string, *catalog.Page) {
	id := uuid.NewString()
	page := r.newPage()
	page.Mount(ctx)
	r.pages.Add(id, page)
	return id, page
}

func (r *Registry) Get(id string) (*catalog.Page, bool) {
	return r.pages.Get(id)
}

// Unmount drops a page. It reports false when the id is unknown.
func (r *Registry) Unmount(id string) bool {
	return r.pages.Remove(id)
}

func (r *Registry) Len() int {
	return r.pages.Len()
}
