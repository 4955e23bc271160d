package catalog

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/logging"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/models"
)

// Status of the product grid
type Status string

const (
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusEmpty   Status = "empty"
	StatusReady   Status = "ready"
)

const (
	MessageLoading    = "Cargando productos..."
	MessageLoadFailed = "Error al cargar los productos. Intente de nuevo."
	MessageEmpty      = "No se encontraron productos."

	DefaultPlaceholderImage = "/placeholder-image.jpg"
	DefaultFetchTimeout     = 10 * time.Second
)

// View is the recomputed grid for the current selectors
type View struct {
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Criteria Criteria      `json:"criteria"`
	Total    int           `json:"total"`
	Products []models.Card `json:"products"`
}

// PageOption configures a Page
type PageOption func(*Page)

// WithPlaceholder sets the image used for cards without an image
func WithPlaceholder(url string) PageOption {
	return func(p *Page) {
		if url != "" {
			p.placeholder = url
		}
	}
}

// WithFetchTimeout bounds the mount fetch
func WithFetchTimeout(d time.Duration) PageOption {
	return func(p *Page) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// Page is one mounted storefront page. It fetches the catalog exactly once
// and recomputes the grid from that immutable list on every View.
type Page struct {
	repo        *Repository
	selection   *Selection
	header      *Header
	placeholder string
	timeout     time.Duration

	once sync.Once
	done chan struct{}

	mu        sync.RWMutex
	products  []models.Product
	loading   bool
	err       error
	unmounted bool
}

// NewPage creates an unmounted page whose search term lives in the given shared store
func NewPage(repo *Repository, search SearchStore, opts ...PageOption) *Page {
	p := &Page{
		repo:        repo,
		selection:   NewSelection(search),
		placeholder: DefaultPlaceholderImage,
		timeout:     DefaultFetchTimeout,
		done:        make(chan struct{}),
		loading:     true,
	}
	p.header = NewHeader(p.selection.SearchStore(), p.selection.ResetFilters)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mount starts the catalog fetch in the background. Calls after the first are no-ops.
// The fetch outlives ctx cancellation and is bounded only by the fetch timeout.
func (p *Page) Mount(ctx context.Context) {
	p.once.Do(func() {
		go p.load(context.WithoutCancel(ctx))
	})
}

// MountAndWait mounts the page and blocks until the fetch resolves
func (p *Page) MountAndWait(ctx context.Context) error {
	p.Mount(ctx)
	return p.Wait(ctx)
}

// Wait blocks until the mount fetch has resolved and returns its error.
func (p *Page) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		p.mu.RLock()
		defer p.mu.RUnlock()
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unmount marks the page as gone. A fetch still in flight is discarded when it resolves.
func (p *Page) Unmount() {
	p.mu.Lock()
	p.unmounted = true
	p.mu.Unlock()
}

func (p *Page) load(ctx context.Context) {
	defer close(p.done)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	products, err := p.repo.Load(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unmounted {
		logging.LogKV("info", "catalog fetch discarded after unmount", nil)
		return
	}
	p.loading = false
	if err != nil {
		logging.LogKV("error", "Error fetching products", map[string]interface{}{
			"error": err.Error(),
		})
		p.err = err
		return
	}
	p.products = products
	logging.LogKV("info", "catalog fetched", map[string]interface{}{
		"products":   len(products),
		"latency_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	})
}

func (p *Page) Selection() *Selection {
	return p.selection
}

func (p *Page) Header() *Header {
	return p.header
}

// Products returns a copy of the fetched, unpaused catalog
func (p *Page) Products() []models.Product {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.products)
}

// Categories derives the selector options from the fetched catalog
func (p *Page) Categories() []CategoryOption {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Categories(p.products)
}

// View recomputes the grid for the current selectors
func (p *Page) View() View {
	criteria := p.selection.Criteria()

	p.mu.RLock()
	products := p.products
	loading := p.loading
	err := p.err
	p.mu.RUnlock()

	v := View{Criteria: criteria, Total: len(products), Products: []models.Card{}}
	switch {
	case loading:
		v.Status = StatusLoading
		v.Message = MessageLoading
		return v
	case err != nil:
		v.Status = StatusError
		v.Message = MessageLoadFailed
		return v
	}

	result := criteria.Apply(products)
	if len(result) == 0 {
		v.Status = StatusEmpty
		v.Message = MessageEmpty
		return v
	}

	v.Status = StatusReady
	v.Products = make([]models.Card, len(result))
	for i := range result {
		v.Products[i] = result[i].ToCard(p.placeholder)
	}
	return v
}
