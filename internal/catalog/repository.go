package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/models"
)

// ErrLoadFailed is the only error a catalog load surfaces. Connectivity,
// permission and decoding failures are not distinguished.
var ErrLoadFailed = errors.New("catalog load failed")

// Source reads the whole products table in store naming
type Source interface {
	FetchProducts(ctx context.Context) ([]models.ProductRow, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) ([]models.ProductRow, error)

func (f SourceFunc) FetchProducts(ctx context.Context) ([]models.ProductRow, error) {
	return f(ctx)
}

// HealthChecker is implemented by sources that can report connectivity
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Repository maps source rows into products. Each Load is exactly one
// source read; nothing is cached or retried.
type Repository struct {
	source Source
}

func NewRepository(source Source) *Repository {
	return &Repository{source: source}
}

// Load reads every row, maps it and drops paused products.
func (r *Repository) Load(ctx context.Context) ([]models.Product, error) {
	if r == nil || r.source == nil {
		return nil, fmt.Errorf("%w: no source configured", ErrLoadFailed)
	}
	rows, err := r.source.FetchProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		p := row.ToProduct()
		if p.IsPaused {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// Health delegates to the source when it supports health checks
func (r *Repository) Health(ctx context.Context) error {
	if r == nil || r.source == nil {
		return errors.New("no source configured")
	}
	if hc, ok := r.source.(HealthChecker); ok {
		return hc.Health(ctx)
	}
	return nil
}
