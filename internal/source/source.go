// Package source opens the catalog source selected by configuration.
package source

import (
	"context"
	"fmt"

	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/catalog"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/config"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/db"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/storage"
)

// Open returns the configured source and a function releasing its resources.
func Open(ctx context.Context, cfg *config.Config) (catalog.Source, func(), error) {
	switch cfg.Source {
	case config.SourcePostgres:
		database, err := db.NewDatabase(cfg.Database)
		if err != nil {
			return nil, func() {}, err
		}
		return database, database.Close, nil

	case config.SourceSQLite:
		store, err := db.OpenSQLite(ctx, cfg.SQLitePath, cfg.Database.Table)
		if err != nil {
			return nil, func() {}, err
		}
		return store, func() { _ = store.Close() }, nil

	case config.SourceS3:
		snapshot, err := storage.NewS3Snapshot(ctx, cfg.S3)
		if err != nil {
			return nil, func() {}, err
		}
		return snapshot, func() {}, nil

	default:
		return nil, func() {}, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}
