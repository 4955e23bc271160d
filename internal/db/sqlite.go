package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/logging"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteStore is a local copy of the products table, used for development
// and offline catalogs.
type SQLiteStore struct {
	DB    *sql.DB
	table string
}

// OpenSQLite opens (or creates) a SQLite catalog file
func OpenSQLite(ctx context.Context, path, table string) (*SQLiteStore, error) {
	if table == "" {
		table = "products"
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite catalog: %w", err)
	}
	// A single writer avoids SQLITE_BUSY during seeding
	conn.SetMaxOpenConns(1)
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping sqlite catalog: %w", err)
	}
	logging.LogKV("info", "sqlite catalog opened", map[string]interface{}{"path": path, "table": table})
	return &SQLiteStore{DB: conn, table: table}, nil
}

func (s *SQLiteStore) Close() error {
	return s.DB.Close()
}

func (s *SQLiteStore) Health(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// EnsureSchema creates the products table with the hosted table's columns
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS `+s.table+` (
            id INTEGER PRIMARY KEY,
            name TEXT NOT NULL,
            category TEXT NOT NULL,
            subcategory TEXT,
            price REAL NOT NULL,
            image_url TEXT,
            unit_type TEXT NOT NULL DEFAULT 'unit',
            promotion_price REAL,
            is_paused INTEGER NOT NULL DEFAULT 0
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

// InsertRows upserts rows by id in one transaction
func (s *SQLiteStore) InsertRows(ctx context.Context, rows []models.ProductRow) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
        INSERT OR REPLACE INTO `+s.table+`
            (id, name, category, subcategory, price, image_url, unit_type, promotion_price, is_paused)
        VALUES
            (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		unitType := r.UnitType
		if unitType == "" {
			unitType = models.UnitTypeUnit
		}
		if _, err := stmt.ExecContext(ctx,
			r.ID,
			r.Name,
			r.Category,
			nullString(r.Subcategory),
			r.Price,
			nullString(r.ImageURL),
			unitType,
			nullFloat(r.PromotionPrice),
			r.IsPaused,
		); err != nil {
			return fmt.Errorf("failed to insert product %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FetchProducts reads the whole products table in one query
func (s *SQLiteStore) FetchProducts(ctx context.Context) ([]models.ProductRow, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT
            id,
            COALESCE(name, ''),
            COALESCE(category, ''),
            subcategory,
            CAST(COALESCE(price, 0) AS REAL),
            image_url,
            COALESCE(unit_type, 'unit'),
            CAST(promotion_price AS REAL),
            COALESCE(is_paused, 0)
        FROM `+s.table+`
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.ProductRow
	for rows.Next() {
		var p models.ProductRow
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Category,
			&p.Subcategory,
			&p.Price,
			&p.ImageURL,
			&p.UnitType,
			&p.PromotionPrice,
			&p.IsPaused,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
