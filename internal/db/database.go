package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/config"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/logging"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database holds the database connection pool
type Database struct {
	Pool  *pgxpool.Pool
	table string
}

// NewDatabase creates a new database connection with retry logic for serverless databases
func NewDatabase(cfg config.DatabaseConfig) (*Database, error) {
	return NewDatabaseWithRetry(cfg, 5, time.Second)
}

// NewDatabaseWithRetry creates a new database connection with configurable retry logic
func NewDatabaseWithRetry(cfg config.DatabaseConfig, maxRetries int, initialDelay time.Duration) (*Database, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Set pool settings
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	origHost := poolConfig.ConnConfig.Host

	// Prefer simple protocol (no prepared statements) to be pooler friendly
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	poolConfig.ConnConfig.DialFunc = func(ctx context.Context, network, address string) (net.Conn, error) {
		// Prefer IPv4 when available, fall back to dual-stack
		host, port, err := net.SplitHostPort(address)
		if err != nil || host == "" || port == "" {
			host = origHost
			port = "5432"
		}
		ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		if err == nil {
			for _, ipa := range ips {
				if ipv4 := ipa.IP.To4(); ipv4 != nil {
					return (&net.Dialer{}).DialContext(ctx, "tcp4", net.JoinHostPort(ipv4.String(), port))
				}
			}
			if len(ips) > 0 {
				return (&net.Dialer{}).DialContext(ctx, "tcp", net.JoinHostPort(ips[0].IP.String(), port))
			}
		}
		return (&net.Dialer{}).DialContext(ctx, "tcp", address)
	}
	if poolConfig.ConnConfig.TLSConfig != nil && poolConfig.ConnConfig.TLSConfig.ServerName == "" {
		poolConfig.ConnConfig.TLSConfig.ServerName = origHost
	}

	var pool *pgxpool.Pool
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		logging.LogKV("info", "database connection attempt", map[string]interface{}{
			"attempt":      attempt,
			"max_attempts": maxRetries,
			"user":         poolConfig.ConnConfig.User,
			"host":         poolConfig.ConnConfig.Host,
			"port":         poolConfig.ConnConfig.Port,
		})

		pool, err = pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err != nil {
			lastErr = fmt.Errorf("failed to create connection pool: %w", err)
			logging.LogKV("warn", "failed to create pool", map[string]interface{}{"attempt": attempt, "error": err.Error()})
			if attempt < maxRetries {
				time.Sleep(time.Duration(attempt-1) * initialDelay)
			}
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = pool.Ping(ctx)
		cancel()

		if err == nil {
			break
		}

		lastErr = fmt.Errorf("failed to ping database: %w", err)
		logging.LogKV("warn", "database ping failed", map[string]interface{}{"attempt": attempt, "error": err.Error()})
		pool.Close()
		pool = nil

		if attempt < maxRetries {
			// Exponential backoff: 1s, 2s, 4s, 8s
			delay := initialDelay * time.Duration(1<<(attempt-1))
			logging.LogKV("info", "retrying database connection", map[string]interface{}{"delay": delay.String()})
			time.Sleep(delay)
		}
	}

	if pool == nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, lastErr)
	}

	logging.LogKV("info", "database connection established", nil)
	table := cfg.Table
	if table == "" {
		table = "products"
	}
	return &Database{Pool: pool, table: table}, nil
}

// Close closes the database connection pool
func (db *Database) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		logging.LogKV("info", "Database connection pool closed", nil)
	}
}

// Health checks if the database is healthy
func (db *Database) Health(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return errors.New("database not initialized")
	}
	return db.Pool.Ping(ctx)
}

// FetchProducts reads the whole products table in one query
func (db *Database) FetchProducts(ctx context.Context) ([]models.ProductRow, error) {
	if db == nil || db.Pool == nil {
		return nil, errors.New("database not initialized")
	}

	rows, err := db.Pool.Query(ctx, selectProducts(db.table))
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

// selectProducts builds the full-scan query. The table name is validated by config.
func selectProducts(table string) string {
	return `
        SELECT
            id,
            COALESCE(name, '') AS name,
            COALESCE(category, '') AS category,
            subcategory,
            COALESCE(price, 0)::float8 AS price,
            image_url,
            COALESCE(unit_type::text, 'unit') AS unit_type,
            promotion_price::float8 AS promotion_price,
            COALESCE(is_paused, false) AS is_paused
        FROM ` + table + `
        ORDER BY id
    `
}
