package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/logging"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Catalog source drivers
const (
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
	SourceS3       = "s3"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Config holds the service configuration
type Config struct {
	Port             string         `yaml:"port"`
	GinMode          string         `yaml:"gin_mode"`
	Source           string         `yaml:"source"`
	Database         DatabaseConfig `yaml:"database"`
	SQLitePath       string         `yaml:"sqlite_path"`
	S3               S3Config       `yaml:"s3"`
	PlaceholderImage string         `yaml:"placeholder_image"`
	FetchTimeout     time.Duration  `yaml:"fetch_timeout"`
	MaxPageSessions  int            `yaml:"max_page_sessions"`
	CORSOrigins      []string       `yaml:"cors_origins"`
}

// DatabaseConfig holds Postgres connection settings. URL wins over the discrete fields.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	Table    string `yaml:"table"`
}

// S3Config locates a JSON snapshot of the products table
type S3Config struct {
	Bucket string `yaml:"bucket"`
	Key    string `yaml:"key"`
	Region string `yaml:"region"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Port:     "8080",
		Source:   SourcePostgres,
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "storefront",
			Name:    "storefront_db",
			SSLMode: "prefer",
			Table:   "products",
		},
		SQLitePath:       "storefront.db",
		S3:               S3Config{Key: "catalog/products.json", Region: "eu-central-1"},
		PlaceholderImage: "/placeholder-image.jpg",
		FetchTimeout:     10 * time.Second,
		MaxPageSessions:  1024,
	}
}

// Load reads .env (optional), the YAML file named by STOREFRONT_CONFIG (optional)
// and then environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logging.LogKV("info", "No .env file found, using environment variables", nil)
	}

	cfg := Default()
	if path := os.Getenv("STOREFRONT_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays a YAML file onto cfg
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables onto cfg
func (c *Config) ApplyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.Source = strings.ToLower(getEnv("CATALOG_SOURCE", c.Source))

	c.Database.URL = getEnv("DATABASE_URL", c.Database.URL)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.Table = getEnv("PRODUCTS_TABLE", c.Database.Table)
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			logging.LogKV("warn", "Invalid DB_PORT value, keeping default", map[string]interface{}{
				"value":   v,
				"default": c.Database.Port,
			})
		} else {
			c.Database.Port = port
		}
	}

	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)

	c.S3.Bucket = getEnv("CATALOG_S3_BUCKET", c.S3.Bucket)
	c.S3.Key = getEnv("CATALOG_S3_KEY", c.S3.Key)
	if region := os.Getenv("AWS_REGION"); region != "" {
		c.S3.Region = region
	} else if region := os.Getenv("AWS_DEFAULT_REGION"); region != "" {
		c.S3.Region = region
	}

	c.PlaceholderImage = getEnv("PLACEHOLDER_IMAGE_URL", c.PlaceholderImage)

	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FETCH_TIMEOUT %q: %w", v, err)
		}
		c.FetchTimeout = d
	}
	if v := os.Getenv("MAX_PAGE_SESSIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_PAGE_SESSIONS %q: %w", v, err)
		}
		c.MaxPageSessions = n
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}
	return nil
}

// Validate checks that the selected source is fully configured
func (c *Config) Validate() error {
	var errs []error
	switch c.Source {
	case SourcePostgres:
		if c.Database.URL == "" && c.Database.Host == "" {
			errs = append(errs, errors.New("postgres source needs DATABASE_URL or DB_HOST"))
		}
	case SourceSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite source needs SQLITE_PATH"))
		}
	case SourceS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("s3 source needs CATALOG_S3_BUCKET"))
		}
		if c.S3.Key == "" {
			errs = append(errs, errors.New("s3 source needs CATALOG_S3_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CATALOG_SOURCE %q", c.Source))
	}
	if c.Source != SourceS3 && !tableName.MatchString(c.Database.Table) {
		errs = append(errs, fmt.Errorf("invalid PRODUCTS_TABLE %q", c.Database.Table))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, errors.New("FETCH_TIMEOUT must be positive"))
	}
	if c.MaxPageSessions <= 0 {
		errs = append(errs, errors.New("MAX_PAGE_SESSIONS must be positive"))
	}
	return errors.Join(errs...)
}

// ConnString builds the pgx connection string
func (d DatabaseConfig) ConnString() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Password == "" {
		return fmt.Sprintf(
			"host=%s port=%d user=%s dbname=%s sslmode=%s",
			d.Host,
			d.Port,
			d.User,
			d.Name,
			d.SSLMode,
		)
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
