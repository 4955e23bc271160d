package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_SOURCE", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/catalog.db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("PRODUCTS_TABLE", "public.products")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("MAX_PAGE_SESSIONS", "12")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("PLACEHOLDER_IMAGE_URL", "/img/none.png")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" || cfg.Source != SourceSQLite || cfg.SQLitePath != "/tmp/catalog.db" {
		t.Fatalf("unexpected server settings: %+v", cfg)
	}
	if cfg.Database.Port != 6543 || cfg.Database.Table != "public.products" {
		t.Fatalf("unexpected database settings: %+v", cfg.Database)
	}
	if cfg.FetchTimeout != 3*time.Second || cfg.MaxPageSessions != 12 || cfg.PlaceholderImage != "/img/none.png" {
		t.Fatalf("unexpected page settings: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"https://a.example", "https://b.example"}, cfg.CORSOrigins); diff != "" {
		t.Fatalf("unexpected CORS origins (-want +got):\n%s", diff)
	}
}

func TestApplyEnv_InvalidDBPortKeepsDefault(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")
	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Port != 5432 {
		t.Fatalf("expected default port kept, got %d", cfg.Database.Port)
	}
}

func TestApplyEnv_InvalidTimeout(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "soon")
	if err := Default().ApplyEnv(); err == nil {
		t.Fatalf("expected error for invalid FETCH_TIMEOUT")
	}
}

func TestApplyEnv_AWSRegionFallback(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "us-east-1")
	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.S3.Region != "us-east-1" {
		t.Fatalf("expected AWS_DEFAULT_REGION fallback, got %q", cfg.S3.Region)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	data := `
port: "7000"
source: s3
s3:
  bucket: catalog-exports
  key: daily/products.json
fetch_timeout: 4s
cors_origins:
  - https://shop.example
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7000" || cfg.Source != SourceS3 {
		t.Fatalf("unexpected settings: %+v", cfg)
	}
	want := S3Config{Bucket: "catalog-exports", Key: "daily/products.json", Region: "eu-central-1"}
	if diff := cmp.Diff(want, cfg.S3); diff != "" {
		t.Fatalf("unexpected s3 settings (-want +got):\n%s", diff)
	}
	if cfg.FetchTimeout != 4*time.Second {
		t.Fatalf("expected 4s fetch timeout, got %v", cfg.FetchTimeout)
	}
	if cfg.Database.Table != "products" {
		t.Fatalf("expected unset keys to keep defaults, got table %q", cfg.Database.Table)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected file config to validate, got %v", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if err := Default().LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Source = SourceS3
	cfg.S3 = S3Config{}
	cfg.FetchTimeout = 0
	cfg.MaxPageSessions = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"CATALOG_S3_BUCKET", "CATALOG_S3_KEY", "FETCH_TIMEOUT", "MAX_PAGE_SESSIONS"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}
}

func TestValidate_RejectsUnsafeTableName(t *testing.T) {
	cfg := Default()
	cfg.Database.Table = "products; DROP TABLE products"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid table name to be rejected")
	}
}

func TestValidate_UnknownSource(t *testing.T) {
	cfg := Default()
	cfg.Source = "mysql"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected unknown source to be rejected")
	}
}

func TestConnString(t *testing.T) {
	d := Default().Database
	if got, want := d.ConnString(), "host=localhost port=5432 user=storefront dbname=storefront_db sslmode=prefer"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	d.Password = "secret"
	if got := d.ConnString(); !strings.Contains(got, "password=secret") {
		t.Fatalf("expected password in %q", got)
	}

	d.URL = "postgres://u:p@db:5432/shop"
	if got := d.ConnString(); got != d.URL {
		t.Fatalf("expected DATABASE_URL to win, got %q", got)
	}
}
