package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/johndauphine/tabprof/internal/driver/mssql"
	_ "github.com/johndauphine/tabprof/internal/driver/postgres"
)

func TestParseFileSource(t *testing.T) {
	cfg, err := Parse([]byte(`
source:
  path: data/train.csv
profile:
  targets: [label]
  exclude: [notes]
history:
  path: /tmp/h.db
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Source.Path != "data/train.csv" {
		t.Errorf("Source.Path = %q", cfg.Source.Path)
	}
	if cfg.Profile.MaxDistinctValues != 10 || cfg.Profile.MediaSampleSize != 10 || cfg.Profile.Workers != 4 {
		t.Errorf("profile defaults not applied: %+v", cfg.Profile)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("logging defaults not applied: %+v", cfg.Logging)
	}
	if cfg.History.Path != "/tmp/h.db" {
		t.Errorf("History.Path = %q", cfg.History.Path)
	}
	if cfg.SourceName() != "data/train.csv" {
		t.Errorf("SourceName() = %q", cfg.SourceName())
	}
}

func TestParseDatabaseDefaults(t *testing.T) {
	tests := []struct {
		name       string
		dbType     string
		wantPort   int
		wantSchema string
	}{
		{"postgres", "postgres", 5432, "public"},
		{"postgres alias", "pg", 5432, "public"},
		{"mssql", "mssql", 1433, "dbo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte("source:\n  database:\n    type: " + tt.dbType + "\n    database: shop\n    table: orders\n"))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			db := cfg.Source.Database
			if db.Port != tt.wantPort || db.Schema != tt.wantSchema || db.Host != "localhost" {
				t.Errorf("defaults = port %d schema %q host %q, want %d %q localhost",
					db.Port, db.Schema, db.Host, tt.wantPort, tt.wantSchema)
			}
		})
	}
}

func TestEnvExpansion(t *testing.T) {
	t.Setenv("TABPROF_TEST_PASSWORD", "s3cret")
	t.Setenv("TABPROF_TEST_TABLE", "orders")

	cfg, err := Parse([]byte(`
source:
  database:
    type: postgres
    database: shop
    user: app
    password: ${TABPROF_TEST_PASSWORD}
    table: ${TABPROF_TEST_TABLE}
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Source.Database.Password != "s3cret" || cfg.Source.Database.Table != "orders" {
		t.Errorf("env not expanded: %+v", cfg.Source.Database)
	}

	red := cfg.Redacted()
	if red.Source.Database.Password != "********" {
		t.Errorf("Redacted() kept password %q", red.Source.Database.Password)
	}
	if cfg.Source.Database.Password != "s3cret" {
		t.Error("Redacted() modified the original")
	}
	if got := cfg.SourceName(); got != "postgres://localhost:5432/shop/public.orders" {
		t.Errorf("SourceName() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		errorMsg string
	}{
		{"path and database", "source:\n  path: a.csv\n  database:\n    type: sqlite\n    table: t\n", "not both"},
		{"bad table", "source:\n  database:\n    type: sqlite\n    table: \"t; drop\"\n", "source.database.table"},
		{"bad format", "source:\n  path: a.dat\n  format: xlsx\n", "source.format"},
		{"s3 without endpoint", "source:\n  path: s3://b/k.csv\n", "s3.endpoint"},
		{"negative workers", "profile:\n  workers: -1\n", "profile.workers"},
		{"target excluded", "profile:\n  targets: [a]\n  exclude: [a]\n", "both a target and excluded"},
		{"bad level", "logging:\n  level: loud\n", "logging.level"},
		{"bad log format", "logging:\n  format: xml\n", "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.errorMsg)
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabprof.yaml")
	if err := os.WriteFile(path, []byte("source:\n  path: x.parquet\nlogging:\n  level: debug\n  format: json\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaultAndFinalize(t *testing.T) {
	cfg := Default()
	if cfg.HasSource() {
		t.Error("Default() should have no source")
	}
	cfg.Source.Path = "data.json"
	cfg.Profile.Workers = 8
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if !cfg.HasSource() || cfg.Profile.Workers != 8 {
		t.Errorf("overrides lost: %+v", cfg.Profile)
	}
}
