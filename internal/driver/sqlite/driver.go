// Package sqlite provides the SQLite driver implementation backed by the
// pure-Go modernc.org/sqlite engine. It registers itself on import.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // registers "sqlite" with database/sql

	"github.com/johndauphine/tabprof/internal/dbconfig"
	"github.com/johndauphine/tabprof/internal/driver"
	"github.com/johndauphine/tabprof/internal/logging"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver for SQLite files.
type Driver struct{}

func (d *Driver) Name() string { return "sqlite" }

func (d *Driver) Aliases() []string { return []string{"sqlite3"} }

func (d *Driver) Defaults() driver.DriverDefaults { return driver.DriverDefaults{} }

func (d *Driver) Dialect() driver.Dialect { return &Dialect{} }

// Open opens the database file named by cfg.Database.
func (d *Driver) Open(ctx context.Context, cfg *dbconfig.SourceConfig) (*sql.DB, error) {
	if strings.TrimSpace(cfg.Database) == "" {
		return nil, fmt.Errorf("sqlite source requires database (file path)")
	}
	dsn := (&Dialect{}).BuildDSN("", 0, cfg.Database, "", "", nil)
	db, err := driver.OpenDB(ctx, "sqlite", dsn, cfg.MaxConns)
	if err != nil {
		return nil, err
	}
	logging.Info("Opened SQLite source: %s", cfg.Database)
	return db, nil
}
