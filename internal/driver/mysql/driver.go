// Package mysql provides the MySQL/MariaDB driver implementation.
// It registers itself with the driver registry on import.
package mysql

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/johndauphine/tabprof/internal/dbconfig"
	"github.com/johndauphine/tabprof/internal/driver"
	"github.com/johndauphine/tabprof/internal/logging"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver for MySQL and MariaDB.
type Driver struct{}

func (d *Driver) Name() string { return "mysql" }

func (d *Driver) Aliases() []string { return []string{"mariadb"} }

func (d *Driver) Defaults() driver.DriverDefaults {
	return driver.DriverDefaults{Port: 3306}
}

func (d *Driver) Dialect() driver.Dialect { return &Dialect{} }

// Open connects and logs whether the server is MySQL or MariaDB.
func (d *Driver) Open(ctx context.Context, cfg *dbconfig.SourceConfig) (*sql.DB, error) {
	dsn := (&Dialect{}).BuildDSN(cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, cfg.DSNOptions())
	db, err := driver.OpenDB(ctx, "mysql", dsn, cfg.MaxConns)
	if err != nil {
		return nil, err
	}

	var version string
	db.QueryRowContext(ctx, "SELECT VERSION()").Scan(&version)
	dbType := "MySQL"
	if strings.Contains(strings.ToLower(version), "mariadb") {
		dbType = "MariaDB"
	}
	logging.Info("Connected to %s source: %s:%d/%s", dbType, cfg.Host, cfg.Port, cfg.Database)
	return db, nil
}
