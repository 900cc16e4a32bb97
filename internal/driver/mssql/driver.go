// Package mssql provides the Microsoft SQL Server driver implementation.
// It registers itself with the driver registry on import.
package mssql

import (
	"context"
	"database/sql"

	_ "github.com/microsoft/go-mssqldb" // registers "sqlserver" with database/sql

	"github.com/johndauphine/tabprof/internal/dbconfig"
	"github.com/johndauphine/tabprof/internal/driver"
	"github.com/johndauphine/tabprof/internal/logging"
)

func init() {
	driver.Register(&Driver{})
}

// Driver implements driver.Driver for Microsoft SQL Server.
type Driver struct{}

// Name returns the primary driver name.
func (d *Driver) Name() string {
	return "mssql"
}

// Aliases returns alternative names for the driver.
func (d *Driver) Aliases() []string {
	return []string{"sqlserver", "sql-server"}
}

// Defaults returns the default configuration values for SQL Server.
func (d *Driver) Defaults() driver.DriverDefaults {
	return driver.DriverDefaults{
		Port:   1433,
		Schema: "dbo",
	}
}

// Dialect returns the MSSQL dialect.
func (d *Driver) Dialect() driver.Dialect {
	return &Dialect{}
}

// Open connects through go-mssqldb.
func (d *Driver) Open(ctx context.Context, cfg *dbconfig.SourceConfig) (*sql.DB, error) {
	dsn := (&Dialect{}).BuildDSN(cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, cfg.DSNOptions())
	db, err := driver.OpenDB(ctx, "sqlserver", dsn, cfg.MaxConns)
	if err != nil {
		return nil, err
	}
	logging.Info("Connected to SQL Server source: %s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
	return db, nil
}
