package driver

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/johndauphine/tabprof/internal/logging"
)

// DefaultMaxConns is used when the source config leaves max_conns unset.
const DefaultMaxConns = 4

// OpenDB opens a database/sql handle, sizes its pool and pings it.
// The handle is closed again if the ping fails.
func OpenDB(ctx context.Context, sqlDriver, dsn string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening connection: %w", err)
	}

	if maxConns <= 0 {
		maxConns = DefaultMaxConns
	}
	db.SetMaxOpenConns(maxConns)
	idle := maxConns / 4
	if idle < 1 {
		idle = 1
	}
	db.SetMaxIdleConns(idle)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logging.Debug("Opened %s pool (max %d connections)", sqlDriver, maxConns)
	return db, nil
}
