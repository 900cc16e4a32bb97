// Package history stores profile runs in a local SQLite database so earlier
// reports can be listed and re-read.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/johndauphine/tabprof/internal/driver"
	"github.com/johndauphine/tabprof/internal/driver/sqlite"
	"github.com/johndauphine/tabprof/internal/logging"
	"github.com/johndauphine/tabprof/internal/profile"
)

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	column_count INTEGER NOT NULL,
	row_count   INTEGER NOT NULL,
	failed      INTEGER NOT NULL DEFAULT 0,
	report_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`

// Run is one stored profile run without its full report.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	Source    string    `json:"source" yaml:"source"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Columns   int       `json:"columns" yaml:"columns"`
	Rows      int       `json:"rows" yaml:"rows"`
	Failed    int       `json:"failed" yaml:"failed"`
}

// Store persists runs in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}
	dsn := (&sqlite.Dialect{}).BuildDSN("", 0, path, "", "", nil)
	db, err := driver.OpenDB(ctx, "sqlite", dsn, 1)
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	logging.Debug("Opened history at %s", path)
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a report, replacing any run with the same ID.
func (s *Store) Save(ctx context.Context, r *profile.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, source, started_at, column_count, row_count, failed, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Source, r.StartedAt.UTC(), len(r.Fields), r.Rows, len(r.Failed()), string(data))
	if err != nil {
		return fmt.Errorf("saving run %s: %w", r.RunID, err)
	}
	return nil
}

// List returns the most recent runs first. A limit <= 0 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, source, started_at, column_count, row_count, failed FROM runs ORDER BY started_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.StartedAt, &r.Columns, &r.Rows, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns the full report of a run. Distinct values come back as
// int64, float64, bool or string; byte values are returned as their
// base64 text.
func (s *Store) Get(ctx context.Context, id string) (*profile.Report, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT report_json FROM runs WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}
	var r profile.Report
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", id, err)
	}
	for i := range r.Fields {
		for j, v := range r.Fields[i].DistinctValues {
			r.Fields[i].DistinctValues[j] = numberValue(v)
		}
	}
	return &r, nil
}

// numberValue turns a decoded json.Number back into int64 or float64.
func numberValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
