package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/johndauphine/tabprof/internal/dbconfig"
	"github.com/johndauphine/tabprof/internal/driver"
	"github.com/johndauphine/tabprof/internal/logging"
)

const (
	summaryCacheSize = 256
	// maxTokenCandidates caps the distinct values fetched for AvgNumTokens.
	maxTokenCandidates = 5000
)

// SQLSource is the DataSource over a database table. Distinct value counting
// is pushed down to the engine; dtypes are the engine's column type names.
type SQLSource struct {
	heuristics
	db        *sql.DB
	ownsDB    bool
	dialect   driver.Dialect
	table     driver.Table
	qualified string
	summaries *lru.Cache[string, DistinctSummary]
}

var (
	_ DataSource  = (*SQLSource)(nil)
	_ MediaSource = (*SQLSource)(nil)
)

// OpenSQL connects using the registered driver for cfg.Type and wraps cfg.Table.
// The returned source owns the connection; Close releases it.
func OpenSQL(ctx context.Context, cfg *dbconfig.SourceConfig) (*SQLSource, error) {
	d, err := driver.Get(cfg.Type)
	if err != nil {
		return nil, err
	}
	db, err := d.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", d.Name(), err)
	}
	src, err := NewSQLSource(ctx, db, d.Dialect(), cfg.Schema, cfg.Table)
	if err != nil {
		db.Close()
		return nil, err
	}
	src.ownsDB = true
	return src, nil
}

// NewSQLSource loads column metadata and the row count of schema.table.
// The caller keeps ownership of db.
func NewSQLSource(ctx context.Context, db *sql.DB, dialect driver.Dialect, schema, table string) (*SQLSource, error) {
	if err := driver.ValidateIdentifier(table); err != nil {
		return nil, fmt.Errorf("invalid table name: %w", err)
	}
	if schema != "" {
		if err := driver.ValidateIdentifier(schema); err != nil {
			return nil, fmt.Errorf("invalid schema name: %w", err)
		}
	}

	cache, err := lru.New[string, DistinctSummary](summaryCacheSize)
	if err != nil {
		return nil, err
	}

	s := &SQLSource{
		db:        db,
		dialect:   dialect,
		table:     driver.Table{Schema: schema, Name: table},
		qualified: dialect.QualifyTable(schema, table),
		summaries: cache,
	}
	s.heuristics = newHeuristics(s, dialect.StringTypes()...)

	if err := s.loadColumns(ctx); err != nil {
		return nil, err
	}
	if len(s.table.Columns) == 0 {
		return nil, fmt.Errorf("table %s not found or has no columns", s.table.FullName())
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.qualified).Scan(&s.table.RowCount); err != nil {
		return nil, fmt.Errorf("counting rows of %s: %w", s.table.FullName(), err)
	}

	logging.Debug("Loaded %s: %d columns, %d rows", s.table.FullName(), len(s.table.Columns), s.table.RowCount)
	return s, nil
}

func (s *SQLSource) loadColumns(ctx context.Context) error {
	params := s.dialect.ColumnsParams(s.table.Schema, s.table.Name)
	rows, err := s.db.QueryContext(ctx, s.dialect.ColumnsQuery(), params...)
	if err != nil {
		return fmt.Errorf("loading columns of %s: %w", s.table.FullName(), err)
	}
	defer rows.Close()

	for rows.Next() {
		c := driver.Column{OrdinalPos: len(s.table.Columns) + 1}
		if err := rows.Scan(&c.Name, &c.DataType); err != nil {
			return fmt.Errorf("scanning column: %w", err)
		}
		c.DataType = driver.BaseType(c.DataType)
		s.table.Columns = append(s.table.Columns, c)
	}
	return rows.Err()
}

// Close closes the connection if the source opened it.
func (s *SQLSource) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

// Table returns the loaded table metadata.
func (s *SQLSource) Table() driver.Table {
	return s.table
}

func (s *SQLSource) lookup(column string) (*driver.Column, error) {
	c, ok := s.table.Column(column)
	if !ok {
		return nil, unknownColumn(column)
	}
	return c, nil
}

// Columns returns the column names in ordinal order.
func (s *SQLSource) Columns() []string {
	return s.table.GetColumnNames()
}

// DType returns the lower-case base type of the column, e.g. "varchar".
func (s *SQLSource) DType(column string) (string, error) {
	c, err := s.lookup(column)
	if err != nil {
		return "", err
	}
	return c.DataType, nil
}

// DistinctValues counts distinct values with GROUP BY and returns the most
// frequent ones first. Results are cached per column and limit.
func (s *SQLSource) DistinctValues(ctx context.Context, column string, maxValues int) (DistinctSummary, error) {
	if err := checkMaxValues(maxValues); err != nil {
		return DistinctSummary{}, err
	}
	c, err := s.lookup(column)
	if err != nil {
		return DistinctSummary{}, err
	}

	key := column + "\x00" + strconv.Itoa(maxValues)
	if cached, ok := s.summaries.Get(key); ok {
		return cached, nil
	}

	qc := s.dialect.QuoteIdentifier(c.Name)
	var (
		distinct           int
		minCount, maxCount int64
	)
	statsQuery := fmt.Sprintf(
		"SELECT COUNT(*), COALESCE(MIN(n), 0), COALESCE(MAX(n), 0) FROM (SELECT COUNT(*) AS n FROM %s WHERE %s IS NOT NULL GROUP BY %s) g",
		s.qualified, qc, qc)
	if err := s.db.QueryRowContext(ctx, statsQuery).Scan(&distinct, &minCount, &maxCount); err != nil {
		return DistinctSummary{}, fmt.Errorf("counting distinct values of %s: %w", column, err)
	}

	summary := DistinctSummary{
		Count:   distinct,
		Balance: balanceFromCounts(distinct, minCount, maxCount),
	}
	if maxValues > 0 && distinct > 0 {
		valuesQuery := s.dialect.LimitQuery(fmt.Sprintf(
			"SELECT %s FROM %s WHERE %s IS NOT NULL GROUP BY %s ORDER BY COUNT(*) DESC",
			qc, s.qualified, qc, qc), maxValues)
		summary.Values, err = s.queryValues(ctx, c, valuesQuery)
		if err != nil {
			return DistinctSummary{}, err
		}
	}

	s.summaries.Add(key, summary)
	return summary, nil
}

// NonNullValues returns the row count of the table.
func (s *SQLSource) NonNullValues(_ context.Context, column string) (int, error) {
	if _, err := s.lookup(column); err != nil {
		return 0, err
	}
	return int(s.table.RowCount), nil
}

// Len returns the row count captured when the source was opened.
func (s *SQLSource) Len() int {
	return int(s.table.RowCount)
}

// IsStringType matches the base type against the dialect's text types.
func (s *SQLSource) IsStringType(dtype string) bool {
	return s.heuristics.IsStringType(driver.BaseType(dtype))
}

func (s *SQLSource) head(ctx context.Context, column string, n int) ([]any, error) {
	c, err := s.lookup(column)
	if err != nil {
		return nil, err
	}
	query := s.dialect.LimitQuery(fmt.Sprintf("SELECT %s FROM %s",
		s.dialect.QuoteIdentifier(c.Name), s.qualified), n)
	return s.queryValues(ctx, c, query)
}

func (s *SQLSource) tokenCandidates(ctx context.Context, column string) ([]any, error) {
	c, err := s.lookup(column)
	if err != nil {
		return nil, err
	}
	qc := s.dialect.QuoteIdentifier(c.Name)
	query := s.dialect.LimitQuery(fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL",
		qc, s.qualified, qc), maxTokenCandidates)
	return s.queryValues(ctx, c, query)
}

// queryValues runs a single-column query. Text columns that the driver
// returns as raw bytes are converted to strings.
func (s *SQLSource) queryValues(ctx context.Context, c *driver.Column, query string) ([]any, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", c.Name, err)
	}
	defer rows.Close()

	textual := s.IsStringType(c.DataType)
	var out []any
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", c.Name, err)
		}
		if b, ok := v.([]byte); ok && textual {
			v = string(b)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
