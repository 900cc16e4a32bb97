package sqlite

import (
	"fmt"
	"strings"
)

// Dialect implements driver.Dialect for SQLite.
type Dialect struct{}

func (d *Dialect) DBType() string { return "sqlite" }

func (d *Dialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QualifyTable ignores the schema unless it names an attached database.
func (d *Dialect) QualifyTable(schema, table string) string {
	if schema == "" || schema == "main" {
		return d.QuoteIdentifier(table)
	}
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(table)
}

// BuildDSN returns the file path with a busy timeout so concurrent readers wait
// instead of failing on a locked database.
func (d *Dialect) BuildDSN(_ string, _ int, database, _, _ string, _ map[string]any) string {
	if strings.Contains(database, "?") {
		return database
	}
	return database + "?_pragma=busy_timeout(5000)"
}

func (d *Dialect) ParameterPlaceholder(_ int) string {
	return "?"
}

func (d *Dialect) LimitQuery(query string, n int) string {
	return fmt.Sprintf("%s LIMIT %d", query, n)
}

func (d *Dialect) ColumnsQuery() string {
	return `SELECT name, type FROM pragma_table_info(?) ORDER BY cid`
}

func (d *Dialect) ColumnsParams(_ string, table string) []any {
	return []any{table}
}

func (d *Dialect) StringTypes() []string {
	return []string{"text", "varchar", "char", "nvarchar", "nchar", "clob", "character", "varying character"}
}
