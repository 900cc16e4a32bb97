package postgres

import (
	"fmt"
	"net/url"
	"strings"
)

// Dialect implements driver.Dialect for PostgreSQL.
type Dialect struct{}

func (d *Dialect) DBType() string { return "postgres" }

func (d *Dialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d *Dialect) QualifyTable(schema, table string) string {
	if schema == "" {
		return d.QuoteIdentifier(table)
	}
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(table)
}

func (d *Dialect) BuildDSN(host string, port int, database, user, password string, opts map[string]any) string {
	sslMode := "require"
	if mode, ok := opts["ssl_mode"].(string); ok && mode != "" {
		sslMode = mode
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(user), url.QueryEscape(password), host, port,
		url.PathEscape(database), url.QueryEscape(sslMode))
}

func (d *Dialect) ParameterPlaceholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func (d *Dialect) LimitQuery(query string, n int) string {
	return fmt.Sprintf("%s LIMIT %d", query, n)
}

func (d *Dialect) ColumnsQuery() string {
	return `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`
}

func (d *Dialect) ColumnsParams(schema, table string) []any {
	if schema == "" {
		schema = "public"
	}
	return []any{schema, table}
}

func (d *Dialect) StringTypes() []string {
	return []string{"text", "character varying", "varchar", "character", "char", "bpchar", "citext", "name"}
}
