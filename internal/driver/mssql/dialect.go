package mssql

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Dialect implements driver.Dialect for SQL Server.
type Dialect struct{}

func (d *Dialect) DBType() string { return "mssql" }

func (d *Dialect) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (d *Dialect) QualifyTable(schema, table string) string {
	if schema == "" {
		return d.QuoteIdentifier(table)
	}
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(table)
}

func (d *Dialect) BuildDSN(host string, port int, database, user, password string, opts map[string]any) string {
	query := url.Values{}
	query.Set("database", database)

	encrypt := "true"
	if v, ok := opts["encrypt"].(bool); ok && !v {
		encrypt = "false"
	}
	query.Set("encrypt", encrypt)
	if trust, ok := opts["trustServerCertificate"].(bool); ok && trust {
		query.Set("TrustServerCertificate", "true")
	}
	if size, ok := opts["packetSize"].(int); ok && size > 0 {
		query.Set("packet size", strconv.Itoa(size))
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(user, password),
		Host:     fmt.Sprintf("%s:%d", host, port),
		RawQuery: query.Encode(),
	}
	return u.String()
}

func (d *Dialect) ParameterPlaceholder(n int) string {
	return fmt.Sprintf("@p%d", n)
}

// LimitQuery uses TOP since SQL Server has no LIMIT clause.
func (d *Dialect) LimitQuery(query string, n int) string {
	if strings.HasPrefix(query, "SELECT DISTINCT ") {
		return strings.Replace(query, "SELECT DISTINCT ", fmt.Sprintf("SELECT DISTINCT TOP (%d) ", n), 1)
	}
	return strings.Replace(query, "SELECT ", fmt.Sprintf("SELECT TOP (%d) ", n), 1)
}

func (d *Dialect) ColumnsQuery() string {
	return `
		SELECT COLUMN_NAME, DATA_TYPE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2
		ORDER BY ORDINAL_POSITION`
}

func (d *Dialect) ColumnsParams(schema, table string) []any {
	if schema == "" {
		schema = "dbo"
	}
	return []any{schema, table}
}

func (d *Dialect) StringTypes() []string {
	return []string{"varchar", "nvarchar", "char", "nchar", "text", "ntext"}
}
