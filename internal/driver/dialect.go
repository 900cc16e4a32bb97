package driver

// Dialect captures the SQL differences the profiler queries depend on.
type Dialect interface {
	// DBType returns the canonical driver name.
	DBType() string

	// QuoteIdentifier quotes a column or table name.
	QuoteIdentifier(name string) string

	// QualifyTable returns the quoted schema-qualified table name.
	// An empty schema yields just the quoted table.
	QualifyTable(schema, table string) string

	// BuildDSN builds the connection string handed to database/sql.
	BuildDSN(host string, port int, database, user, password string, opts map[string]any) string

	// ParameterPlaceholder returns the placeholder for the n-th (1-based) bind parameter.
	ParameterPlaceholder(n int) string

	// LimitQuery restricts a query that starts with "SELECT " to n rows.
	LimitQuery(query string, n int) string

	// ColumnsQuery returns a query yielding (column_name, data_type) pairs in
	// ordinal order. Parameters come from ColumnsParams.
	ColumnsQuery() string

	// ColumnsParams returns the bind parameters for ColumnsQuery.
	ColumnsParams(schema, table string) []any

	// StringTypes lists the lower-case base type names that hold text.
	StringTypes() []string
}
