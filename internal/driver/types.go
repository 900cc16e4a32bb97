package driver

import (
	"fmt"
	"strings"
)

// Table represents a database table with the metadata the profiler needs.
type Table struct {
	Schema   string   `json:"schema"`
	Name     string   `json:"name"`
	Columns  []Column `json:"columns"`
	RowCount int64    `json:"row_count"`
}

// FullName returns the table name, schema-qualified when a schema is set.
func (t *Table) FullName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// GetColumnNames returns a slice of column names in ordinal order.
func (t *Table) GetColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// Column represents a table column.
type Column struct {
	Name       string `json:"name"`
	DataType   string `json:"data_type"`
	OrdinalPos int    `json:"ordinal_position"`
}

// BaseType strips length/precision arguments and lower-cases a type name,
// so "VARCHAR(255)" becomes "varchar".
func BaseType(dataType string) string {
	t := strings.ToLower(strings.TrimSpace(dataType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// ValidateIdentifier checks if a database identifier (schema, table, column name)
// is safe to use in SQL queries. Returns an error if the identifier contains
// potentially dangerous characters that could enable SQL injection.
//
// Valid identifiers:
// - Start with letter or underscore
// - Contain only letters, digits, underscores, and spaces (spaces allowed for SQL Server)
// - Maximum length of 128 characters (SQL Server limit)
// - Not empty
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}

	if len(name) > 128 {
		return fmt.Errorf("identifier too long: %d characters (max 128)", len(name))
	}

	first := rune(name[0])
	if !isValidIdentifierStart(first) {
		return fmt.Errorf("identifier must start with letter or underscore: %q", name)
	}

	for i, r := range name {
		if i == 0 {
			continue
		}
		if !isValidIdentifierChar(r) {
			return fmt.Errorf("identifier contains invalid character %q at position %d: %q", r, i, name)
		}
	}

	return nil
}

func isValidIdentifierStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isValidIdentifierChar(r rune) bool {
	return isValidIdentifierStart(r) ||
		(r >= '0' && r <= '9') ||
		r == ' ' || // SQL Server allows spaces in identifiers
		r == '$' || // PostgreSQL allows $ in identifiers
		r == '#' // SQL Server allows # for temp tables
}
