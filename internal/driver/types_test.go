package driver

import (
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"simple", "users", ""},
		{"underscore start", "_tmp", ""},
		{"with digits", "events_2024", ""},
		{"with space", "Order Details", ""},
		{"empty", "", "cannot be empty"},
		{"digit start", "1table", "must start with letter"},
		{"semicolon", "users;drop", "invalid character"},
		{"quote", `users"`, "invalid character"},
		{"too long", strings.Repeat("a", 129), "too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateIdentifier(%q) unexpected error: %v", tt.input, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateIdentifier(%q) = %v, want error containing %q", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestBaseType(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"VARCHAR(255)", "varchar"},
		{"numeric(10, 2)", "numeric"},
		{" Text ", "text"},
		{"character varying", "character varying"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := BaseType(tt.input); got != tt.want {
			t.Errorf("BaseType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTableHelpers(t *testing.T) {
	tbl := Table{
		Schema: "public",
		Name:   "users",
		Columns: []Column{
			{Name: "id", DataType: "integer", OrdinalPos: 1},
			{Name: "email", DataType: "text", OrdinalPos: 2},
		},
	}

	if got := tbl.FullName(); got != "public.users" {
		t.Errorf("FullName() = %q", got)
	}
	if got := (&Table{Name: "users"}).FullName(); got != "users" {
		t.Errorf("FullName() without schema = %q", got)
	}
	if names := tbl.GetColumnNames(); len(names) != 2 || names[1] != "email" {
		t.Errorf("GetColumnNames() = %v", names)
	}
	if col, ok := tbl.Column("email"); !ok || col.DataType != "text" {
		t.Errorf("Column(email) = %v, %v", col, ok)
	}
	if _, ok := tbl.Column("missing"); ok {
		t.Error("Column(missing) reported found")
	}
}
