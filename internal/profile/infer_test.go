package profile

import (
	"testing"

	"github.com/johndauphine/tabprof/internal/schema"
)

func intPtr(n int) *int { return &n }

func TestInferType(t *testing.T) {
	tests := []struct {
		name    string
		field   FieldInfo
		missing float64
		want    schema.FeatureType
	}{
		{"datetime", FieldInfo{DType: "datetime64[ns]", NumDistinctValues: 50}, 0, schema.Date},
		{"sql timestamp", FieldInfo{DType: "timestamptz", NumDistinctValues: 50}, 0, schema.Date},
		{"empty", FieldInfo{DType: "object"}, 0, schema.Category},
		{"two values", FieldInfo{DType: "object", NumDistinctValues: 2}, 0, schema.Binary},
		{"two values with missing", FieldInfo{DType: "object", NumDistinctValues: 2}, 0.1, schema.Category},
		{"bool dtype with missing", FieldInfo{DType: "bool", NumDistinctValues: 2}, 0.1, schema.Binary},
		{"images", FieldInfo{DType: "object", NumDistinctValues: 40, ImageValues: 3}, 0, schema.Image},
		{"audio", FieldInfo{DType: "object", NumDistinctValues: 40, AudioValues: 5}, 0, schema.Audio},
		{"numeric", FieldInfo{DType: "float64", NumDistinctValues: 11}, 0, schema.Number},
		{"numeric low cardinality", FieldInfo{DType: "int64", NumDistinctValues: 5}, 0, schema.Category},
		{"numeric strings", FieldInfo{
			DType:             "varchar",
			NumDistinctValues: 12,
			DistinctValues:    []any{"1", "2.5", " 3 ", int64(4), 5.5},
		}, 0, schema.Number},
		{"mixed strings", FieldInfo{
			DType:             "object",
			NumDistinctValues: 12,
			DistinctValues:    []any{"1", "two"},
		}, 0, schema.Category},
		{"text", FieldInfo{DType: "object", NumDistinctValues: 100, AvgWords: intPtr(12)}, 0, schema.Text},
		{"short text", FieldInfo{DType: "object", NumDistinctValues: 100, AvgWords: intPtr(2)}, 0, schema.Category},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferType(tt.field, tt.missing); got != tt.want {
				t.Errorf("InferType(%+v, %v) = %q, want %q", tt.field, tt.missing, got, tt.want)
			}
		})
	}
}

func TestShouldExclude(t *testing.T) {
	targets := map[string]bool{"user_id": true}
	tests := []struct {
		name  string
		idx   int
		field FieldInfo
		ftype schema.FeatureType
		want  bool
	}{
		{"leading numeric unique", 0, FieldInfo{Name: "row", NumDistinctValues: 10}, schema.Number, true},
		{"numeric unique not first", 2, FieldInfo{Name: "row", NumDistinctValues: 10}, schema.Number, false},
		{"id suffix", 3, FieldInfo{Name: "customer_id", NumDistinctValues: 10}, schema.Category, true},
		{"id prefix", 3, FieldInfo{Name: "IdCode", NumDistinctValues: 10}, schema.Category, true},
		{"id not unique", 3, FieldInfo{Name: "customer_id", NumDistinctValues: 9}, schema.Category, false},
		{"target", 0, FieldInfo{Name: "user_id", NumDistinctValues: 10}, schema.Number, false},
		{"plain name", 3, FieldInfo{Name: "email", NumDistinctValues: 10}, schema.Category, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldExclude(tt.idx, tt.field, tt.ftype, 10, targets); got != tt.want {
				t.Errorf("shouldExclude(%q) = %v, want %v", tt.field.Name, got, tt.want)
			}
		})
	}
}

func TestDTypeClassifiers(t *testing.T) {
	numeric := []string{"int64", "float64", "uint8", "integer", "BIGINT", "double precision", "decimal", "numeric"}
	for _, d := range numeric {
		if !IsNumericDType(d) {
			t.Errorf("IsNumericDType(%q) = false, want true", d)
		}
	}
	for _, d := range []string{"object", "utf8", "varchar", "bool", "interval"} {
		if IsNumericDType(d) {
			t.Errorf("IsNumericDType(%q) = true, want false", d)
		}
	}
	for _, d := range []string{"bool", "boolean", "BIT"} {
		if !IsBoolDType(d) {
			t.Errorf("IsBoolDType(%q) = false, want true", d)
		}
	}
	for _, d := range []string{"date32", "timestamp", "datetime2"} {
		if !IsDateDType(d) {
			t.Errorf("IsDateDType(%q) = false, want true", d)
		}
	}
}

func TestMissingValuePercent(t *testing.T) {
	if got := missingValuePercent(FieldInfo{NonNullValues: 8}, 10); got < 0.19 || got > 0.21 {
		t.Errorf("missingValuePercent = %v, want 0.2", got)
	}
	if got := missingValuePercent(FieldInfo{}, 0); got != 0 {
		t.Errorf("missingValuePercent(empty) = %v, want 0", got)
	}
}
