package datasource

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

func newTestArrowSource(t *testing.T) *ArrowSource {
	t.Helper()
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "flag", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		{Name: "score", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "comment", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.BooleanBuilder).AppendValues([]bool{true, false, true, false}, []bool{true, true, true, false})
	b.Field(1).(*array.Int64Builder).AppendValues([]int64{10, 20, 10, 30}, nil)
	b.Field(2).(*array.StringBuilder).AppendValues([]string{"good value", "bad", "good value", ""}, []bool{true, true, true, false})

	rec := b.NewRecord()
	defer rec.Release()
	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	src := NewArrowSource(tbl)
	t.Cleanup(src.Release)
	return src
}

func TestArrowSourceColumnsAndTypes(t *testing.T) {
	src := newTestArrowSource(t)

	if got := src.Columns(); !reflect.DeepEqual(got, []string{"flag", "score", "comment"}) {
		t.Errorf("Columns() = %v", got)
	}
	if src.Len() != 4 {
		t.Errorf("Len() = %d, want 4", src.Len())
	}

	tests := []struct {
		column string
		want   string
	}{
		{"flag", "bool"},
		{"score", "int64"},
		{"comment", "utf8"},
	}
	for _, tt := range tests {
		got, err := src.DType(tt.column)
		if err != nil {
			t.Fatalf("DType(%q) error: %v", tt.column, err)
		}
		if got != tt.want {
			t.Errorf("DType(%q) = %q, want %q", tt.column, got, tt.want)
		}
	}

	if !src.IsStringType("utf8") || src.IsStringType("int64") || !src.IsStringType("object") {
		t.Error("IsStringType misclassifies arrow types")
	}
	if _, err := src.DType("missing"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("DType(missing) error = %v, want ErrUnknownColumn", err)
	}
}

func TestArrowSourceStatistics(t *testing.T) {
	ctx := context.Background()
	src := newTestArrowSource(t)

	flag, err := src.DistinctValues(ctx, "flag", 4)
	if err != nil {
		t.Fatalf("DistinctValues(flag) error: %v", err)
	}
	if flag.Count != 2 || !reflect.DeepEqual(flag.Values, []any{true, false}) || flag.Balance != 0.5 {
		t.Errorf("DistinctValues(flag) = %+v, want (2, [true false], 0.5)", flag)
	}

	isBool, _ := src.IsBoolean(ctx, "flag")
	if !isBool {
		t.Error("IsBoolean(flag) = false, want true")
	}
	isBool, _ = src.IsBoolean(ctx, "score")
	if isBool {
		t.Error("IsBoolean(score) = true, want false")
	}

	score, _ := src.DistinctValues(ctx, "score", 1)
	if score.Count != 3 || !reflect.DeepEqual(score.Values, []any{int64(10)}) {
		t.Errorf("DistinctValues(score, 1) = %+v", score)
	}

	nonNull, _ := src.NonNullValues(ctx, "comment")
	if nonNull != 4 {
		t.Errorf("NonNullValues(comment) = %d, want 4", nonNull)
	}

	tokens, _ := src.AvgNumTokens(ctx, "comment")
	// "good value" and "bad": (2+1)/2 rounds to 2
	if tokens != 2 {
		t.Errorf("AvgNumTokens(comment) = %d, want 2", tokens)
	}
}
