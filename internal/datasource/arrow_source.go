package datasource

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// ArrowSource is the DataSource over an Apache Arrow table. Dtypes are the
// arrow type names ("int64", "utf8", "bool", ...).
type ArrowSource struct {
	heuristics
	table arrow.Table
	names []string
}

var (
	_ DataSource  = (*ArrowSource)(nil)
	_ MediaSource = (*ArrowSource)(nil)
)

// NewArrowSource retains tbl until Release is called.
func NewArrowSource(tbl arrow.Table) *ArrowSource {
	tbl.Retain()
	fields := tbl.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	s := &ArrowSource{table: tbl, names: names}
	s.heuristics = newHeuristics(s, "utf8", "large_utf8", "string_view")
	return s
}

// Release drops the reference taken by NewArrowSource.
func (s *ArrowSource) Release() {
	s.table.Release()
}

func (s *ArrowSource) column(name string) (*arrow.Column, error) {
	idx := s.table.Schema().FieldIndices(name)
	if len(idx) == 0 {
		return nil, unknownColumn(name)
	}
	return s.table.Column(idx[0]), nil
}

// values materializes up to limit values of a column (all when limit < 0).
func (s *ArrowSource) values(name string, limit int) ([]any, error) {
	col, err := s.column(name)
	if err != nil {
		return nil, err
	}
	n := col.Len()
	if limit >= 0 && limit < n {
		n = limit
	}
	out := make([]any, 0, n)
	for _, chunk := range col.Data().Chunks() {
		for i := 0; i < chunk.Len() && len(out) < n; i++ {
			out = append(out, arrowValue(chunk, i))
		}
		if len(out) == n {
			break
		}
	}
	return out, nil
}

// arrowValue converts element i of an arrow array to a Go scalar.
func arrowValue(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return a.Value(i)
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return int64(a.Value(i))
	case *array.Uint16:
		return int64(a.Value(i))
	case *array.Uint32:
		return int64(a.Value(i))
	case *array.Uint64:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Binary:
		return a.Value(i)
	}
	return arr.GetOneForMarshal(i)
}

// Columns returns the schema's field names.
func (s *ArrowSource) Columns() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// DType returns the arrow type name of the column.
func (s *ArrowSource) DType(column string) (string, error) {
	col, err := s.column(column)
	if err != nil {
		return "", err
	}
	return col.DataType().Name(), nil
}

// DistinctValues returns distinct non-null values in order of first appearance.
func (s *ArrowSource) DistinctValues(_ context.Context, column string, maxValues int) (DistinctSummary, error) {
	if err := checkMaxValues(maxValues); err != nil {
		return DistinctSummary{}, err
	}
	values, err := s.values(column, -1)
	if err != nil {
		return DistinctSummary{}, err
	}
	return summarize(values, maxValues), nil
}

// NonNullValues returns the column length.
func (s *ArrowSource) NonNullValues(_ context.Context, column string) (int, error) {
	col, err := s.column(column)
	if err != nil {
		return 0, err
	}
	return col.Len(), nil
}

// Len returns the table's row count.
func (s *ArrowSource) Len() int {
	return int(s.table.NumRows())
}

func (s *ArrowSource) head(_ context.Context, column string, n int) ([]any, error) {
	return s.values(column, n)
}

func (s *ArrowSource) tokenCandidates(_ context.Context, column string) ([]any, error) {
	return s.values(column, -1)
}
