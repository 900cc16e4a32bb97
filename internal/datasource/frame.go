package datasource

import (
	"fmt"
	"time"
)

// Column dtypes assigned by InferDType. They follow the labels dataframe
// engines report so downstream type inference works the same for every source.
const (
	DTypeInt64    = "int64"
	DTypeFloat64  = "float64"
	DTypeBool     = "bool"
	DTypeObject   = "object"
	DTypeDatetime = "datetime64[ns]"
)

// Series is one named column of a Frame. A nil value (or NaN) is null.
type Series struct {
	Name   string
	DType  string
	Values []any
}

// NewSeries creates a Series and infers its dtype from the values.
func NewSeries(name string, values []any) *Series {
	return &Series{Name: name, DType: InferDType(values), Values: values}
}

// Frame is an in-memory table of equally long, uniquely named columns.
type Frame struct {
	series []*Series
	index  map[string]int
	rows   int
}

// NewFrame builds a frame from series. Series without a dtype get one inferred.
func NewFrame(series ...*Series) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(series))}
	for i, s := range series {
		if s == nil {
			return nil, fmt.Errorf("series %d is nil", i)
		}
		if _, dup := f.index[s.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", s.Name)
		}
		if i == 0 {
			f.rows = len(s.Values)
		} else if len(s.Values) != f.rows {
			return nil, fmt.Errorf("column %q has %d values, expected %d", s.Name, len(s.Values), f.rows)
		}
		if s.DType == "" {
			s.DType = InferDType(s.Values)
		}
		f.index[s.Name] = i
		f.series = append(f.series, s)
	}
	return f, nil
}

// FrameFromRecords builds a frame from row maps. Column order follows
// columns; keys missing from a record are null.
func FrameFromRecords(columns []string, records []map[string]any) (*Frame, error) {
	series := make([]*Series, len(columns))
	for i, name := range columns {
		values := make([]any, len(records))
		for r, rec := range records {
			values[r] = rec[name]
		}
		series[i] = NewSeries(name, values)
	}
	return NewFrame(series...)
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.series))
	for i, s := range f.series {
		names[i] = s.Name
	}
	return names
}

// Column returns the named series.
func (f *Frame) Column(name string) (*Series, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.series[i], true
}

// NumRows returns the row count.
func (f *Frame) NumRows() int {
	return f.rows
}

// InferDType derives a dtype label from values the way dataframe engines do:
// integers with nulls widen to float64, booleans or mixed values with nulls
// become object, and an all-null column is object.
func InferDType(values []any) string {
	var ints, floats, bools, times, others, nulls int
	for _, v := range values {
		if IsNull(v) {
			nulls++
			continue
		}
		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			ints++
		case float32, float64:
			floats++
		case bool:
			bools++
		case time.Time:
			times++
		default:
			others++
		}
	}

	nonNull := len(values) - nulls
	switch {
	case nonNull == 0:
		return DTypeObject
	case others > 0:
		return DTypeObject
	case bools == nonNull:
		if nulls > 0 {
			return DTypeObject
		}
		return DTypeBool
	case ints == nonNull:
		if nulls > 0 {
			return DTypeFloat64
		}
		return DTypeInt64
	case ints+floats == nonNull:
		return DTypeFloat64
	case times == nonNull:
		return DTypeDatetime
	}
	return DTypeObject
}
