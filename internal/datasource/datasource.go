// Package datasource exposes a uniform, read-only statistical query interface
// over tabular data. The profiler uses it to infer feature types without
// knowing whether the table lives in memory, in Arrow buffers or in a database.
//
// Every adapter composes the shared heuristics helper and only supplies the
// engine-specific primitives (distinct value counting, head sampling).
package datasource

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnknownColumn is returned when a query names a column the table does not have.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidArgument is returned for out-of-range query arguments.
	ErrInvalidArgument = errors.New("invalid argument")
)

// DefaultMediaSampleSize is the number of leading values scored for image
// and audio likeness.
const DefaultMediaSampleSize = 10

// DistinctSummary describes the distinct non-null values of a column.
type DistinctSummary struct {
	// Count is the number of distinct non-null values.
	Count int `json:"count" yaml:"count"`

	// Values holds up to the requested number of distinct values in
	// engine order.
	Values []any `json:"values" yaml:"values"`

	// Balance is the minority value frequency divided by the majority value
	// frequency. It is 0 when fewer than two distinct values exist.
	Balance float64 `json:"balance" yaml:"balance"`
}

// DataSource is the read-only query contract consumed by the profiler.
// Implementations never mutate the underlying table.
type DataSource interface {
	// Columns returns all column identifiers in table order.
	Columns() []string

	// DType returns the storage type name reported by the underlying engine.
	DType(column string) (string, error)

	// DistinctValues counts distinct non-null values and returns at most
	// maxValues of them together with the value balance ratio.
	DistinctValues(ctx context.Context, column string, maxValues int) (DistinctSummary, error)

	// NonNullValues returns the number of null-check results for the column,
	// which is its total row count.
	NonNullValues(ctx context.Context, column string) (int, error)

	// AvgNumTokens returns the average whitespace token count of the
	// column's distinct string values.
	AvgNumTokens(ctx context.Context, column string) (int, error)

	// IsBoolean reports whether the column may hold booleans.
	IsBoolean(ctx context.Context, column string) (bool, error)

	// IsStringType reports whether dtype denotes textual or object storage.
	IsStringType(dtype string) bool

	// Len returns the total number of rows.
	Len() int
}

// MediaSource is implemented by sources that can score leading values for
// image and audio likeness.
type MediaSource interface {
	ImageValues(ctx context.Context, column string, sampleSize int) (int, error)
	AudioValues(ctx context.Context, column string, sampleSize int) (int, error)
}

func unknownColumn(column string) error {
	return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
}

func checkMaxValues(maxValues int) error {
	if maxValues < 0 {
		return fmt.Errorf("%w: max values to return must be >= 0, got %d", ErrInvalidArgument, maxValues)
	}
	return nil
}
