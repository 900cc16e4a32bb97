// Package profile gathers per-column statistics from a data source and
// infers the feature type of every column.
package profile

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/johndauphine/tabprof/internal/datasource"
	"github.com/johndauphine/tabprof/internal/logging"
)

// DefaultMaxDistinctValues is how many distinct values a FieldInfo keeps.
const DefaultMaxDistinctValues = 10

// DefaultWorkers bounds how many columns are profiled at once.
const DefaultWorkers = 4

// Progress receives per-column progress. *progress.Tracker implements it.
type Progress interface {
	SetTotal(total int64)
	Add(n int64)
}

// Options configure a Profiler.
type Options struct {
	MaxDistinctValues int
	MediaSampleSize   int
	Workers           int
	Exclude           []string
	Progress          Progress
}

// FieldInfo is the statistics gathered for one column.
type FieldInfo struct {
	Name                  string  `json:"name" yaml:"name"`
	DType                 string  `json:"dtype" yaml:"dtype"`
	DistinctValues        []any   `json:"distinct_values" yaml:"distinct_values"`
	NumDistinctValues     int     `json:"num_distinct_values" yaml:"num_distinct_values"`
	DistinctValuesBalance float64 `json:"distinct_values_balance" yaml:"distinct_values_balance"`
	NonNullValues         int     `json:"nonnull_values" yaml:"nonnull_values"`
	ImageValues           int     `json:"image_values" yaml:"image_values"`
	AudioValues           int     `json:"audio_values" yaml:"audio_values"`
	AvgWords              *int    `json:"avg_words,omitempty" yaml:"avg_words,omitempty"`
	Error                 string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the result of profiling one source.
type Report struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Source    string        `json:"source" yaml:"source"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Rows      int           `json:"rows" yaml:"rows"`
	Fields    []FieldInfo   `json:"fields" yaml:"fields"`
}

// Failed returns the fields whose statistics could not be gathered.
func (r *Report) Failed() []FieldInfo {
	var out []FieldInfo
	for _, f := range r.Fields {
		if f.Error != "" {
			out = append(out, f)
		}
	}
	return out
}

// Profiler collects FieldInfo for every column of a source.
type Profiler struct {
	opts Options
}

// New returns a Profiler, filling unset options with defaults.
func New(opts Options) *Profiler {
	if opts.MaxDistinctValues <= 0 {
		opts.MaxDistinctValues = DefaultMaxDistinctValues
	}
	if opts.MediaSampleSize <= 0 {
		opts.MediaSampleSize = datasource.DefaultMediaSampleSize
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	return &Profiler{opts: opts}
}

// Profile gathers statistics for every non-excluded column of src. Columns
// whose statistics fail are logged and reported with their error; only
// cancellation aborts the run. Fields keep the source's column order.
func (p *Profiler) Profile(ctx context.Context, name string, src datasource.DataSource) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		Source:    name,
		StartedAt: time.Now().UTC(),
		Rows:      src.Len(),
	}

	var columns []string
	for _, col := range src.Columns() {
		if !slices.Contains(p.opts.Exclude, col) {
			columns = append(columns, col)
		}
	}
	report.Fields = make([]FieldInfo, len(columns))
	if p.opts.Progress != nil {
		p.opts.Progress.SetTotal(int64(len(columns)))
	}

	logging.Info("Profiling %d columns of %s (%d rows, %d workers)", len(columns), name, report.Rows, p.opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, col := range columns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			info, err := p.profileColumn(gctx, src, col)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logging.Warn("Column %s: %v", col, err)
				info = FieldInfo{Name: col, Error: err.Error()}
			}
			report.Fields[i] = info
			if p.opts.Progress != nil {
				p.opts.Progress.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("profiling %s: %w", name, err)
	}

	report.Duration = time.Since(report.StartedAt)
	if failed := len(report.Failed()); failed > 0 {
		logging.Warn("Profiled %s with %d failed columns", name, failed)
	}
	logging.Debug("Profiled %s in %s", name, report.Duration)
	return report, nil
}

func (p *Profiler) profileColumn(ctx context.Context, src datasource.DataSource, column string) (FieldInfo, error) {
	dtype, err := src.DType(column)
	if err != nil {
		return FieldInfo{}, err
	}
	summary, err := src.DistinctValues(ctx, column, p.opts.MaxDistinctValues)
	if err != nil {
		return FieldInfo{}, err
	}
	nonNull, err := src.NonNullValues(ctx, column)
	if err != nil {
		return FieldInfo{}, err
	}

	info := FieldInfo{
		Name:                  column,
		DType:                 dtype,
		DistinctValues:        summary.Values,
		NumDistinctValues:     summary.Count,
		DistinctValuesBalance: summary.Balance,
		NonNullValues:         nonNull,
	}

	if ms, ok := src.(datasource.MediaSource); ok {
		if info.ImageValues, err = ms.ImageValues(ctx, column, p.opts.MediaSampleSize); err != nil {
			return FieldInfo{}, err
		}
		if info.AudioValues, err = ms.AudioValues(ctx, column, p.opts.MediaSampleSize); err != nil {
			return FieldInfo{}, err
		}
	}

	// Nullable boolean columns load as object. IsBoolean reports true for
	// any column with more than three distinct values, so unlike a plain
	// IsBoolean check only low cardinality columns are relabeled here.
	if dtype == datasource.DTypeObject && summary.Count <= 3 {
		isBool, err := src.IsBoolean(ctx, column)
		if err != nil {
			return FieldInfo{}, err
		}
		if isBool {
			info.DType = datasource.DTypeBool
		}
	}

	if src.IsStringType(info.DType) {
		words, err := src.AvgNumTokens(ctx, column)
		if err != nil {
			return FieldInfo{}, err
		}
		info.AvgWords = &words
	}
	return info, nil
}
