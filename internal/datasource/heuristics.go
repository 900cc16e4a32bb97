package datasource

import (
	"context"
	"strings"

	"github.com/johndauphine/tabprof/internal/media"
)

// booleanProbeSize is how many distinct values IsBoolean inspects.
const booleanProbeSize = 4

var baseStringTypes = []string{"str", "string", "object"}

// sampler is what the shared heuristics need from an adapter.
type sampler interface {
	DistinctValues(ctx context.Context, column string, maxValues int) (DistinctSummary, error)

	// head returns the first n values of the column, nulls included.
	head(ctx context.Context, column string, n int) ([]any, error)

	// tokenCandidates returns the values AvgNumTokens averages over.
	tokenCandidates(ctx context.Context, column string) ([]any, error)
}

// heuristics implements the engine-independent part of DataSource.
// Adapters embed it and pass themselves as the sampler.
type heuristics struct {
	src         sampler
	stringTypes map[string]struct{}
}

func newHeuristics(src sampler, extraStringTypes ...string) heuristics {
	types := make(map[string]struct{}, len(baseStringTypes)+len(extraStringTypes))
	for _, t := range baseStringTypes {
		types[t] = struct{}{}
	}
	for _, t := range extraStringTypes {
		types[strings.ToLower(t)] = struct{}{}
	}
	return heuristics{src: src, stringTypes: types}
}

// IsBoolean samples up to four distinct values. With three or fewer distinct
// values every sampled value must be a bool or a null marker; anything else
// (including values that cannot be compared) classifies the column as not
// boolean. Columns with more than three distinct values are not excluded and
// report true.
func (h heuristics) IsBoolean(ctx context.Context, column string) (bool, error) {
	summary, err := h.src.DistinctValues(ctx, column, booleanProbeSize)
	if err != nil {
		return false, err
	}
	if summary.Count > 3 {
		return true, nil
	}
	for _, v := range summary.Values {
		if IsNull(v) {
			continue
		}
		if _, ok := v.(bool); ok {
			continue
		}
		return false, nil
	}
	return true, nil
}

// AvgNumTokens averages whitespace tokens over the column's distinct strings.
func (h heuristics) AvgNumTokens(ctx context.Context, column string) (int, error) {
	values, err := h.src.tokenCandidates(ctx, column)
	if err != nil {
		return 0, err
	}
	return avgNumTokens(values), nil
}

// ImageValues sums the image likeness score of the first sampleSize values.
func (h heuristics) ImageValues(ctx context.Context, column string, sampleSize int) (int, error) {
	return h.score(ctx, column, sampleSize, media.ImageScore)
}

// AudioValues sums the audio likeness score of the first sampleSize values.
func (h heuristics) AudioValues(ctx context.Context, column string, sampleSize int) (int, error) {
	return h.score(ctx, column, sampleSize, media.AudioScore)
}

func (h heuristics) score(ctx context.Context, column string, sampleSize int, scoreFn func(any) float64) (int, error) {
	if sampleSize <= 0 {
		sampleSize = DefaultMediaSampleSize
	}
	values, err := h.src.head(ctx, column, sampleSize)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, v := range values {
		total += scoreFn(v)
	}
	return int(total), nil
}

// IsStringType reports whether dtype is one of the adapter's textual types.
func (h heuristics) IsStringType(dtype string) bool {
	_, ok := h.stringTypes[strings.ToLower(dtype)]
	return ok
}
