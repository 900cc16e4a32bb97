package datasource

import (
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"time"

	"github.com/johndauphine/tabprof/internal/util"
)

const (
	// tokenSampleSize caps the number of values AvgNumTokens looks at.
	tokenSampleSize = 5000
	tokenSampleSeed = 40
)

// IsNull reports whether v is a null marker: nil or a floating point NaN.
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

type bytesKey string
type timeKey int64
type formattedKey string

// valueKey maps a scalar to a comparable map key. Byte slices and times are
// keyed by content; other non-comparable values by their formatted form.
func valueKey(v any) any {
	switch x := v.(type) {
	case []byte:
		return bytesKey(x)
	case time.Time:
		return timeKey(x.UnixNano())
	}
	if t := reflect.TypeOf(v); t != nil && !t.Comparable() {
		return formattedKey(fmt.Sprintf("%T:%v", v, v))
	}
	return v
}

// summarize computes a DistinctSummary over raw column values, keeping
// distinct values in order of first appearance.
func summarize(values []any, maxValues int) DistinctSummary {
	counts := make(map[any]int)
	var distinct []any
	for _, v := range values {
		if IsNull(v) {
			continue
		}
		k := valueKey(v)
		if _, seen := counts[k]; !seen {
			distinct = append(distinct, v)
		}
		counts[k]++
	}

	summary := DistinctSummary{Count: len(distinct)}
	if maxValues > len(distinct) {
		maxValues = len(distinct)
	}
	summary.Values = distinct[:maxValues:maxValues]
	summary.Balance = balance(counts)
	return summary
}

// balance returns min(count)/max(count), or 0 with fewer than two distinct values.
func balance(counts map[any]int) float64 {
	if len(counts) < 2 {
		return 0
	}
	lo, hi := math.MaxInt, 0
	for _, n := range counts {
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return float64(lo) / float64(hi)
}

func balanceFromCounts(distinct int, minCount, maxCount int64) float64 {
	if distinct < 2 || maxCount == 0 {
		return 0
	}
	return float64(minCount) / float64(maxCount)
}

// avgNumTokens averages the whitespace token count over the distinct string
// entries of a deterministic sample of values. Non-string entries are ignored.
func avgNumTokens(values []any) int {
	if len(values) > tokenSampleSize {
		rng := rand.New(rand.NewSource(tokenSampleSeed))
		sample := make([]any, tokenSampleSize)
		for i, idx := range rng.Perm(len(values))[:tokenSampleSize] {
			sample[i] = values[idx]
		}
		values = sample
	}

	seen := make(map[string]struct{})
	total, n := 0, 0
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		total += util.NumTokens(s)
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(n)))
}
