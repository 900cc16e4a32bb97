package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/johndauphine/tabprof/internal/datasource"
	"github.com/johndauphine/tabprof/internal/logging"
)

// sniffBytes bounds how much of the file separator detection looks at.
const sniffBytes = 64 * 1024

var candidateSeparators = []rune{',', ';', '\t', '|'}

// naValues are the cell texts read as null.
var naValues = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"null": {}, "NULL": {}, "None": {}, "#N/A": {}, "<NA>": {},
}

// infSpellings are the infinity texts read as floats, with an optional sign.
var infSpellings = map[string]struct{}{
	"inf": {}, "Inf": {}, "INF": {}, "infinity": {}, "Infinity": {}, "INFINITY": {},
}

// DetectSeparator picks the candidate separator occurring most often on the
// first line, defaulting to a comma.
func DetectSeparator(firstLine string) rune {
	best, bestCount := ',', 0
	for _, sep := range candidateSeparators {
		if n := strings.Count(firstLine, string(sep)); n > bestCount {
			best, bestCount = sep, n
		}
	}
	return best
}

func separatorName(sep rune) string {
	switch sep {
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '\t':
		return "tab"
	case '|':
		return "pipe"
	}
	return string(sep)
}

// readCSV parses delimited text with a header row. A zero separator is sniffed.
func readCSV(r io.Reader, sep rune) (*datasource.Frame, error) {
	br := bufio.NewReaderSize(r, sniffBytes)
	if sep == 0 {
		head, err := br.Peek(sniffBytes)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, fmt.Errorf("reading header: %w", err)
		}
		line, _, _ := strings.Cut(string(head), "\n")
		sep = DetectSeparator(line)
		logging.Debug("Detected CSV separator: %s", separatorName(sep))
	}

	cr := csv.NewReader(br)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	names := dedupeNames(header)

	columns := make([][]any, len(names))
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		for i := range columns {
			var v any
			if i < len(record) {
				v = ParseScalar(record[i])
			}
			columns[i] = append(columns[i], v)
		}
	}

	series := make([]*datasource.Series, len(names))
	for i, name := range names {
		series[i] = datasource.NewSeries(name, columns[i])
	}
	return datasource.NewFrame(series...)
}

// ParseScalar converts a cell to nil, int64, float64, bool or string, in that order.
func ParseScalar(s string) any {
	t := strings.TrimSpace(s)
	if _, na := naValues[t]; na {
		return nil
	}
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return i
	}
	if f, ok := parseDecimal(t); ok {
		return f
	}
	switch t {
	case "true", "True", "TRUE":
		return true
	case "false", "False", "FALSE":
		return false
	}
	return s
}

// parseDecimal accepts plain decimal and exponent notation plus the
// infinity spellings. Hex floats, digit separators and NaN stay text.
func parseDecimal(t string) (float64, bool) {
	unsigned := strings.TrimLeft(t, "+-")
	if len(t)-len(unsigned) > 1 {
		return 0, false
	}
	if _, ok := infSpellings[unsigned]; ok {
		if strings.HasPrefix(t, "-") {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	for _, r := range unsigned {
		if (r < '0' || r > '9') && r != '.' && r != 'e' && r != 'E' && r != '+' && r != '-' {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(t, 64)
	return f, err == nil
}

// dedupeNames makes header names unique by suffixing repeats with .1, .2, ...
// A generated name that is already taken gets the next free suffix.
func dedupeNames(header []string) []string {
	used := make(map[string]bool, len(header))
	next := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for used[name] {
			next[base]++
			name = fmt.Sprintf("%s.%d", base, next[base])
		}
		used[name] = true
		out[i] = name
	}
	return out
}
