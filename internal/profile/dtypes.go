package profile

import (
	"strconv"
	"strings"
)

var numericDTypes = map[string]struct{}{
	"integer": {}, "smallint": {}, "bigint": {}, "tinyint": {}, "mediumint": {},
	"numeric": {}, "decimal": {}, "real": {}, "double": {}, "double precision": {},
	"money": {}, "smallmoney": {}, "serial": {}, "bigserial": {},
	"int": {}, "uint": {}, "float": {}, "halffloat": {},
}

// IsNumericDType reports whether a dtype from any backend holds numbers.
func IsNumericDType(dtype string) bool {
	d := strings.ToLower(dtype)
	if _, ok := numericDTypes[d]; ok {
		return true
	}
	// int64, float32, decimal128, ...
	_, ok := numericDTypes[strings.TrimRight(d, "0123456789")]
	return ok
}

// IsDateDType reports whether a dtype holds dates or timestamps.
func IsDateDType(dtype string) bool {
	d := strings.ToLower(dtype)
	return strings.HasPrefix(d, "datetime") || strings.HasPrefix(d, "timestamp") || strings.HasPrefix(d, "date")
}

// IsBoolDType reports whether a dtype holds booleans.
func IsBoolDType(dtype string) bool {
	switch strings.ToLower(dtype) {
	case "bool", "boolean", "bit":
		return true
	}
	return false
}

// allNumbers reports whether every value is a number or a string that parses
// as one. Booleans are not numbers.
func allNumbers(values []any) bool {
	for _, v := range values {
		switch x := v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		case string:
			if _, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err != nil {
				return false
			}
		case []byte:
			if _, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64); err != nil {
				return false
			}
		default:
			return false
		}
	}
	return true
}
