// Package util provides shared utility functions used across the codebase.
package util

import "strings"

// SplitCSV splits a comma-separated string into a slice, trimming whitespace.
// Returns nil for empty strings.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// NumTokens returns the number of whitespace-separated tokens in s.
func NumTokens(s string) int {
	return len(strings.Fields(s))
}

// HasAnySuffixFold reports whether s ends with any of the suffixes, ignoring case.
func HasAnySuffixFold(s string, suffixes []string) bool {
	lower := strings.ToLower(s)
	for _, suffix := range suffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
