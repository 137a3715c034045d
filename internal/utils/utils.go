// Package utils contains general helper functions used across treedoc.
package utils

import (
	"strings"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// NormalizeNames trims every name, drops blanks and duplicates, and keeps the
// first occurrence order. Names are literal entry names, not patterns.
func NormalizeNames(names []string) []string {
	trimmedNames := make([]string, 0, len(names))
	for _, name := range names {
		trimmedName := strings.TrimSpace(name)
		if trimmedName == EmptyString {
			continue
		}
		trimmedNames = append(trimmedNames, trimmedName)
	}
	return DeduplicatePatterns(trimmedNames)
}

// NameSet converts a slice of names into a lookup set.
func NameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
