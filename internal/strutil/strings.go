// Package strutil provides common string and path utility functions used throughout the application.
package strutil

import (
	"strings"
)

// IsEmpty checks if a string is empty or contains only whitespace.
func IsEmpty(value string) bool {
	return strings.TrimSpace(value) == ""
}

// EmptyToDefault returns defaultValue when value is empty.
func EmptyToDefault(value, defaultValue string) string {
	if IsEmpty(value) {
		return defaultValue
	}
	return value
}

// HasAnyPrefix reports whether text starts with any of the prefixes.
func HasAnyPrefix(text string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

// ContainsAny reports whether text contains any of the substrings.
func ContainsAny(text string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(text, sub) {
			return true
		}
	}
	return false
}

// UniqueStrings returns the input without duplicates, keeping first occurrences.
func UniqueStrings(slice []string) []string {
	if len(slice) == 0 {
		return slice
	}

	seen := make(map[string]struct{}, len(slice))
	result := make([]string, 0, len(slice))
	for _, s := range slice {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		result = append(result, s)
	}
	return result
}

// Truncate shortens value to at most n runes, appending "..." when cut.
func Truncate(value string, n int) string {
	runes := []rune(value)
	if n <= 0 || len(runes) <= n {
		return value
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
