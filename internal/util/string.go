package util

import (
	"regexp"
	"strings"
)

var punctuationPattern = regexp.MustCompile(`[^\w\s]`)

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tokenize lowercases s, strips punctuation and splits on whitespace.
func Tokenize(s string) []string {
	return strings.Fields(punctuationPattern.ReplaceAllString(strings.ToLower(s), ""))
}

// Contains checks if a string slice contains a specific item
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
