// Package roster turns raw participant text into clean, de-duplicated name lists.
package roster

import (
	"strings"
)

// Parse splits imported text on newlines, carriage returns and commas,
// trims every entry and drops empty ones. Duplicates are kept; use Merge.
func Parse(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	return Clean(fields)
}

// ParseLines parses a manually edited list, one name per line.
// Commas are part of the name here. The result is de-duplicated.
func ParseLines(raw string) []string {
	return Dedupe(Clean(strings.Split(raw, "\n")))
}

// Merge appends incoming names to existing, dropping exact duplicates and
// keeping the order of first occurrence.
func Merge(existing, incoming []string) []string {
	merged := make([]string, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)
	merged = append(merged, incoming...)
	return Dedupe(merged)
}

// Dedupe removes exact duplicates, keeping the first occurrence
func Dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	return result
}

// Remove returns names without any entry equal to one of drop
func Remove(names, drop []string) []string {
	excluded := make(map[string]struct{}, len(drop))
	for _, name := range drop {
		excluded[name] = struct{}{}
	}
	result := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := excluded[name]; !ok {
			result = append(result, name)
		}
	}
	return result
}

// Clean trims every entry and drops empty ones
func Clean(fields []string) []string {
	result := make([]string, 0, len(fields))
	for _, f := range fields {
		if name := strings.TrimSpace(f); name != "" {
			result = append(result, name)
		}
	}
	return result
}
