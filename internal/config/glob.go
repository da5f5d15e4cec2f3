package config

import "github.com/bmatcuk/doublestar/v4"

// MatchesTool reports whether toolName is selected by patterns, using
// doublestar glob matching (spec.md §6: tool name lists may contain glob
// patterns, e.g. "bucket_*"). Repurposed from the teacher's file-path
// ignore-pattern matching in explain.go, applied to tool names instead
// of paths.
func MatchesTool(patterns []string, toolName string) bool {
	for _, pat := range patterns {
		if pat == toolName {
			return true
		}
		if ok, err := doublestar.Match(pat, toolName); err == nil && ok {
			return true
		}
	}
	return false
}
