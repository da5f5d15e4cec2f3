package table

import (
	"strings"

	"github.com/teriyakichild/mcp-condenser/internal/flatten"
	"github.com/teriyakichild/mcp-condenser/internal/value"
)

// identityKeywords is the fixed priority order tried by FindIdentityColumn.
var identityKeywords = []string{"name", "id", "uid"}

// frontIdentityKeywords promotes these segment names to the front of
// column order before reduction (spec §4.4).
var frontIdentityKeywords = map[string]bool{
	"name": true, "id": true, "ref": true, "uid": true,
	"namespace": true, "label": true, "nodename": true,
}

// FindIdentityColumn returns the best column to use as a row label. When
// arr is non-nil and several columns match the same keyword, the column
// with the highest cardinality of non-empty formatted values wins.
func FindIdentityColumn(cols []string, arr []value.Value) string {
	for _, kw := range identityKeywords {
		var matches []string
		for _, c := range cols {
			if lastSegment(c) == kw {
				matches = append(matches, c)
			}
		}
		if len(matches) == 0 {
			continue
		}
		if len(matches) == 1 || arr == nil {
			return matches[0]
		}

		best := matches[0]
		bestCard := cardinality(best, arr)
		for _, m := range matches[1:] {
			if c := cardinality(m, arr); c > bestCard {
				best, bestCard = m, c
			}
		}
		return best
	}
	if len(cols) > 0 {
		return cols[0]
	}
	return ""
}

func cardinality(col string, arr []value.Value) int {
	vals := map[string]bool{}
	for _, item := range arr {
		if item.Kind != value.KindObject {
			continue
		}
		v, ok := flatten.Flatten(item.Obj).Get(col)
		if !ok {
			continue
		}
		if f := value.Fmt(v); f != "" {
			vals[f] = true
		}
	}
	return len(vals)
}

func lastSegment(col string) string {
	seg := col
	if i := strings.LastIndexByte(col, '.'); i >= 0 {
		seg = col[i+1:]
	}
	return strings.ToLower(seg)
}

// OrderColumns moves identity-like columns (spec §4.4's front-load set)
// to the front, preserving relative order within each group.
func OrderColumns(cols []string) []string {
	var ids, rest []string
	for _, c := range cols {
		if frontIdentityKeywords[lastSegment(c)] {
			ids = append(ids, c)
		} else {
			rest = append(rest, c)
		}
	}
	return append(ids, rest...)
}
