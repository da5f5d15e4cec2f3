// Package table implements column analysis, identity-column selection,
// and numeric-tuple detection over homogeneous arrays of objects.
package table

import (
	"regexp"
	"sort"
	"time"

	"github.com/teriyakichild/mcp-condenser/internal/flatten"
	"github.com/teriyakichild/mcp-condenser/internal/value"
)

// isoTimestampRE matches the ISO-8601 date+time prefix; any trailing
// offset or fractional-seconds suffix is accepted (spec §4.3).
var isoTimestampRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)

// tsClusterWindow is the max-minus-min span, in seconds, under which a
// timestamp column is considered clustered. Open question (spec §9.i):
// kept as a constant, not exposed as a heuristic.
const tsClusterWindow = 60.0

// ColumnInfo characterizes one column across every row of a table.
type ColumnInfo struct {
	Fmted       []string
	Unique      map[string]bool
	Raw         []value.Value
	AllZero     bool
	AllNull     bool
	Constant    bool
	ConstVal    string
	IsTimestamp bool
	TSClustered bool
	TSCenter    string
}

// AnalyzeColumns builds a ColumnInfo for every column in cols, reading
// each row's flattened value at that column (missing -> Null).
func AnalyzeColumns(arr []value.Value, cols []string) map[string]*ColumnInfo {
	info := make(map[string]*ColumnInfo, len(cols))
	for _, col := range cols {
		info[col] = analyzeColumn(arr, col)
	}
	return info
}

func analyzeColumn(arr []value.Value, col string) *ColumnInfo {
	fmted := make([]string, len(arr))
	raw := make([]value.Value, len(arr))
	unique := map[string]bool{}

	for i, item := range arr {
		v := value.Null()
		if item.Kind == value.KindObject {
			if got, ok := flatten.Flatten(item.Obj).Get(col); ok {
				v = got
			}
		}
		raw[i] = v
		f := value.Fmt(v)
		fmted[i] = f
		unique[f] = true
	}

	ci := &ColumnInfo{Fmted: fmted, Raw: raw, Unique: unique}
	ci.AllZero = isSubsetOf(unique, "0", "", "0.0")
	ci.AllNull = isSubsetOf(unique, "")
	ci.Constant = len(unique) == 1
	if ci.Constant && len(fmted) > 0 {
		ci.ConstVal = fmted[0]
	}

	allTS := true
	for _, v := range raw {
		if v.Kind == value.KindNull {
			continue
		}
		if !isoTimestampRE.MatchString(value.Fmt(v)) {
			allTS = false
			break
		}
	}
	ci.IsTimestamp = allTS

	if allTS {
		var parsed []time.Time
		for _, v := range raw {
			if v.Kind == value.KindNull {
				continue
			}
			if t, ok := parseTimestamp(value.Fmt(v)); ok {
				parsed = append(parsed, t)
			}
		}
		if len(parsed) > 0 {
			lo, hi := parsed[0], parsed[0]
			for _, t := range parsed {
				if t.Before(lo) {
					lo = t
				}
				if t.After(hi) {
					hi = t
				}
			}
			if hi.Sub(lo).Seconds() <= tsClusterWindow {
				ci.TSClustered = true
				sorted := append([]time.Time(nil), parsed...)
				sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
				ci.TSCenter = sorted[len(sorted)/2].UTC().Format(time.RFC3339)
			}
		}
	}

	return ci
}

func isSubsetOf(set map[string]bool, allowed ...string) bool {
	allowedSet := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		allowedSet[a] = true
	}
	for k := range set {
		if !allowedSet[k] {
			return false
		}
	}
	return true
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
