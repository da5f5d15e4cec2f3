// Package reducer applies the fixed-order elision pipeline, tuple
// grouping, and column cap over a homogeneous array of objects,
// producing cleaned rows ready for tabular rendering (spec §4.5).
package reducer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teriyakichild/mcp-condenser/internal/flatten"
	"github.com/teriyakichild/mcp-condenser/internal/heuristics"
	"github.com/teriyakichild/mcp-condenser/internal/table"
	"github.com/teriyakichild/mcp-condenser/internal/value"
)

// Column is one final output column: a header and the source columns
// it was built from (a single column, or a tuple group's members in
// declared order).
type Column struct {
	Header  string
	Sources []string
}

// Result is the reducer's output: the annotation lines, the final
// column list, and the cleaned rows keyed by final header.
type Result struct {
	Annotations []string
	Columns     []Column
	Rows        []*value.Object
}

// Preprocess runs the full reduction pipeline over arr.
func Preprocess(arr []value.Value, h heuristics.Heuristics) Result {
	cols := table.OrderColumns(flatten.UnionColumns(arr))
	info := table.AnalyzeColumns(arr, cols)

	var annotations []string
	elided := map[string]bool{}

	if h.ElideAllZero {
		var zc []string
		for _, c := range cols {
			if info[c].AllZero && !info[c].AllNull {
				zc = append(zc, c)
			}
		}
		if len(zc) > 0 {
			annotations = append(annotations, "  elided all_zero: "+strings.Join(zc, ", "))
			markElided(elided, zc)
		}
	}

	if h.ElideAllNull {
		var nc []string
		for _, c := range cols {
			if info[c].AllNull && !elided[c] {
				nc = append(nc, c)
			}
		}
		if len(nc) > 0 {
			annotations = append(annotations, "  elided all_null: "+strings.Join(nc, ", "))
			markElided(elided, nc)
		}
	}

	if h.ElideMostlyZeroPct > 0 {
		idCol := table.FindIdentityColumn(cols, arr)
		for _, c := range cols {
			if elided[c] || info[c].AllZero || info[c].AllNull {
				continue
			}
			fmted := info[c].Fmted
			nTotal := len(fmted)
			if nTotal == 0 {
				continue
			}
			nZero := 0
			for _, v := range fmted {
				if v == "0" || v == "" {
					nZero++
				}
			}
			if float64(nZero)/float64(nTotal) < h.ElideMostlyZeroPct {
				continue
			}
			var nonZero []string
			for i, v := range fmted {
				if v == "0" || v == "" {
					continue
				}
				label := strconv.Itoa(i)
				if idCol != "" {
					if idVal, ok := flatten.Flatten(arr[i].Obj).Get(idCol); ok {
						label = value.Fmt(idVal)
					}
				}
				nonZero = append(nonZero, fmt.Sprintf("%s=%s", label, v))
			}
			if len(nonZero) > 0 {
				annotations = append(annotations, fmt.Sprintf("  elided mostly_zero: %s (non-zero: %s)", c, strings.Join(nonZero, ", ")))
			} else {
				annotations = append(annotations, fmt.Sprintf("  elided mostly_zero: %s", c))
			}
			elided[c] = true
		}
	}

	if h.ElideTimestamps {
		for _, c := range cols {
			if elided[c] {
				continue
			}
			ci := info[c]
			switch {
			case ci.TSClustered && ci.Constant:
				annotations = append(annotations, fmt.Sprintf("  elided constant %s: %s", c, ci.ConstVal))
				elided[c] = true
			case ci.TSClustered:
				center := ci.TSCenter
				if center == "" && len(ci.Raw) > 0 {
					center = value.Fmt(ci.Raw[0])
				}
				annotations = append(annotations, fmt.Sprintf("  elided timestamp_cluster %s: ~%s (within 60s)", c, center))
				elided[c] = true
			}
		}
	}

	if h.ElideConstants {
		for _, c := range cols {
			ci := info[c]
			if !elided[c] && ci.Constant && !ci.AllZero && !ci.AllNull {
				annotations = append(annotations, fmt.Sprintf("  elided constant %s: %s", c, ci.ConstVal))
				elided[c] = true
			}
		}
	}

	var remaining []string
	for _, c := range cols {
		if !elided[c] {
			remaining = append(remaining, c)
		}
	}

	tuples := map[string][]string{}
	if h.GroupTuples {
		tuples = table.DetectNumericTuples(remaining, info)
	}

	tupleMembers := map[string]bool{}
	tupleMap := map[string][]string{}
	for prefix, members := range tuples {
		if len(members) < 3 || len(members) > h.MaxTupleSize {
			continue
		}
		leaves := make([]string, len(members))
		for i, m := range members {
			leaves[i] = lastDotSegment(m)
		}
		header := fmt.Sprintf("%s(%s)", prefix, strings.Join(leaves, ","))
		tupleMap[header] = members
		for _, m := range members {
			tupleMembers[m] = true
		}
	}

	var final []Column
	seen := map[string]bool{}
	for _, c := range cols {
		if elided[c] || seen[c] {
			continue
		}
		if tupleMembers[c] {
			for header, members := range tupleMap {
				if seen[header] || !containsStr(members, c) {
					continue
				}
				final = append(final, Column{Header: header, Sources: members})
				seen[header] = true
				for _, m := range members {
					seen[m] = true
				}
				break
			}
		} else {
			final = append(final, Column{Header: c, Sources: []string{c}})
			seen[c] = true
		}
	}

	if h.MaxTableColumns > 0 && len(final) > h.MaxTableColumns {
		kept := final[:h.MaxTableColumns]
		overflow := final[h.MaxTableColumns:]
		names := make([]string, len(overflow))
		for i, col := range overflow {
			names[i] = col.Header
		}
		annotations = append(annotations, fmt.Sprintf("  elided overflow (%d columns exceed limit): %s", len(names), strings.Join(names, ", ")))
		final = kept
	}

	rows := make([]*value.Object, len(arr))
	for i, item := range arr {
		fl := flatten.Flatten(item.Obj)
		row := value.NewObject()
		for _, col := range final {
			if len(col.Sources) == 1 {
				v, ok := fl.Get(col.Sources[0])
				if !ok || v.Kind == value.KindNull {
					row.Set(col.Header, value.String(""))
				} else {
					row.Set(col.Header, v)
				}
			} else {
				parts := make([]string, len(col.Sources))
				for j, s := range col.Sources {
					v, _ := fl.Get(s)
					parts[j] = value.Fmt(v)
				}
				row.Set(col.Header, value.String(strings.Join(parts, ",")))
			}
		}
		rows[i] = row
	}

	return Result{Annotations: annotations, Columns: final, Rows: rows}
}

func markElided(elided map[string]bool, cols []string) {
	for _, c := range cols {
		elided[c] = true
	}
}

func lastDotSegment(col string) string {
	if i := strings.LastIndexByte(col, '.'); i >= 0 {
		return col[i+1:]
	}
	return col
}

func containsStr(ss []string, target string) bool {
	for _, s := range ss {
		if s == target {
			return true
		}
	}
	return false
}
