// Package flatten turns nested Objects into dotted-path FlatRecords and
// recognizes the two array shapes the rest of the pipeline cares about:
// homogeneous arrays of objects (table candidates) and KV arrays
// (pivot candidates).
package flatten

import (
	"github.com/teriyakichild/mcp-condenser/internal/value"
)

// homogeneityThreshold is the fraction of the column union that must be
// present in every row for an array of objects to count as a table.
// Open question (spec §9.i): kept as a constant, not exposed as a
// heuristic.
const homogeneityThreshold = 0.6

// Flatten walks obj depth-first, emitting an ordered mapping from
// dotted-path key to non-Object Value. Arrays are kept whole at their
// path; only nested Objects are descended into.
func Flatten(obj *value.Object) *value.Object {
	out := value.NewObject()
	flattenInto(out, obj, "")
	return out
}

func flattenInto(out *value.Object, obj *value.Object, prefix string) {
	for _, p := range obj.Pairs() {
		key := p.Key
		if prefix != "" {
			key = prefix + "." + p.Key
		}
		if p.Val.Kind == value.KindObject {
			flattenInto(out, p.Val.Obj, key)
		} else {
			out.Set(key, p.Val)
		}
	}
}

// IsHomogeneousArray reports whether arr is a uniform list of objects
// suitable for tabular rendering: at least two Object elements, whose
// flattened non-array keys union to at least two entries, with an
// intersection covering at least homogeneityThreshold of that union.
func IsHomogeneousArray(arr []value.Value) bool {
	if len(arr) < 2 {
		return false
	}
	for _, x := range arr {
		if x.Kind != value.KindObject {
			return false
		}
	}

	rowKeySets := make([]map[string]bool, len(arr))
	union := map[string]bool{}
	for i, item := range arr {
		keys := scalarKeys(item.Obj)
		rowKeySets[i] = keys
		for k := range keys {
			union[k] = true
		}
	}
	if len(union) < 2 {
		return false
	}

	common := map[string]bool{}
	for k := range union {
		common[k] = true
	}
	for _, keys := range rowKeySets {
		for k := range common {
			if !keys[k] {
				delete(common, k)
			}
		}
	}

	return float64(len(common)) >= float64(len(union))*homogeneityThreshold
}

func scalarKeys(obj *value.Object) map[string]bool {
	fl := Flatten(obj)
	keys := make(map[string]bool, fl.Len())
	for _, p := range fl.Pairs() {
		if p.Val.Kind != value.KindArray {
			keys[p.Key] = true
		}
	}
	return keys
}

// IsKVArray reports whether arr is non-empty and every element is an
// Object with exactly the string-keyed {Key, Value} pair.
func IsKVArray(arr []value.Value) bool {
	if len(arr) == 0 {
		return false
	}
	for _, item := range arr {
		if item.Kind != value.KindObject || item.Obj.Len() != 2 {
			return false
		}
		k, hasKey := item.Obj.Get("Key")
		_, hasValue := item.Obj.Get("Value")
		if !hasKey || !hasValue || k.Kind != value.KindString {
			return false
		}
	}
	return true
}

// UnionColumns returns the ordered union of non-array scalar columns
// across every Object element of arr (first-seen order).
func UnionColumns(arr []value.Value) []string {
	seen := map[string]bool{}
	var cols []string
	for _, item := range arr {
		if item.Kind != value.KindObject {
			continue
		}
		for _, p := range Flatten(item.Obj).Pairs() {
			if p.Val.Kind == value.KindArray || seen[p.Key] {
				continue
			}
			seen[p.Key] = true
			cols = append(cols, p.Key)
		}
	}
	return cols
}
