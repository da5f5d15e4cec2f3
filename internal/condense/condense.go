// Package condense implements the renderer stage of the condensing
// engine (spec §4.6): it walks a parsed value.Value tree, recognizing
// homogeneous arrays as table candidates, KV arrays as pivot
// candidates, and nested object-arrays as sub-tables, and emits a
// line-oriented TOON text. Condense is the single canonical top-level
// entry point; ToonEncode is the canonical raw (non-semantic)
// conversion. Grounded on condenser.py's render_table/render_scalars/
// condense/_join_blocks/condense_json/toon_encode_json.
package condense

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teriyakichild/mcp-condenser/internal/flatten"
	"github.com/teriyakichild/mcp-condenser/internal/heuristics"
	"github.com/teriyakichild/mcp-condenser/internal/reducer"
	"github.com/teriyakichild/mcp-condenser/internal/table"
	"github.com/teriyakichild/mcp-condenser/internal/toon"
	"github.com/teriyakichild/mcp-condenser/internal/value"
)

// Condense walks v and renders it as condensed TOON text. A top-level
// Object distributes its keys as independently-named blocks, matching
// the way condense_json treats the root document.
func Condense(v value.Value, h heuristics.Heuristics) string {
	if v.Kind == value.KindObject {
		var blocks []string
		for _, p := range v.Obj.Pairs() {
			blocks = append(blocks, blocksFor(p.Key, p.Val, h)...)
		}
		return joinBlocks(blocks)
	}
	return joinBlocks(blocksFor("root", v, h))
}

// ToonEncode renders v directly as TOON without semantic reduction:
// it walks the same tree shape as Condense (scalars, scalar blocks,
// homogeneous-array tables, recursed object-arrays) but skips the
// reducer entirely, so elision/tuple-grouping/pivot never run -- every
// row keeps every column, raw and unannotated.
func ToonEncode(v value.Value) string {
	if v.Kind == value.KindObject {
		var blocks []string
		for _, p := range v.Obj.Pairs() {
			blocks = append(blocks, rawBlocksFor(p.Key, p.Val)...)
		}
		return joinBlocks(blocks)
	}
	return joinBlocks(rawBlocksFor("root", v))
}

func rawBlocksFor(name string, v value.Value) []string {
	switch v.Kind {
	case value.KindNull, value.KindBool, value.KindNumber, value.KindString:
		return []string{fmt.Sprintf("%s: %s", name, value.Fmt(v))}

	case value.KindObject:
		fl := flatten.Flatten(v.Obj)
		scalars := value.NewObject()
		var arrays []value.Pair
		for _, p := range fl.Pairs() {
			if p.Val.Kind == value.KindArray {
				arrays = append(arrays, p)
			} else {
				scalars.Set(p.Key, p.Val)
			}
		}
		var blocks []string
		if scalars.Len() > 0 {
			blocks = append(blocks, renderScalars(name, scalars))
		}
		for _, ap := range arrays {
			an := ap.Key
			if name != "" {
				an = name + "." + ap.Key
			}
			blocks = append(blocks, rawBlocksForArray(an, ap.Val)...)
		}
		return blocks

	case value.KindArray:
		return rawBlocksForArray(name, v)

	default:
		return nil
	}
}

func rawBlocksForArray(name string, v value.Value) []string {
	av := v.Arr
	switch {
	case flatten.IsHomogeneousArray(av):
		rows := make([]*value.Object, len(av))
		for i, item := range av {
			rows[i] = flatten.Flatten(item.Obj)
		}
		header := fmt.Sprintf("--- %s (%d rows) ---", name, len(av))
		return []string{header + "\n" + toon.Encode(rows)}
	case len(av) > 0 && av[0].Kind == value.KindObject:
		var blocks []string
		for i, item := range av {
			blocks = append(blocks, rawBlocksFor(fmt.Sprintf("%s[%d]", name, i), item)...)
		}
		return blocks
	default:
		return []string{fmt.Sprintf("%s: %s", name, value.ToJSON(v))}
	}
}

// blocksFor renders a single named value as zero or more blocks,
// recursing into objects and arrays the way condenser.py's condense()
// does.
func blocksFor(name string, v value.Value, h heuristics.Heuristics) []string {
	switch v.Kind {
	case value.KindNull, value.KindBool, value.KindNumber, value.KindString:
		return []string{fmt.Sprintf("%s: %s", name, value.Fmt(v))}

	case value.KindObject:
		fl := flatten.Flatten(v.Obj)
		scalars := value.NewObject()
		var arrays []value.Pair
		for _, p := range fl.Pairs() {
			if p.Val.Kind == value.KindArray {
				arrays = append(arrays, p)
			} else {
				scalars.Set(p.Key, p.Val)
			}
		}

		var blocks []string
		if scalars.Len() > 0 {
			blocks = append(blocks, renderScalars(name, scalars))
		}
		for _, ap := range arrays {
			an := ap.Key
			if name != "" {
				an = name + "." + ap.Key
			}
			blocks = append(blocks, blocksForArray(an, ap.Val, h)...)
		}
		return blocks

	case value.KindArray:
		return blocksForArray(name, v, h)

	default:
		return nil
	}
}

func blocksForArray(name string, v value.Value, h heuristics.Heuristics) []string {
	av := v.Arr
	switch {
	case flatten.IsHomogeneousArray(av):
		return renderTable(name, av, h)
	case len(av) > 0 && av[0].Kind == value.KindObject:
		var blocks []string
		for i, item := range av {
			blocks = append(blocks, blocksFor(fmt.Sprintf("%s[%d]", name, i), item, h)...)
		}
		return blocks
	default:
		return []string{fmt.Sprintf("%s: %s", name, value.ToJSON(v))}
	}
}

// renderScalars encodes a flat scalar record as a "(scalars)" block.
func renderScalars(name string, flat *value.Object) string {
	header := fmt.Sprintf("--- %s (scalars) ---", name)
	return header + "\n" + toon.EncodeScalars(flat)
}

// renderTable renders a homogeneous array of objects as a parent
// table block plus any extracted sub-table blocks, honoring KV-pivot
// and the wide-table body modes.
func renderTable(name string, arr []value.Value, h heuristics.Heuristics) []string {
	if len(arr) == 0 {
		return []string{fmt.Sprintf("--- %s ---\n(empty)", name)}
	}

	pivoted := arr
	if h.PivotKeyValue {
		pivoted = pivotKVArrays(arr)
	}

	scalarCols := table.OrderColumns(flatten.UnionColumns(pivoted))
	idCol := table.FindIdentityColumn(scalarCols, pivoted)

	subTables := extractSubTables(pivoted, idCol)

	result := reducer.Preprocess(pivoted, h)
	header := fmt.Sprintf("--- %s (%d rows) ---", name, len(arr))

	var blocks []string
	switch {
	case h.WideTableThreshold > 0 && len(result.Columns) > h.WideTableThreshold && h.WideTableFormat == "split":
		blocks = append(blocks, renderSplit(name, result, idCol)...)
	case h.WideTableThreshold > 0 && len(result.Columns) > h.WideTableThreshold:
		parts := []string{header}
		parts = append(parts, result.Annotations...)
		parts = append(parts, renderVertical(result, idCol))
		blocks = append(blocks, strings.Join(parts, "\n"))
	default:
		parts := []string{header}
		parts = append(parts, result.Annotations...)
		parts = append(parts, toon.Encode(result.Rows))
		blocks = append(blocks, strings.Join(parts, "\n"))
	}

	for _, st := range subTables {
		subName := name + "." + st.field
		subResult := reducer.Preprocess(st.items, h)
		subParts := []string{fmt.Sprintf("--- %s (%d rows) ---", subName, len(st.items))}
		subParts = append(subParts, subResult.Annotations...)
		subParts = append(subParts, toon.Encode(subResult.Rows))
		blocks = append(blocks, strings.Join(subParts, "\n"))
	}

	return blocks
}

// renderVertical emits one "[label]" section per row followed by a
// "key: value" line per non-identity column (spec §4.6 Vertical mode).
func renderVertical(result reducer.Result, idCol string) string {
	idColIdx := -1
	if idCol != "" {
		for i, c := range result.Columns {
			if len(c.Sources) == 1 && c.Sources[0] == idCol {
				idColIdx = i
				break
			}
		}
	}

	var lines []string
	for i, row := range result.Rows {
		label := fmt.Sprintf("row %d", i)
		if idColIdx >= 0 {
			if v, ok := row.Get(result.Columns[idColIdx].Header); ok {
				label = value.Fmt(v)
			}
		}
		lines = append(lines, "["+label+"]")
		for j, c := range result.Columns {
			if j == idColIdx {
				continue
			}
			v, _ := row.Get(c.Header)
			lines = append(lines, c.Header+": "+value.Fmt(v))
		}
	}
	return strings.Join(lines, "\n")
}

// renderSplit partitions non-identity columns by first dotted-path
// segment, repeating the identity column in each partition, and
// collects ungrouped columns into a "_misc" partition (spec §4.6
// Split mode).
func renderSplit(name string, result reducer.Result, idCol string) []string {
	var idColVal *reducer.Column
	for i := range result.Columns {
		c := result.Columns[i]
		if idCol != "" && len(c.Sources) == 1 && c.Sources[0] == idCol {
			idColVal = &c
			break
		}
	}

	groups := map[string][]reducer.Column{}
	var order []string
	var misc []reducer.Column
	for _, c := range result.Columns {
		if idColVal != nil && c.Header == idColVal.Header {
			continue
		}
		src := c.Sources[0]
		idx := strings.IndexByte(src, '.')
		if idx < 0 {
			misc = append(misc, c)
			continue
		}
		prefix := src[:idx]
		if _, ok := groups[prefix]; !ok {
			order = append(order, prefix)
		}
		groups[prefix] = append(groups[prefix], c)
	}

	var finalOrder []string
	for _, p := range order {
		if len(groups[p]) <= 1 {
			misc = append(misc, groups[p]...)
			continue
		}
		finalOrder = append(finalOrder, p)
	}

	buildBlock := func(partName string, cols []reducer.Column) string {
		var allCols []reducer.Column
		if idColVal != nil {
			allCols = append(allCols, *idColVal)
		}
		allCols = append(allCols, cols...)
		rows := make([]*value.Object, len(result.Rows))
		for i, row := range result.Rows {
			newRow := value.NewObject()
			for _, c := range allCols {
				if v, ok := row.Get(c.Header); ok {
					newRow.Set(c.Header, v)
				}
			}
			rows[i] = newRow
		}
		header := fmt.Sprintf("--- %s (%d rows) ---", partName, len(rows))
		return header + "\n" + toon.Encode(rows)
	}

	var blocks []string
	for _, prefix := range finalOrder {
		blocks = append(blocks, buildBlock(name+"."+prefix, groups[prefix]))
	}
	if len(misc) > 0 {
		blocks = append(blocks, buildBlock(name+"._misc", misc))
	}
	return blocks
}

// pivotKVArrays lifts any array field that is a KVArray in every row
// into parent columns "<field>.<Key>", for the union of Key strings
// seen across all rows, removing the original array field (spec §4.6
// KV pivot).
func pivotKVArrays(arr []value.Value) []value.Value {
	flats := make([]*value.Object, len(arr))
	seen := map[string]bool{}
	var fieldOrder []string
	for i, item := range arr {
		fl := flatten.Flatten(item.Obj)
		flats[i] = fl
		for _, p := range fl.Pairs() {
			if p.Val.Kind == value.KindArray && !seen[p.Key] {
				seen[p.Key] = true
				fieldOrder = append(fieldOrder, p.Key)
			}
		}
	}

	pivotFields := map[string]bool{}
	for _, f := range fieldOrder {
		allKV := true
		for _, fl := range flats {
			v, ok := fl.Get(f)
			if !ok || v.Kind != value.KindArray || !flatten.IsKVArray(v.Arr) {
				allKV = false
				break
			}
		}
		if allKV {
			pivotFields[f] = true
		}
	}
	if len(pivotFields) == 0 {
		return arr
	}

	keySeen := map[string]map[string]bool{}
	keyOrder := map[string][]string{}
	for _, f := range fieldOrder {
		if !pivotFields[f] {
			continue
		}
		keySeen[f] = map[string]bool{}
	}
	for _, fl := range flats {
		for _, f := range fieldOrder {
			if !pivotFields[f] {
				continue
			}
			v, _ := fl.Get(f)
			for _, kv := range v.Arr {
				k, _ := kv.Obj.Get("Key")
				if !keySeen[f][k.Str] {
					keySeen[f][k.Str] = true
					keyOrder[f] = append(keyOrder[f], k.Str)
				}
			}
		}
	}

	out := make([]value.Value, len(arr))
	for i, fl := range flats {
		row := value.NewObject()
		for _, p := range fl.Pairs() {
			if pivotFields[p.Key] {
				continue
			}
			row.Set(p.Key, p.Val)
		}
		for _, f := range fieldOrder {
			if !pivotFields[f] {
				continue
			}
			v, ok := fl.Get(f)
			kvMap := map[string]value.Value{}
			if ok {
				for _, kv := range v.Arr {
					k, _ := kv.Obj.Get("Key")
					val, _ := kv.Obj.Get("Value")
					kvMap[k.Str] = val
				}
			}
			for _, k := range keyOrder[f] {
				col := f + "." + k
				if val, ok := kvMap[k]; ok {
					row.Set(col, val)
				} else {
					row.Set(col, value.String(""))
				}
			}
		}
		out[i] = value.Obj(row)
	}
	return out
}

type subTable struct {
	field string
	items []value.Value
}

// extractSubTables finds array-valued fields (after KV pivot) that
// form their own homogeneous collection across rows, tagging each
// sub-item with "_parent.<idCol>" for back-reference (spec §4.6).
func extractSubTables(arr []value.Value, idCol string) []subTable {
	flats := make([]*value.Object, len(arr))
	seen := map[string]bool{}
	var fieldOrder []string
	for i, item := range arr {
		fl := flatten.Flatten(item.Obj)
		flats[i] = fl
		for _, p := range fl.Pairs() {
			if p.Val.Kind == value.KindArray && !seen[p.Key] {
				seen[p.Key] = true
				fieldOrder = append(fieldOrder, p.Key)
			}
		}
	}
	sort.Strings(fieldOrder)

	var tables []subTable
	for _, af := range fieldOrder {
		var subItems []value.Value
		for _, fl := range flats {
			parentID := ""
			if idCol != "" {
				if idv, ok := fl.Get(idCol); ok {
					parentID = value.Fmt(idv)
				}
			}
			av, ok := fl.Get(af)
			if !ok || av.Kind != value.KindArray {
				continue
			}
			for _, sub := range av.Arr {
				if sub.Kind != value.KindObject {
					continue
				}
				tagged := value.NewObject()
				tagged.Set("_parent."+idCol, value.String(parentID))
				for _, p := range flatten.Flatten(sub.Obj).Pairs() {
					tagged.Set(p.Key, p.Val)
				}
				subItems = append(subItems, value.Obj(tagged))
			}
		}
		if len(subItems) < 2 || !subItemsShareAtLeastTwoKeys(subItems) {
			continue
		}
		tables = append(tables, subTable{field: af, items: subItems})
	}
	return tables
}

// subItemsShareAtLeastTwoKeys mirrors render_table's manual
// common-key check: every sub-item must share at least two
// non-array keys for the collection to count as a sub-table.
func subItemsShareAtLeastTwoKeys(items []value.Value) bool {
	var sets []map[string]bool
	union := map[string]bool{}
	for _, it := range items {
		keys := map[string]bool{}
		for _, p := range it.Obj.Pairs() {
			if p.Val.Kind != value.KindArray {
				keys[p.Key] = true
				union[p.Key] = true
			}
		}
		sets = append(sets, keys)
	}
	common := map[string]bool{}
	for k := range union {
		common[k] = true
	}
	for _, keys := range sets {
		for k := range common {
			if !keys[k] {
				delete(common, k)
			}
		}
	}
	return len(common) >= 2
}

// isScalarLine reports whether block is a single "key: value" line
// with no header/section, matching condenser.py's _is_scalar_line.
func isScalarLine(block string) bool {
	return !strings.Contains(block, "\n") && !strings.HasPrefix(block, "---")
}

// joinBlocks joins blocks, grouping consecutive scalar lines with
// single newlines and separating other blocks with a blank line.
func joinBlocks(blocks []string) string {
	if len(blocks) == 0 {
		return ""
	}
	var parts []string
	var scalarGroup []string
	flush := func() {
		if len(scalarGroup) > 0 {
			parts = append(parts, strings.Join(scalarGroup, "\n"))
			scalarGroup = nil
		}
	}
	for _, b := range blocks {
		if isScalarLine(b) {
			scalarGroup = append(scalarGroup, b)
		} else {
			flush()
			parts = append(parts, b)
		}
	}
	flush()
	return strings.Join(parts, "\n\n")
}
