// Package toon implements the tabular encoder external collaborator
// (spec §6): a deterministic text rendering of cleaned rows where every
// non-null scalar appears verbatim and row/column structure is legible.
// Grounded on the header-row-plus-comma-joined-cells shape used by
// ArjenSchwarz/go-output's CSV renderer tests (see DESIGN.md); this
// encoder is implemented directly rather than imported, since no
// example repo ships an importable library for it.
package toon

import (
	"strings"

	"github.com/teriyakichild/mcp-condenser/internal/value"
)

// Encode renders rows as a header line of column names (taken from the
// first row, since every reducer output row shares the same final
// columns) followed by one comma-joined line per record. A missing
// cell in a given row renders blank.
func Encode(rows []*value.Object) string {
	if len(rows) == 0 {
		return ""
	}
	cols := rows[0].Keys()

	var sb strings.Builder
	sb.WriteString(strings.Join(cols, ","))
	for _, row := range rows {
		sb.WriteByte('\n')
		cells := make([]string, len(cols))
		for i, c := range cols {
			if v, ok := row.Get(c); ok {
				cells[i] = cellText(v)
			}
		}
		sb.WriteString(strings.Join(cells, ","))
	}
	return sb.String()
}

// EncodeScalars renders a single row of scalar key/value pairs as one
// "key: value" line per entry, in the row's key order.
func EncodeScalars(row *value.Object) string {
	lines := make([]string, 0, row.Len())
	for _, p := range row.Pairs() {
		lines = append(lines, p.Key+": "+value.Fmt(p.Val))
	}
	return strings.Join(lines, "\n")
}

// cellText formats v and quotes it (CSV-style, doubled internal quotes)
// when it contains a comma, newline, or quote, so the delimiter and row
// structure stay unambiguous while the original text remains a verbatim
// substring of the quoted field.
func cellText(v value.Value) string {
	text := value.Fmt(v)
	if !strings.ContainsAny(text, ",\n\"") {
		return text
	}
	return `"` + strings.ReplaceAll(text, `"`, `""`) + `"`
}
