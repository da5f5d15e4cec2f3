package structformat

import (
	"encoding/csv"
	"regexp"
	"strconv"
	"strings"

	"github.com/teriyakichild/mcp-condenser/internal/value"
)

// csvDelimiters is the dialect-sniffing candidate set from spec §4.1.3.
var csvDelimiters = []rune{',', '\t', '|', ';'}

var (
	intCellRE   = regexp.MustCompile(`^-?\d+$`)
	floatCellRE = regexp.MustCompile(`^-?\d+\.\d+([eE][-+]?\d+)?$`)
)

// csvParser requires at least one data row and at least two columns, with
// the dialect auto-detected from the first 8 KiB over the candidate
// delimiter set (spec §4.1.3). Cells are coerced from strings to
// scalars by Normalize.
func csvParser() Parser {
	return Parser{Name: "csv", TryParse: tryCSV, Normalize: normalizeCSV}
}

func tryCSV(text string) (value.Value, bool) {
	sample := text
	if len(sample) > 8192 {
		sample = sample[:8192]
	}
	delim := detectDelimiter(sample)
	if delim == 0 {
		return value.Value{}, false
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil || len(records) < 2 {
		return value.Value{}, false
	}

	header := records[0]
	if len(header) < 2 {
		return value.Value{}, false
	}

	rows := make([]value.Value, 0, len(records)-1)
	for _, row := range records[1:] {
		obj := value.NewObject()
		for i, col := range header {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			obj.Set(col, value.String(cell))
		}
		rows = append(rows, value.Obj(obj))
	}

	return value.Array(rows), true
}

// detectDelimiter picks the candidate delimiter with the highest
// occurrence count on the sample's first line. Returns 0 (rune zero
// value) when no candidate appears at all.
func detectDelimiter(sample string) rune {
	firstLine := sample
	if i := strings.IndexByte(sample, '\n'); i >= 0 {
		firstLine = sample[:i]
	}

	var best rune
	bestCount := 0
	for _, d := range csvDelimiters {
		c := strings.Count(firstLine, string(d))
		if c > bestCount {
			bestCount = c
			best = d
		}
	}
	return best
}

// normalizeCSV coerces every cell (decoded as a String by tryCSV) into
// its natural scalar kind: empty -> Null, integer syntax -> Number(int),
// float syntax -> Number(float), else left as String.
func normalizeCSV(v value.Value) value.Value {
	if v.Kind != value.KindArray {
		return v
	}
	rows := make([]value.Value, len(v.Arr))
	for i, row := range v.Arr {
		if row.Kind != value.KindObject {
			rows[i] = row
			continue
		}
		obj := value.NewObject()
		for _, p := range row.Obj.Pairs() {
			obj.Set(p.Key, coerceCell(p.Val))
		}
		rows[i] = value.Obj(obj)
	}
	return value.Array(rows)
}

func coerceCell(v value.Value) value.Value {
	if v.Kind != value.KindString {
		return v
	}
	s := v.Str
	switch {
	case s == "":
		return value.Null()
	case intCellRE.MatchString(s):
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return value.Int(n)
		}
	case floatCellRE.MatchString(s):
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return value.Float(f)
		}
	}
	return value.String(s)
}
