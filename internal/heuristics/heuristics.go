// Package heuristics defines the reducer's configuration: the
// Heuristics option set (spec §3's table), validated construction from
// an untyped option map, and named TOML profile documents with
// Extends-based inheritance.
package heuristics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teriyakichild/mcp-condenser/internal/cerrors"
)

// Heuristics is the reducer's fully-resolved, immutable configuration.
type Heuristics struct {
	ElideAllZero       bool
	ElideAllNull       bool
	ElideTimestamps    bool
	ElideConstants     bool
	GroupTuples        bool
	MaxTupleSize       int
	MaxTableColumns    int
	ElideMostlyZeroPct float64
	PivotKeyValue      bool
	WideTableThreshold int
	WideTableFormat    string // "vertical" or "split"
}

// Defaults returns the spec's default Heuristics.
func Defaults() Heuristics {
	return Heuristics{
		ElideAllZero:       true,
		ElideAllNull:       true,
		ElideTimestamps:    true,
		ElideConstants:     true,
		GroupTuples:        true,
		MaxTupleSize:       4,
		MaxTableColumns:    0,
		ElideMostlyZeroPct: 0.0,
		PivotKeyValue:      true,
		WideTableThreshold: 0,
		WideTableFormat:    "vertical",
	}
}

// validOptionNames lists every recognized key for New's option map, in
// the order they should be reported in a BadConfig error.
var validOptionNames = []string{
	"elide_all_zero",
	"elide_all_null",
	"elide_timestamps",
	"elide_constants",
	"group_tuples",
	"max_tuple_size",
	"max_table_columns",
	"elide_mostly_zero_pct",
	"pivot_key_value",
	"wide_table_threshold",
	"wide_table_format",
}

// New builds a Heuristics from an untyped option map layered over
// Defaults(). An unrecognized key returns a BadConfig error naming the
// valid option set (spec §4.8).
func New(opts map[string]any) (Heuristics, error) {
	return Override(Defaults(), opts)
}

// Override applies an untyped option map on top of an existing
// Heuristics (e.g. a profile's resolved value), used to express the
// profile -> per-server -> per-tool override precedence (spec §3).
func Override(base Heuristics, opts map[string]any) (Heuristics, error) {
	h := base

	var unknown []string
	for k := range opts {
		if !isValidOption(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Heuristics{}, cerrors.New(cerrors.BadConfig, fmt.Sprintf(
			"unknown heuristic option(s) %s; valid options are: %s",
			strings.Join(unknown, ", "), strings.Join(validOptionNames, ", ")))
	}

	for k, v := range opts {
		if err := applyOption(&h, k, v); err != nil {
			return Heuristics{}, err
		}
	}
	return h, nil
}

func isValidOption(name string) bool {
	for _, v := range validOptionNames {
		if v == name {
			return true
		}
	}
	return false
}

func applyOption(h *Heuristics, name string, v any) error {
	badType := func(want string) error {
		return cerrors.New(cerrors.BadConfig, fmt.Sprintf("option %q must be a %s", name, want))
	}

	switch name {
	case "elide_all_zero":
		b, ok := v.(bool)
		if !ok {
			return badType("bool")
		}
		h.ElideAllZero = b
	case "elide_all_null":
		b, ok := v.(bool)
		if !ok {
			return badType("bool")
		}
		h.ElideAllNull = b
	case "elide_timestamps":
		b, ok := v.(bool)
		if !ok {
			return badType("bool")
		}
		h.ElideTimestamps = b
	case "elide_constants":
		b, ok := v.(bool)
		if !ok {
			return badType("bool")
		}
		h.ElideConstants = b
	case "group_tuples":
		b, ok := v.(bool)
		if !ok {
			return badType("bool")
		}
		h.GroupTuples = b
	case "max_tuple_size":
		n, ok := asInt(v)
		if !ok {
			return badType("int")
		}
		h.MaxTupleSize = n
	case "max_table_columns":
		n, ok := asInt(v)
		if !ok {
			return badType("int")
		}
		h.MaxTableColumns = n
	case "elide_mostly_zero_pct":
		f, ok := asFloat(v)
		if !ok {
			return badType("float")
		}
		h.ElideMostlyZeroPct = f
	case "pivot_key_value":
		b, ok := v.(bool)
		if !ok {
			return badType("bool")
		}
		h.PivotKeyValue = b
	case "wide_table_threshold":
		n, ok := asInt(v)
		if !ok {
			return badType("int")
		}
		h.WideTableThreshold = n
	case "wide_table_format":
		s, ok := v.(string)
		if !ok || (s != "vertical" && s != "split") {
			return cerrors.New(cerrors.BadConfig, fmt.Sprintf(`option "wide_table_format" must be "vertical" or "split"`))
		}
		h.WideTableFormat = s
	}
	return nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
