package reducer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teriyakichild/mcp-condenser/internal/heuristics"
	"github.com/teriyakichild/mcp-condenser/internal/value"
)

func row(pairs ...value.Pair) value.Value {
	o := value.NewObject()
	for _, p := range pairs {
		o.Set(p.Key, p.Val)
	}
	return value.Obj(o)
}

func columnHeaders(result Result) []string {
	headers := make([]string, len(result.Columns))
	for i, c := range result.Columns {
		headers[i] = c.Header
	}
	return headers
}

// S1 (elision trio): see spec §8.
func TestPreprocess_ElisionTrioAndTupleGrouping(t *testing.T) {
	t.Parallel()
	arr := []value.Value{
		row(
			value.Pair{Key: "name", Val: value.String("a")},
			value.Pair{Key: "zero_col", Val: value.Int(0)},
			value.Pair{Key: "null_col", Val: value.Null()},
			value.Pair{Key: "const_col", Val: value.String("same")},
			value.Pair{Key: "ts", Val: value.String("2024-01-01T00:00:00Z")},
			value.Pair{Key: "vec.x", Val: value.Int(1)},
			value.Pair{Key: "vec.y", Val: value.Int(2)},
			value.Pair{Key: "vec.z", Val: value.Int(3)},
		),
		row(
			value.Pair{Key: "name", Val: value.String("b")},
			value.Pair{Key: "zero_col", Val: value.Int(0)},
			value.Pair{Key: "null_col", Val: value.Null()},
			value.Pair{Key: "const_col", Val: value.String("same")},
			value.Pair{Key: "ts", Val: value.String("2024-01-01T00:00:05Z")},
			value.Pair{Key: "vec.x", Val: value.Int(4)},
			value.Pair{Key: "vec.y", Val: value.Int(5)},
			value.Pair{Key: "vec.z", Val: value.Int(6)},
		),
		row(
			value.Pair{Key: "name", Val: value.String("c")},
			value.Pair{Key: "zero_col", Val: value.Int(0)},
			value.Pair{Key: "null_col", Val: value.Null()},
			value.Pair{Key: "const_col", Val: value.String("same")},
			value.Pair{Key: "ts", Val: value.String("2024-01-01T00:00:09Z")},
			value.Pair{Key: "vec.x", Val: value.Int(7)},
			value.Pair{Key: "vec.y", Val: value.Int(8)},
			value.Pair{Key: "vec.z", Val: value.Int(9)},
		),
	}

	result := Preprocess(arr, heuristics.Defaults())

	joined := ""
	for _, a := range result.Annotations {
		joined += a + "\n"
	}
	assert.Contains(t, joined, "all_zero: zero_col")
	assert.Contains(t, joined, "all_null: null_col")
	assert.Contains(t, joined, "constant const_col: same")
	assert.Contains(t, joined, "timestamp_cluster ts")

	headers := columnHeaders(result)
	assert.Contains(t, headers, "vec(x,y,z)")
	assert.NotContains(t, headers, "zero_col")
	assert.NotContains(t, headers, "null_col")
	assert.NotContains(t, headers, "const_col")
	assert.NotContains(t, headers, "ts")

	v0, ok := result.Rows[0].Get("vec(x,y,z)")
	require.True(t, ok)
	assert.Equal(t, "1,2,3", v0.Str)
	v2, _ := result.Rows[2].Get("vec(x,y,z)")
	assert.Equal(t, "7,8,9", v2.Str)
}

// S3 (mostly-zero outliers): see spec §8.
func TestPreprocess_MostlyZeroOutliers(t *testing.T) {
	t.Parallel()
	names := []string{"a", "b", "c", "d", "e"}
	vals := []int64{0, 0, 0, 42, 0}
	var arr []value.Value
	for i, n := range names {
		arr = append(arr, row(
			value.Pair{Key: "name", Val: value.String(n)},
			value.Pair{Key: "mostly_zero_col", Val: value.Int(vals[i])},
		))
	}

	h, err := heuristics.New(map[string]any{"elide_mostly_zero_pct": 0.8})
	require.NoError(t, err)

	result := Preprocess(arr, h)

	found := false
	for _, a := range result.Annotations {
		if a == "  elided mostly_zero: mostly_zero_col (non-zero: d=42)" {
			found = true
		}
	}
	assert.True(t, found, "annotations: %v", result.Annotations)
}

func TestPreprocess_MaxTableColumnsTruncatesFromRight(t *testing.T) {
	t.Parallel()
	arr := []value.Value{
		row(
			value.Pair{Key: "id", Val: value.Int(1)},
			value.Pair{Key: "a", Val: value.String("x")},
			value.Pair{Key: "b", Val: value.String("y")},
			value.Pair{Key: "c", Val: value.String("z")},
		),
		row(
			value.Pair{Key: "id", Val: value.Int(2)},
			value.Pair{Key: "a", Val: value.String("x2")},
			value.Pair{Key: "b", Val: value.String("y2")},
			value.Pair{Key: "c", Val: value.String("z2")},
		),
	}
	h, err := heuristics.New(map[string]any{"max_table_columns": 2})
	require.NoError(t, err)

	result := Preprocess(arr, h)
	assert.Len(t, result.Columns, 2)
	assert.Equal(t, "id", result.Columns[0].Header, "identity column survives truncation by front-loading")

	joined := ""
	for _, a := range result.Annotations {
		joined += a
	}
	assert.Contains(t, joined, "elided overflow")
}

func TestPreprocess_DisabledHeuristicsKeepColumns(t *testing.T) {
	t.Parallel()
	arr := []value.Value{
		row(value.Pair{Key: "name", Val: value.String("a")}, value.Pair{Key: "z", Val: value.Int(0)}),
		row(value.Pair{Key: "name", Val: value.String("b")}, value.Pair{Key: "z", Val: value.Int(0)}),
	}
	h, err := heuristics.New(map[string]any{"elide_all_zero": false})
	require.NoError(t, err)

	result := Preprocess(arr, h)
	assert.Contains(t, columnHeaders(result), "z")
}
