package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teriyakichild/mcp-condenser/internal/value"
)

func obj(pairs ...value.Pair) *value.Object {
	o := value.NewObject()
	for _, p := range pairs {
		o.Set(p.Key, p.Val)
	}
	return o
}

// ── Flatten ──────────────────────────────────────────────────────────────────

func TestFlatten_NestedObjectDotsKeys(t *testing.T) {
	t.Parallel()
	inner := obj(value.Pair{Key: "x", Val: value.Int(1)}, value.Pair{Key: "y", Val: value.Int(2)})
	outer := obj(
		value.Pair{Key: "name", Val: value.String("n")},
		value.Pair{Key: "vec", Val: value.Obj(inner)},
	)

	fl := Flatten(outer)

	assert.Equal(t, []string{"name", "vec.x", "vec.y"}, fl.Keys())
	v, _ := fl.Get("vec.x")
	assert.Equal(t, int64(1), int64(v.Number))
}

func TestFlatten_ArraysKeptWhole(t *testing.T) {
	t.Parallel()
	o := obj(value.Pair{Key: "tags", Val: value.Array([]value.Value{value.String("a")})})
	fl := Flatten(o)
	v, ok := fl.Get("tags")
	require.True(t, ok)
	assert.Equal(t, value.KindArray, v.Kind)
}

func TestFlatten_PreservesKeyOrderAcrossNesting(t *testing.T) {
	t.Parallel()
	inner := obj(value.Pair{Key: "b", Val: value.Int(1)}, value.Pair{Key: "a", Val: value.Int(2)})
	outer := obj(
		value.Pair{Key: "z", Val: value.Int(0)},
		value.Pair{Key: "nested", Val: value.Obj(inner)},
		value.Pair{Key: "m", Val: value.Int(3)},
	)
	fl := Flatten(outer)
	assert.Equal(t, []string{"z", "nested.b", "nested.a", "m"}, fl.Keys())
}

// ── IsHomogeneousArray ───────────────────────────────────────────────────────

func row(name string, extra ...value.Pair) value.Value {
	pairs := append([]value.Pair{{Key: "name", Val: value.String(name)}}, extra...)
	return value.Obj(obj(pairs...))
}

func TestIsHomogeneousArray_TrueForUniformRows(t *testing.T) {
	t.Parallel()
	arr := []value.Value{
		row("a", value.Pair{Key: "count", Val: value.Int(1)}),
		row("b", value.Pair{Key: "count", Val: value.Int(2)}),
		row("c", value.Pair{Key: "count", Val: value.Int(3)}),
	}
	assert.True(t, IsHomogeneousArray(arr))
}

func TestIsHomogeneousArray_FalseForSingleItem(t *testing.T) {
	t.Parallel()
	arr := []value.Value{row("a", value.Pair{Key: "count", Val: value.Int(1)})}
	assert.False(t, IsHomogeneousArray(arr))
}

func TestIsHomogeneousArray_FalseWhenLessThanTwoCommonKeys(t *testing.T) {
	t.Parallel()
	arr := []value.Value{
		value.Obj(obj(value.Pair{Key: "only", Val: value.Int(1)})),
		value.Obj(obj(value.Pair{Key: "only", Val: value.Int(2)})),
	}
	assert.False(t, IsHomogeneousArray(arr))
}

func TestIsHomogeneousArray_FalseForNonObjectElements(t *testing.T) {
	t.Parallel()
	arr := []value.Value{row("a"), value.Int(1)}
	assert.False(t, IsHomogeneousArray(arr))
}

func TestIsHomogeneousArray_ToleratesPartialKeyOverlapAbove60Percent(t *testing.T) {
	t.Parallel()
	// 3 shared keys out of 3 union keys for 2 of 3 rows, 1 row missing
	// one key: common/union = 2/3 ≈ 0.67 >= 0.6.
	arr := []value.Value{
		row("a", value.Pair{Key: "b", Val: value.Int(1)}, value.Pair{Key: "c", Val: value.Int(1)}),
		row("b", value.Pair{Key: "b", Val: value.Int(2)}, value.Pair{Key: "c", Val: value.Int(2)}),
		row("c", value.Pair{Key: "b", Val: value.Int(3)}),
	}
	assert.True(t, IsHomogeneousArray(arr))
}

func TestIsHomogeneousArray_FalseBelow60PercentOverlap(t *testing.T) {
	t.Parallel()
	arr := []value.Value{
		row("a", value.Pair{Key: "b", Val: value.Int(1)}, value.Pair{Key: "c", Val: value.Int(1)}, value.Pair{Key: "d", Val: value.Int(1)}),
		row("b", value.Pair{Key: "e", Val: value.Int(2)}, value.Pair{Key: "f", Val: value.Int(2)}, value.Pair{Key: "g", Val: value.Int(2)}),
	}
	assert.False(t, IsHomogeneousArray(arr))
}

// ── IsKVArray ────────────────────────────────────────────────────────────────

func TestIsKVArray_TrueForKeyValuePairs(t *testing.T) {
	t.Parallel()
	arr := []value.Value{
		value.Obj(obj(value.Pair{Key: "Key", Val: value.String("Name")}, value.Pair{Key: "Value", Val: value.String("web")})),
		value.Obj(obj(value.Pair{Key: "Key", Val: value.String("Env")}, value.Pair{Key: "Value", Val: value.String("prod")})),
	}
	assert.True(t, IsKVArray(arr))
}

func TestIsKVArray_FalseWithExtraKeys(t *testing.T) {
	t.Parallel()
	arr := []value.Value{
		value.Obj(obj(
			value.Pair{Key: "Key", Val: value.String("Name")},
			value.Pair{Key: "Value", Val: value.String("web")},
			value.Pair{Key: "Extra", Val: value.Int(1)},
		)),
	}
	assert.False(t, IsKVArray(arr))
}

func TestIsKVArray_FalseWhenKeyIsNotString(t *testing.T) {
	t.Parallel()
	arr := []value.Value{
		value.Obj(obj(value.Pair{Key: "Key", Val: value.Int(1)}, value.Pair{Key: "Value", Val: value.String("web")})),
	}
	assert.False(t, IsKVArray(arr))
}

func TestIsKVArray_FalseForEmptyArray(t *testing.T) {
	t.Parallel()
	assert.False(t, IsKVArray(nil))
}

// ── UnionColumns ─────────────────────────────────────────────────────────────

func TestUnionColumns_FirstSeenOrderAcrossRows(t *testing.T) {
	t.Parallel()
	arr := []value.Value{
		row("a", value.Pair{Key: "zeta", Val: value.Int(1)}),
		row("b", value.Pair{Key: "alpha", Val: value.Int(2)}),
	}
	assert.Equal(t, []string{"name", "zeta", "alpha"}, UnionColumns(arr))
}

func TestUnionColumns_ExcludesArrayColumns(t *testing.T) {
	t.Parallel()
	arr := []value.Value{
		row("a", value.Pair{Key: "tags", Val: value.Array([]value.Value{value.String("x")})}),
	}
	assert.Equal(t, []string{"name"}, UnionColumns(arr))
}
