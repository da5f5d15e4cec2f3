package structformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teriyakichild/mcp-condenser/internal/value"
)

func TestTryYAML_MappingPreservesKeyOrder(t *testing.T) {
	t.Parallel()
	v, ok := tryYAML("z: 1\na: 2\nm: 3\n")
	require.True(t, ok)
	require.Equal(t, value.KindObject, v.Kind)
	assert.Equal(t, []string{"z", "a", "m"}, v.Obj.Keys())
}

func TestTryYAML_Sequence(t *testing.T) {
	t.Parallel()
	v, ok := tryYAML("- a\n- b\n- c\n")
	require.True(t, ok)
	require.Equal(t, value.KindArray, v.Kind)
	require.Len(t, v.Arr, 3)
	assert.Equal(t, "b", v.Arr[1].Str)
}

func TestTryYAML_RejectsBareScalar(t *testing.T) {
	t.Parallel()
	_, ok := tryYAML("just a plain string\n")
	assert.False(t, ok)
}

func TestTryYAML_RejectsInvalidDocument(t *testing.T) {
	t.Parallel()
	_, ok := tryYAML("key: [unterminated\n")
	assert.False(t, ok)
}

func TestTryYAML_NestedMapsPreserveOrder(t *testing.T) {
	t.Parallel()
	v, ok := tryYAML("outer:\n  b: 1\n  a: 2\n")
	require.True(t, ok)
	outer, found := v.Obj.Get("outer")
	require.True(t, found)
	assert.Equal(t, []string{"b", "a"}, outer.Obj.Keys())
}
