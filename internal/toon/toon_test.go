package toon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teriyakichild/mcp-condenser/internal/value"
)

func obj(pairs ...value.Pair) *value.Object {
	o := value.NewObject()
	for _, p := range pairs {
		o.Set(p.Key, p.Val)
	}
	return o
}

func TestEncode_HeaderAndRows(t *testing.T) {
	t.Parallel()
	rows := []*value.Object{
		obj(value.Pair{Key: "name", Val: value.String("alice")}, value.Pair{Key: "age", Val: value.Int(30)}),
		obj(value.Pair{Key: "name", Val: value.String("bob")}, value.Pair{Key: "age", Val: value.Int(25)}),
	}
	got := Encode(rows)
	assert.Equal(t, "name,age\nalice,30\nbob,25", got)
}

func TestEncode_EmptyRows(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", Encode(nil))
}

func TestEncode_MissingCellRendersBlank(t *testing.T) {
	t.Parallel()
	rows := []*value.Object{
		obj(value.Pair{Key: "a", Val: value.Int(1)}, value.Pair{Key: "b", Val: value.Int(2)}),
		obj(value.Pair{Key: "a", Val: value.Int(3)}),
	}
	got := Encode(rows)
	assert.Equal(t, "a,b\n1,2\n3,", got)
}

func TestEncode_QuotesCellsContainingComma(t *testing.T) {
	t.Parallel()
	rows := []*value.Object{
		obj(value.Pair{Key: "note", Val: value.String("a,b")}),
	}
	got := Encode(rows)
	assert.Contains(t, got, `"a,b"`)
}

func TestEncode_EveryScalarAppearsVerbatim(t *testing.T) {
	t.Parallel()
	rows := []*value.Object{
		obj(value.Pair{Key: "host", Val: value.String("web-01.internal")}, value.Pair{Key: "cpu", Val: value.Float(0.42)}),
		obj(value.Pair{Key: "host", Val: value.String("web-02.internal")}, value.Pair{Key: "cpu", Val: value.Float(0.91)}),
	}
	got := Encode(rows)
	assert.Contains(t, got, "web-01.internal")
	assert.Contains(t, got, "web-02.internal")
	assert.Contains(t, got, "0.42")
	assert.Contains(t, got, "0.91")
}

func TestEncodeScalars(t *testing.T) {
	t.Parallel()
	row := obj(value.Pair{Key: "z", Val: value.Int(1)}, value.Pair{Key: "a", Val: value.String("x")})
	got := EncodeScalars(row)
	assert.Equal(t, "z: 1\na: x", got)
}
