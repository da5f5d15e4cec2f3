package structformat

import (
	"fmt"

	yaml "github.com/goccy/go-yaml"

	"github.com/teriyakichild/mcp-condenser/internal/value"
)

// yamlParser accepts only documents whose top-level result is a mapping
// or sequence — bare scalars are rejected as "almost always spurious
// matches" (spec §4.1.2), matching condenser.py's
// `isinstance(data, (dict, list))` guard.
func yamlParser() Parser {
	return Parser{Name: "yaml", TryParse: tryYAML}
}

func tryYAML(text string) (value.Value, bool) {
	var raw any
	// UseOrderedMap decodes every mapping into yaml.MapSlice instead of
	// map[string]any, preserving source key order the way flatten/column
	// union require.
	if err := yaml.UnmarshalWithOptions([]byte(text), &raw, yaml.UseOrderedMap()); err != nil {
		return value.Value{}, false
	}

	switch raw.(type) {
	case yaml.MapSlice, []any:
		return fromYAMLNative(raw), true
	default:
		return value.Value{}, false
	}
}

func fromYAMLNative(raw any) value.Value {
	switch t := raw.(type) {
	case nil:
		return value.Null()
	case bool:
		return value.Bool(t)
	case int:
		return value.Int(int64(t))
	case int64:
		return value.Int(t)
	case uint64:
		return value.Int(int64(t))
	case float32:
		return value.Float(float64(t))
	case float64:
		return value.Float(t)
	case string:
		return value.String(t)
	case []any:
		items := make([]value.Value, len(t))
		for i, item := range t {
			items[i] = fromYAMLNative(item)
		}
		return value.Array(items)
	case yaml.MapSlice:
		o := value.NewObject()
		for _, item := range t {
			key := fmt.Sprintf("%v", item.Key)
			o.Set(key, fromYAMLNative(item.Value))
		}
		return value.Obj(o)
	default:
		// Timestamps and other exotic scalar kinds: stringify.
		return value.String(fmt.Sprintf("%v", t))
	}
}
