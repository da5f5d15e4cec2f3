package structformat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/teriyakichild/mcp-condenser/internal/value"
)

func jsonParser() Parser {
	return Parser{Name: "json", TryParse: tryJSON}
}

// tryJSON decodes text as a single JSON document, preserving object key
// order via the streaming Token API (encoding/json's map[string]any path
// loses order, which would violate the ordered-Object invariant that
// column union and annotation order depend on).
func tryJSON(text string) (value.Value, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return value.Value{}, false
	}

	// Reject trailing garbage after the first JSON document.
	if dec.More() {
		return value.Value{}, false
	}

	return v, true
}

func decodeJSONValue(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value.Value{}, err
	}
	return decodeJSONFromToken(dec, tok)
}

func decodeJSONFromToken(dec *json.Decoder, tok json.Token) (value.Value, error) {
	switch t := tok.(type) {
	case nil:
		return value.Null(), nil
	case bool:
		return value.Bool(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return value.Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return value.Value{}, err
		}
		return value.Float(f), nil
	case string:
		return value.String(t), nil
	case json.Delim:
		switch t {
		case '[':
			var items []value.Value
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return value.Value{}, err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return value.Value{}, err
			}
			return value.Array(items), nil
		case '{':
			o := value.NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return value.Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return value.Value{}, fmt.Errorf("non-string object key: %v", keyTok)
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return value.Value{}, err
				}
				o.Set(key, v)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return value.Value{}, err
			}
			return value.Obj(o), nil
		}
	}
	return value.Value{}, fmt.Errorf("unexpected JSON token: %v", tok)
}
