package structformat

import (
	"encoding/xml"
	"strings"

	"github.com/teriyakichild/mcp-condenser/internal/value"
)

// xmlParser decodes an XML element tree into the Value model (spec
// §4.1.4): attributes become "@name" entries, repeated child tags
// collapse into Arrays, a leaf with only text becomes the coerced
// scalar, mixed text+children stores the text under "#text", and empty
// leaves become Null.
func xmlParser() Parser {
	return Parser{Name: "xml", TryParse: tryXML}
}

func tryXML(text string) (value.Value, bool) {
	dec := xml.NewDecoder(strings.NewReader(text))

	var root *xml.StartElement
	for {
		tok, err := dec.Token()
		if err != nil {
			return value.Value{}, false
		}
		if se, ok := tok.(xml.StartElement); ok {
			start := se
			root = &start
			break
		}
	}
	if root == nil {
		return value.Value{}, false
	}

	v, err := decodeXMLElement(dec, *root)
	if err != nil {
		return value.Value{}, false
	}
	return v, true
}

// xmlNode accumulates one element's children and text while decodeXMLElement
// walks its token stream, before being collapsed into a Value.
type xmlNode struct {
	attrs    *value.Object
	children *value.Object // key -> accumulated Value (scalar or Array)
	order    []string      // first-seen child-tag order
	text     strings.Builder
	hasElems bool
}

func decodeXMLElement(dec *xml.Decoder, start xml.StartElement) (value.Value, error) {
	n := &xmlNode{children: value.NewObject()}
	if len(start.Attr) > 0 {
		n.attrs = value.NewObject()
		for _, a := range start.Attr {
			n.attrs.Set("@"+a.Name.Local, coerceXMLText(a.Value))
		}
	}

	childVals := map[string]value.Value{}
	childIsArr := map[string]bool{}

	for {
		tok, err := dec.Token()
		if err != nil {
			return value.Value{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n.hasElems = true
			child, err := decodeXMLElement(dec, t)
			if err != nil {
				return value.Value{}, err
			}
			name := t.Name.Local
			if existing, ok := childVals[name]; ok {
				if childIsArr[name] {
					existing.Arr = append(existing.Arr, child)
					childVals[name] = existing
				} else {
					childVals[name] = value.Array([]value.Value{existing, child})
					childIsArr[name] = true
				}
			} else {
				childVals[name] = child
				n.order = append(n.order, name)
			}
		case xml.CharData:
			n.text.Write(t)
		case xml.EndElement:
			return finishXMLNode(n, childVals), nil
		}
	}
}

func finishXMLNode(n *xmlNode, childVals map[string]value.Value) value.Value {
	text := strings.TrimSpace(n.text.String())

	if !n.hasElems && n.attrs == nil {
		if text == "" {
			return value.Null()
		}
		return coerceXMLText(text)
	}

	obj := value.NewObject()
	if n.attrs != nil {
		for _, p := range n.attrs.Pairs() {
			obj.Set(p.Key, p.Val)
		}
	}
	if text != "" {
		obj.Set("#text", coerceXMLText(text))
	}
	for _, name := range n.order {
		obj.Set(name, childVals[name])
	}
	return value.Obj(obj)
}

// coerceXMLText applies the same numeric/empty coercions as CSV cells,
// plus true/false -> Bool (spec §4.1.4).
func coerceXMLText(s string) value.Value {
	switch s {
	case "true":
		return value.Bool(true)
	case "false":
		return value.Bool(false)
	}
	return coerceCell(value.String(s))
}
