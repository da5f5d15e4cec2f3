package value

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ToJSON renders v as compact JSON text, used by the renderer's fallback
// path for arrays that are neither homogeneous nor arrays-of-object
// (condenser.py's `json.dumps(av)`). Object keys are emitted in their
// insertion order rather than encoding/json's alphabetical map order,
// since callers rely on the same first-seen ordering used elsewhere in
// the pipeline.
func ToJSON(v Value) string {
	var sb strings.Builder
	writeJSON(&sb, v)
	return sb.String()
}

func writeJSON(sb *strings.Builder, v Value) {
	switch v.Kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.Bool {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		if v.IsInt {
			sb.WriteString(strconv.FormatInt(int64(v.Number), 10))
		} else {
			b, _ := json.Marshal(v.Number)
			sb.Write(b)
		}
	case KindString:
		b, _ := json.Marshal(v.Str)
		sb.Write(b)
	case KindArray:
		sb.WriteByte('[')
		for i, item := range v.Arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeJSON(sb, item)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, p := range v.Obj.Pairs() {
			if i > 0 {
				sb.WriteByte(',')
			}
			keyBytes, _ := json.Marshal(p.Key)
			sb.Write(keyBytes)
			sb.WriteByte(':')
			writeJSON(sb, p.Val)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString("null")
	}
}
