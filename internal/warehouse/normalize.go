package warehouse

import (
	"fmt"
	"strconv"
	"time"
)

// Unwrap recursively replaces any map whose only key is "value" with that
// key's value, leaving all other structure untouched. Some client layers
// hand back timestamp-typed cells as {"value": "2024-01-01T00:00:00Z"}
// wrappers; unwrapping once at this boundary spares every consumer from
// doing it. Unwrap is idempotent.
func Unwrap(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if len(t) == 1 {
			if inner, ok := t["value"]; ok {
				return Unwrap(inner)
			}
		}
		out := make(map[string]any, len(t))
		for k, elem := range t {
			out[k] = Unwrap(elem)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = Unwrap(elem)
		}
		return out
	default:
		return v
	}
}

// Convert folds an unwrapped client value into the tagged union. Unknown
// types degrade to their string rendering rather than failing the row.
func Convert(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case []byte:
		return String(string(t))
	case bool:
		return String(strconv.FormatBool(t))
	case int:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case float32:
		return Number(float64(t))
	case float64:
		return Number(t)
	case time.Time:
		return Timestamp(t)
	default:
		return String(stringify(t))
	}
}

// NormalizeRow applies Unwrap then Convert to every cell of a raw row.
// This is the single conversion point between the store client and the
// rest of the application.
func NormalizeRow(raw map[string]any) Row {
	row := make(Row, len(raw))
	for col, cell := range raw {
		row[col] = Convert(Unwrap(cell))
	}
	return row
}

func stringify(v any) string {
	type stringer interface{ String() string }
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
