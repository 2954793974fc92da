package warehouse

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind tags the variants a warehouse cell can take after normalization.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindTimestamp
)

// Value is the tagged union for a normalized warehouse cell. Columns vary
// per table, so rows carry Values keyed by column name and callers declare
// which columns they expect before destructuring.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Time time.Time
}

// Row maps column names to normalized cell values.
type Row map[string]Value

// Null returns the null cell value.
func Null() Value { return Value{Kind: KindNull} }

// String wraps s as a string cell.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number wraps f as a numeric cell.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Timestamp wraps t as a timestamp cell.
func Timestamp(t time.Time) Value { return Value{Kind: KindTimestamp, Time: t} }

// IsNull reports whether the cell holds no value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsString returns the cell rendered as a string. Timestamps render as
// RFC 3339 in UTC; null returns "".
func (v Value) AsString() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return fmt.Sprintf("%v", v.Num)
	case KindTimestamp:
		return v.Time.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

// MarshalJSON renders the cell as a plain primitive so downstream consumers
// never see wrapper objects.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindTimestamp:
		return json.Marshal(v.Time.UTC().Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}
