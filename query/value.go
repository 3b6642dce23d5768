package query

import (
	"fmt"
	"strconv"

	"github.com/segmentio/encoding/json"
)

// ValueKind tags the dynamic type held by a Value
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindNumber
	KindString
)

// String returns the lowercase name of the kind
func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Value is a single cell of a row: a number, a string, or null.
//
// Value is comparable, so it can be used directly as a map key when
// grouping rows or counting distinct values.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
}

// Number returns a numeric Value
func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

// String returns a string Value
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Null returns the null Value
func Null() Value {
	return Value{}
}

// IsNull reports whether v holds no value
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Interface returns v as a plain Go value (float64, string or nil)
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindString:
		return v.Str
	default:
		return nil
	}
}

// GoString renders v as a literal, quoting strings
func (v Value) GoString() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindString:
		return strconv.Quote(v.Str)
	default:
		return "null"
	}
}

// Format renders v without quoting, as it would appear in a table cell
func (v Value) Format() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindString:
		return v.Str
	default:
		return ""
	}
}

// MarshalJSON encodes v as a bare JSON number, string or null
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes a JSON number, string or null into v
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	val, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// ValueOf converts a plain Go value into a Value.
//
// All Go numeric types are widened to float64 and byte slices become
// strings. Returns an error for
// types that have no Value representation (bools, slices, maps...).
func ValueOf(v interface{}) (Value, error) {
	if v == nil {
		return Null(), nil
	}
	switch s := v.(type) {
	case string:
		return String(s), nil
	case []byte:
		return String(string(s)), nil
	}
	if n, ok := toFloat64(v); ok {
		return Number(n), nil
	}
	return Null(), fmt.Errorf("unsupported value type %T", v)
}

// toFloat64 converts a value to float64 if possible
func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// compareValues compares two values and returns:
// -1 if a < b
//
//	0 if a == b
//
// +1 if a > b
//
// Null sorts before everything else; numbers sort before strings when
// the kinds differ.
func compareValues(a, b Value) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}

	switch a.Kind {
	case KindNumber:
		if a.Num < b.Num {
			return -1
		}
		if a.Num > b.Num {
			return 1
		}
		return 0
	case KindString:
		if a.Str < b.Str {
			return -1
		}
		if a.Str > b.Str {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Row is one dataset record keyed by namespaced column key (e.g. "courses_avg")
type Row map[string]Value

// Clone returns a shallow copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// lookup returns the value of column or ErrMissingColumn
func (r Row) lookup(column string) (Value, error) {
	v, ok := r[column]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrMissingColumn, column)
	}
	return v, nil
}
