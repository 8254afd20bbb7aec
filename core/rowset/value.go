package rowset

import (
	"math"
	"strconv"
)

// Kind tags the scalar type of a column. The kind is decided when a table
// is constructed (TSV inference, SQL column mapping) and never re-inferred
// from rendered text.
type Kind int

const (
	// KindString holds free text.
	KindString Kind = iota
	// KindInt holds a 64-bit integer.
	KindInt
	// KindFloat holds a 64-bit float.
	KindFloat
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// Value is a typed scalar cell. The zero Value is missing (null).
type Value struct {
	kind  Kind
	str   string
	i     int64
	f     float64
	valid bool
}

// String builds a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s, valid: true}
}

// Int builds an integer value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i, valid: true}
}

// Float builds a float value. NaN is treated as missing.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Null()
	}
	return Value{kind: KindFloat, f: f, valid: true}
}

// Null builds a missing value.
func Null() Value {
	return Value{}
}

// IsNull reports whether the value is missing.
func (v Value) IsNull() bool {
	return !v.valid
}

// Kind returns the scalar kind. Missing values report KindString.
func (v Value) Kind() Kind {
	if !v.valid {
		return KindString
	}
	return v.kind
}

// Render returns the canonical string form used for key building,
// comparison, and serialization. Missing renders as the empty string.
// Integer-valued floats render without a decimal point; fractional values
// render with the minimal digits that round-trip.
func (v Value) Render() string {
	if !v.valid {
		return ""
	}
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		if v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) && math.Abs(v.f) < 1e15 {
			return strconv.FormatInt(int64(v.f), 10)
		}
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return v.str
	}
}

// Equal reports whether two values compare equal under the diffing rules:
// rendered strings are compared, so null == "" and 5 == 5.0.
func (v Value) Equal(o Value) bool {
	return v.Render() == o.Render()
}
