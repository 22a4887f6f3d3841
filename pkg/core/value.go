package core

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Type is the declared type of a field.
type Type string

const (
	TypeString Type = "string"
	TypeNumber Type = "number"
	TypeIDs    Type = "ids"
)

// Valid reports whether t is one of the recognized field types.
func (t Type) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeIDs:
		return true
	}
	return false
}

// ValueKind tags the content of a Value.
type ValueKind uint8

const (
	KindAbsent ValueKind = iota
	KindString
	KindNumber
	KindIDs
	KindNotApplicable
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindIDs:
		return "ids"
	case KindNotApplicable:
		return "not applicable"
	}
	return "absent"
}

// Value is a field value or the result of a derivation.
//
// The zero Value is absent: an optional field that was never supplied.
// NotApplicable is the sentinel a derivation returns instead of a
// non-positive or undefined number; it is never equal to Number(0).
type Value struct {
	kind ValueKind
	str  string
	num  float64
	ids  []string
}

// String builds a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number builds a number value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// IDs builds a list of opaque identifiers.
func IDs(ids ...string) Value {
	return Value{kind: KindIDs, ids: slices.Clone(ids)}
}

// NotApplicable returns the "not applicable" sentinel.
func NotApplicable() Value { return Value{kind: KindNotApplicable} }

// Kind returns the tag of v.
func (v Value) Kind() ValueKind { return v.kind }

// IsApplicable is false only for the NotApplicable sentinel.
func (v Value) IsApplicable() bool { return v.kind != KindNotApplicable }

// IsAbsent reports whether v holds nothing.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Str returns the string content of v.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Num returns the numeric content of v.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// List returns a copy of the identifiers held by v.
func (v Value) List() ([]string, bool) {
	return slices.Clone(v.ids), v.kind == KindIDs
}

// Equal compares kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindIDs:
		return slices.Equal(v.ids, o.ids)
	}
	return true
}

// Any converts v to a plain Go value suitable for encoders.
// The sentinel becomes false and an absent value becomes nil.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindIDs:
		return slices.Clone(v.ids)
	case KindNotApplicable:
		return false
	}
	return nil
}

// String renders v for display. Numbers never use exponent notation.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindIDs:
		return "[" + strings.Join(v.ids, " ") + "]"
	case KindNotApplicable:
		return "false"
	}
	return ""
}

// MarshalJSON encodes v the way Any does.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

func (v Value) matches(t Type) bool {
	switch t {
	case TypeString:
		return v.kind == KindString
	case TypeNumber:
		return v.kind == KindNumber
	case TypeIDs:
		return v.kind == KindIDs
	}
	return false
}

func formatNumber(n float64) string {
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Coerce converts a raw Go value into a Value of type t.
// Numbers accept any Go numeric type and json.Number; strings are never parsed.
func Coerce(t Type, raw any) (Value, error) {
	if v, ok := raw.(Value); ok {
		if v.matches(t) {
			return v, nil
		}
		return Value{}, fmt.Errorf("%w: want %s, got %s", ErrTypeMismatch, t, v.kind)
	}

	switch t {
	case TypeString:
		if s, ok := raw.(string); ok {
			return String(s), nil
		}
	case TypeNumber:
		if n, ok := toFloat(raw); ok {
			return Number(n), nil
		}
	case TypeIDs:
		switch list := raw.(type) {
		case []string:
			return IDs(list...), nil
		case []any:
			ids := make([]string, 0, len(list))
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return Value{}, fmt.Errorf("%w: want %s, got element %T", ErrTypeMismatch, t, item)
				}
				ids = append(ids, s)
			}
			return IDs(ids...), nil
		}
	default:
		return Value{}, fmt.Errorf("%w: unrecognized type %q", ErrTypeMismatch, t)
	}
	return Value{}, fmt.Errorf("%w: want %s, got %T", ErrTypeMismatch, t, raw)
}

// Parse converts command-line text into a Value of type t.
// Identifier lists are comma separated.
func Parse(t Type, text string) (Value, error) {
	switch t {
	case TypeString:
		return String(text), nil
	case TypeNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a number", ErrTypeMismatch, text)
		}
		return Number(n), nil
	case TypeIDs:
		if strings.TrimSpace(text) == "" {
			return IDs(), nil
		}
		parts := strings.Split(text, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return IDs(parts...), nil
	}
	return Value{}, fmt.Errorf("%w: unrecognized type %q", ErrTypeMismatch, t)
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
