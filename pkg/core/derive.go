package core

import "strings"

// Compute is the signature of a derived property computation.
type Compute = func(s *Scope) (Value, error)

// YearsSince computes the reference year minus a numeric year field.
func YearsSince(field string) Compute {
	return func(s *Scope) (Value, error) {
		return Number(float64(s.Year()) - s.Number(field)), nil
	}
}

// PositiveGain computes a - b, or the sentinel when the difference is not strictly positive.
func PositiveGain(a, b string) Compute {
	return func(s *Scope) (Value, error) {
		return PositiveOrNA(s.Number(a) - s.Number(b)), nil
	}
}

// Join concatenates field values with sep. Numbers render as in Value.String.
func Join(sep string, fields ...string) Compute {
	return func(s *Scope) (Value, error) {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			v := s.Value(f)
			if v.IsAbsent() && s.err == nil {
				s.fail(&FieldError{Kind: s.Kind(), Field: f, Err: ErrFieldUnset, Detail: "read by " + s.name})
			}
			parts = append(parts, v.String())
		}
		return String(strings.Join(parts, sep)), nil
	}
}

// PositiveOrNA returns n when it is strictly positive and the sentinel otherwise.
func PositiveOrNA(n float64) Value {
	if n > 0 {
		return Number(n)
	}
	return NotApplicable()
}

// FloorZero returns n when it is strictly positive and zero otherwise.
func FloorZero(n float64) Value {
	if n > 0 {
		return Number(n)
	}
	return Number(0)
}

// Ratio divides num by den, returning the sentinel for a zero denominator
// or for a denominator that is itself not applicable.
func Ratio(num float64, den Value) Value {
	d, ok := den.Num()
	if !ok || d == 0 {
		return NotApplicable()
	}
	return Number(num / d)
}
