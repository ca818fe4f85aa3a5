package filter

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// UnsupportedOperatorError indicates an unknown $-operator in a filter.
type UnsupportedOperatorError struct {
	Operator string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported filter operator: %q", e.Operator)
}

// NotNumericError indicates an operand of a numeric operator that cannot be
// coerced to a number.
type NotNumericError struct {
	Value any
}

func (e *NotNumericError) Error() string {
	return fmt.Sprintf("operand is not numeric: %v (%T)", e.Value, e.Value)
}

// Matches reports whether value satisfies every field of filt. A nil or
// empty filter matches everything. Fields absent from value compare as nil.
func Matches(value map[string]any, filt map[string]any) (bool, error) {
	for key, fv := range filt {
		ok, err := compareValues(value[key], fv)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// compareValues applies one filter value against one stored sub-value,
// matching PostgreSQL's JSONB containment behavior.
func compareValues(value any, filterValue any) (bool, error) {
	switch fv := filterValue.(type) {
	case map[string]any:
		if hasOperator(fv) {
			for op, ov := range fv {
				ok, err := applyOperator(value, op, ov)
				if err != nil {
					return false, err
				}
				if !ok {
					return false, nil
				}
			}
			return true, nil
		}

		m, ok := value.(map[string]any)
		if !ok {
			return false, nil
		}
		for k, sub := range fv {
			ok, err := compareValues(m[k], sub)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case []any:
		seq, ok := value.([]any)
		if !ok || len(seq) != len(fv) {
			return false, nil
		}
		for i := range fv {
			ok, err := compareValues(seq[i], fv[i])
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	default:
		return equal(value, filterValue), nil
	}
}

func hasOperator(m map[string]any) bool {
	for k := range m {
		if strings.HasPrefix(k, "$") {
			return true
		}
	}
	return false
}

func applyOperator(value any, operator string, operand any) (bool, error) {
	switch operator {
	case "$eq":
		return equal(value, operand), nil
	case "$ne":
		return !equal(value, operand), nil
	case "$gt", "$gte", "$lt", "$lte":
		a, err := toFloat(value)
		if err != nil {
			return false, err
		}
		b, err := toFloat(operand)
		if err != nil {
			return false, err
		}
		switch operator {
		case "$gt":
			return a > b, nil
		case "$gte":
			return a >= b, nil
		case "$lt":
			return a < b, nil
		default:
			return a <= b, nil
		}
	default:
		return false, &UnsupportedOperatorError{Operator: operator}
	}
}

// equal compares without type coercion beyond numeric width: 1 and 1.0 are
// equal, "1" and 1 are not.
func equal(a, b any) bool {
	fa, aok := asNumber(a)
	fb, bok := asNumber(b)
	if aok && bok {
		return fa == fb
	}
	if aok != bok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
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
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// toFloat coerces operands of numeric operators: native numbers, booleans
// and numeric strings are accepted.
func toFloat(v any) (float64, error) {
	if f, ok := asNumber(v); ok {
		return f, nil
	}
	switch n := v.(type) {
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, &NotNumericError{Value: v}
		}
		return f, nil
	default:
		return 0, &NotNumericError{Value: v}
	}
}
