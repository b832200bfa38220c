package dataset

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// DefaultValidators returns a fresh copy of the type-keyed validators.
func DefaultValidators() map[string]ValidateFunc {
	return map[string]ValidateFunc{
		TypeNumber: validateNumber,
	}
}

// DefaultConverters returns a fresh copy of the type-keyed converters.
func DefaultConverters() map[string]ConvertFunc {
	return map[string]ConvertFunc{
		TypeNumber:  convertNumber,
		TypeBoolean: convertBoolean,
		TypeString:  convertString,
	}
}

// DefaultComparators returns a fresh copy of the type-keyed comparators.
func DefaultComparators() map[string]CompareFunc {
	return map[string]CompareFunc{
		TypeNumber:  compareNumbers,
		TypeString:  compareStrings,
		TypeBoolean: compareBools,
	}
}

func validateNumber(f *Field, v any) error {
	n, ok := toFloat(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return &ValidationError{Field: f.Name, Message: "invalid number"}
	}
	return nil
}

// convertNumber maps empty input to nil and unparsable input to NaN so
// that the validator, not the converter, rejects it.
func convertNumber(_ *Field, v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	case bool:
		if x {
			return 1.0
		}
		return 0.0
	}
	if n, ok := toFloat(v); ok {
		return n
	}
	return math.NaN()
}

func convertBoolean(_ *Field, v any) any {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "0", "false", "no", "off", "n", "f":
			return false
		}
		return true
	}
	if n, ok := toFloat(v); ok {
		return n != 0 && !math.IsNaN(n)
	}
	return true
}

func convertString(_ *Field, v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func compareNumbers(a, b any) int {
	if r, done := compareNil(a, b); done {
		return r
	}
	x, xok := toFloat(a)
	y, yok := toFloat(b)
	if !xok || !yok {
		return compareGeneric(a, b)
	}
	return compareFloats(x, y)
}

func compareStrings(a, b any) int {
	if r, done := compareNil(a, b); done {
		return r
	}
	x, xok := a.(string)
	y, yok := b.(string)
	if !xok || !yok {
		return compareGeneric(a, b)
	}
	return strings.Compare(x, y)
}

func compareBools(a, b any) int {
	if r, done := compareNil(a, b); done {
		return r
	}
	x, xok := a.(bool)
	y, yok := b.(bool)
	if !xok || !yok {
		return compareGeneric(a, b)
	}
	switch {
	case x == y:
		return 0
	case !x:
		return -1
	}
	return 1
}

// compareGeneric is a total order over arbitrary values: nil first,
// then NaN, then booleans, numbers, strings and anything else.
func compareGeneric(a, b any) int {
	ra, rb := kindRank(a), kindRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case rankNil, rankNaN:
		return 0
	case rankBool:
		return compareBools(a, b)
	case rankNumber:
		x, _ := toFloat(a)
		y, _ := toFloat(b)
		return compareFloats(x, y)
	case rankString:
		return strings.Compare(a.(string), b.(string))
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

const (
	rankNil = iota
	rankNaN
	rankBool
	rankNumber
	rankString
	rankOther
)

func kindRank(v any) int {
	switch x := v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	case string:
		return rankString
	default:
		if n, ok := toFloat(x); ok {
			if math.IsNaN(n) {
				return rankNaN
			}
			return rankNumber
		}
	}
	return rankOther
}

func compareNil(a, b any) (int, bool) {
	switch {
	case a == nil && b == nil:
		return 0, true
	case a == nil:
		return -1, true
	case b == nil:
		return 1, true
	}
	return 0, false
}

func compareFloats(x, y float64) int {
	xnan, ynan := math.IsNaN(x), math.IsNaN(y)
	switch {
	case xnan && ynan:
		return 0
	case xnan:
		return -1
	case ynan:
		return 1
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// SameValue reports whether two stored values are equal for the purpose
// of change detection. Numbers compare by value regardless of Go type.
func SameValue(a, b any) bool {
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return x == y
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

// Format renders a stored value as cell text. Nil renders empty.
func Format(v any) string {
	if v == nil {
		return ""
	}
	return convertString(nil, v).(string)
}
