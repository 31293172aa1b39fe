package fields

import (
	"fmt"
	"reflect"
	"strconv"
)

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// ToInt reads a number that may have been through JSON.
func ToInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Equal compares field values. Numbers compare by value whatever their Go
// type, so a stored 3600.0 equals a parsed 3600.
func Equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	if am, ok := a.(map[string]any); ok {
		bm, ok := b.(map[string]any)
		if !ok || len(am) != len(bm) {
			return false
		}
		for k, v := range am {
			if !Equal(v, bm[k]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// OptionLabel returns the label of the option holding v.
func (d Definition) OptionLabel(v any) (string, bool) {
	for _, opt := range d.Options {
		if Equal(opt.Value, v) {
			return opt.Label, true
		}
	}
	return "", false
}

// OptionIndex returns the position of the option holding v, or -1.
func (d Definition) OptionIndex(v any) int {
	for i, opt := range d.Options {
		if Equal(opt.Value, v) {
			return i
		}
	}
	return -1
}

// Format renders a value for the operator.
func (d Definition) Format(v any) string {
	if v == nil {
		return "not set"
	}
	if d.Kind == KindSelect {
		if label, ok := d.OptionLabel(v); ok {
			return label
		}
	}
	switch val := v.(type) {
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case string:
		if val == "" {
			return "empty"
		}
		return val
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
