package model

import (
	"encoding/json"
	"reflect"
	"strconv"
)

// EqualValues reports deep equality of two decoded JSON values. Numbers
// compare by value, so 1 and 1.0 are equal.
func EqualValues(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, x := range av {
			y, ok := bv[k]
			if !ok || !EqualValues(x, y) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !EqualValues(av[i], bv[i]) {
				return false
			}
		}
		return true
	case json.Number:
		bv, ok := b.(json.Number)
		return ok && numbersEqual(av, bv)
	default:
		return reflect.DeepEqual(a, b)
	}
}

// cloneValue deep-copies the maps and slices of a decoded JSON value.
// Scalars are immutable and returned as they are.
func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, x := range tv {
			out[k] = cloneValue(x)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, x := range tv {
			out[i] = cloneValue(x)
		}
		return out
	default:
		return v
	}
}

func numbersEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	if ai, err := strconv.ParseInt(string(a), 10, 64); err == nil {
		if bi, err := strconv.ParseInt(string(b), 10, 64); err == nil {
			return ai == bi
		}
	}
	af, aerr := strconv.ParseFloat(string(a), 64)
	bf, berr := strconv.ParseFloat(string(b), 64)
	return aerr == nil && berr == nil && af == bf
}
