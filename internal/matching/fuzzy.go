package matching

import (
	"maps"
	"slices"

	"github.com/getmockd/mockgate/pkg/model"
	"github.com/ohler55/ojg/jp"
)

// Includes reports whether pattern is a deep subset of actual.
func Includes(pattern, actual any) bool {
	_, ok := FirstDifference(pattern, actual)
	return ok
}

// FirstDifference walks pattern against actual and returns the JSONPath of
// the first location (keys visited in sorted order) where actual fails to
// include pattern. The bool is true
// when actual includes pattern, in which case the path is nil.
func FirstDifference(pattern, actual any) (jp.Expr, bool) {
	return diff(jp.R(), pattern, actual)
}

func diff(at jp.Expr, pattern, actual any) (jp.Expr, bool) {
	obj, ok := pattern.(map[string]any)
	if !ok {
		if model.EqualValues(pattern, actual) {
			return nil, true
		}
		return at, false
	}

	actualObj, ok := actual.(map[string]any)
	if !ok {
		return at, false
	}
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		want := obj[key]
		got, present := actualObj[key]
		if !present {
			return at.C(key), false
		}
		if where, ok := diff(at.C(key), want, got); !ok {
			return where, false
		}
	}
	return nil, true
}
