package matching

import "github.com/getmockd/mockgate/pkg/model"

// MatchBody reports whether the actual body satisfies the pattern body.
// A nil pattern matches any actual body, including none.
func MatchBody(pattern, actual *model.Body) bool {
	if pattern == nil {
		return true
	}
	if actual == nil || pattern.Kind() != actual.Kind() {
		return false
	}
	if pattern.Kind() == model.KindJSON {
		return Includes(pattern.Value(), actual.Value())
	}
	return pattern.Equal(*actual)
}

// MatchRequest reports whether actual matches the recorded pattern:
// path, method and raw queries exactly, body by inclusion.
func MatchRequest(pattern, actual model.Request) bool {
	return pattern.Path == actual.Path &&
		pattern.Method == actual.Method &&
		equalQueries(pattern.Queries, actual.Queries) &&
		MatchBody(pattern.Body, actual.Body)
}

func equalQueries(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
