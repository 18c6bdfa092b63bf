package matching

import (
	"fmt"
	"strings"

	"github.com/getmockd/mockgate/pkg/model"
)

// Weights used to rank near misses. A pattern that agrees on path and
// method is a closer miss than one that only agrees on the body.
const (
	ScorePath   = 8
	ScoreMethod = 4
	ScoreQuery  = 2
	ScoreBody   = 1
)

// FieldResult describes whether one field of a pattern matched.
type FieldResult struct {
	Field    string `json:"field"`
	Matched  bool   `json:"matched"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

// NearMiss is the per-field breakdown of a pattern against a request.
type NearMiss struct {
	Score  int           `json:"score"`
	Fields []FieldResult `json:"fields"`
	Reason string        `json:"reason"`
}

// Matched reports whether every field matched.
func (n *NearMiss) Matched() bool {
	for _, f := range n.Fields {
		if !f.Matched {
			return false
		}
	}
	return true
}

// Explain evaluates every field of pattern against actual without
// short-circuiting.
func Explain(pattern, actual model.Request) *NearMiss {
	result := &NearMiss{}

	add := func(field string, matched bool, score int, expected, got string) {
		result.Fields = append(result.Fields, FieldResult{
			Field:    field,
			Matched:  matched,
			Expected: expected,
			Actual:   got,
		})
		if matched {
			result.Score += score
		}
	}

	add("path", pattern.Path == actual.Path, ScorePath, pattern.Path, actual.Path)
	add("method", pattern.Method == actual.Method, ScoreMethod, string(pattern.Method), string(actual.Method))
	add("queries", equalQueries(pattern.Queries, actual.Queries), ScoreQuery, queryString(pattern.Queries), queryString(actual.Queries))

	bodyOK := MatchBody(pattern.Body, actual.Body)
	add("body", bodyOK, ScoreBody, bodyString(pattern.Body), bodyMismatch(pattern.Body, actual.Body, bodyOK))

	result.Reason = reason(result.Fields)
	return result
}

// Closest returns the index of the pattern that scores highest against
// actual, or -1 when patterns is empty. Ties go to the earliest pattern.
func Closest(patterns []model.Request, actual model.Request) (int, *NearMiss) {
	best, bestMiss := -1, (*NearMiss)(nil)
	for i, p := range patterns {
		miss := Explain(p, actual)
		if bestMiss == nil || miss.Score > bestMiss.Score {
			best, bestMiss = i, miss
		}
	}
	return best, bestMiss
}

func bodyMismatch(pattern, actual *model.Body, matched bool) string {
	if matched || pattern == nil {
		return bodyString(actual)
	}
	if actual != nil && pattern.Kind() == model.KindJSON && actual.Kind() == model.KindJSON {
		if where, ok := FirstDifference(pattern.Value(), actual.Value()); !ok {
			return "differs at " + where.String()
		}
	}
	return bodyString(actual)
}

func reason(fields []FieldResult) string {
	var missed []string
	for _, f := range fields {
		if !f.Matched {
			missed = append(missed, fmt.Sprintf("%s (expected %q, got %q)", f.Field, f.Expected, f.Actual))
		}
	}
	if len(missed) == 0 {
		return "matched"
	}
	return "mismatch on " + strings.Join(missed, ", ")
}

func queryString(q *string) string {
	if q == nil {
		return "<none>"
	}
	return *q
}

func bodyString(b *model.Body) string {
	if b == nil {
		return "<none>"
	}
	return b.String()
}
