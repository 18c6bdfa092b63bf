package matching

import (
	"testing"

	"github.com/getmockd/mockgate/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchBody_Inclusion(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		actual  string
		want    bool
	}{
		{"subset matches", `{"a":1}`, `{"a":1,"b":2}`, true},
		{"superset does not match", `{"a":1,"b":2}`, `{"a":1}`, false},
		{"different value", `{"a":1}`, `{"a":2}`, false},
		{"nested subset", `{"user":{"id":7}}`, `{"user":{"id":7,"name":"x"},"ts":123}`, true},
		{"nested mismatch", `{"user":{"id":7}}`, `{"user":{"id":8}}`, false},
		{"nested object vs scalar", `{"user":{"id":7}}`, `{"user":7}`, false},
		{"numbers compare by value", `{"n":1}`, `{"n":1.0}`, true},
		{"null leaf", `{"deleted":null}`, `{"deleted":null,"x":1}`, true},
		{"null vs missing", `{"deleted":null}`, `{}`, false},
		{"empty pattern object", `{}`, `{"a":1}`, true},
		{"scalar root", `"hi"`, `"hi"`, true},
		{"scalar root mismatch", `"hi"`, `"ho"`, false},

		// Arrays are compared exactly, including arrays of objects.
		{"equal arrays", `{"ids":[1,2]}`, `{"ids":[1,2]}`, true},
		{"array prefix", `{"ids":[1]}`, `{"ids":[1,2]}`, false},
		{"array order", `{"ids":[2,1]}`, `{"ids":[1,2]}`, false},
		{"array of objects is not inclusive", `[{"a":1}]`, `[{"a":1,"b":2}]`, false},
		{"array of objects equal", `[{"a":1}]`, `[{"a":1}]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern := decode(t, tt.pattern)
			actual := decode(t, tt.actual)
			assert.Equal(t, tt.want, MatchBody(&pattern, &actual))
		})
	}
}

func TestMatchBody_Variants(t *testing.T) {
	text := model.Text("hello")
	bytes := model.Bytes([]byte("hello"))
	jsonBody := model.JSON("hello")

	t.Run("absent pattern matches anything", func(t *testing.T) {
		assert.True(t, MatchBody(nil, nil))
		assert.True(t, MatchBody(nil, &text))
		assert.True(t, MatchBody(nil, &jsonBody))
	})

	t.Run("present pattern needs a body", func(t *testing.T) {
		assert.False(t, MatchBody(&text, nil))
	})

	t.Run("text and bytes are exact", func(t *testing.T) {
		other := model.Text("hello!")
		assert.True(t, MatchBody(&text, &text))
		assert.False(t, MatchBody(&text, &other))
		assert.True(t, MatchBody(&bytes, &bytes))
	})

	t.Run("mixed variants never match", func(t *testing.T) {
		assert.False(t, MatchBody(&text, &bytes))
		assert.False(t, MatchBody(&jsonBody, &text))
		assert.False(t, MatchBody(&bytes, &jsonBody))
	})
}

func TestMatchRequest(t *testing.T) {
	pattern := model.NewRequest(model.MethodPost, "/orders").
		WithQueries("a=1&b=2").
		WithBody(model.JSON(map[string]any{"sku": "X1"}))

	live := pattern.WithBody(model.JSON(map[string]any{"sku": "X1", "traceId": "abc"}))
	assert.True(t, MatchRequest(pattern, live))

	assert.False(t, MatchRequest(pattern, live.WithQueries("b=2&a=1")), "queries are raw strings")
	assert.False(t, MatchRequest(pattern, model.Request{Path: "/orders", Method: model.MethodPost, Body: live.Body}), "missing queries")

	wrongMethod := live
	wrongMethod.Method = model.MethodPut
	assert.False(t, MatchRequest(pattern, wrongMethod))

	wrongPath := live
	wrongPath.Path = "/orders/"
	assert.False(t, MatchRequest(pattern, wrongPath))
}

func TestFirstDifference(t *testing.T) {
	where, ok := FirstDifference(
		decode(t, `{"user":{"id":7,"name":"a"}}`).Value(),
		decode(t, `{"user":{"id":7,"name":"b"}}`).Value(),
	)
	require.False(t, ok)
	assert.Equal(t, "$.user.name", where.String())

	where, ok = FirstDifference(decode(t, `{"a":1}`).Value(), decode(t, `{"a":1,"z":0}`).Value())
	assert.True(t, ok)
	assert.Nil(t, where)
}

func TestExplain(t *testing.T) {
	pattern := model.NewRequest(model.MethodGet, "/todos/1").WithBody(model.JSON(map[string]any{"a": 1}))
	actual := model.NewRequest(model.MethodGet, "/todos/1").WithBody(model.JSON(map[string]any{"a": 2}))

	miss := Explain(pattern, actual)
	assert.False(t, miss.Matched())
	assert.Equal(t, ScorePath+ScoreMethod+ScoreQuery, miss.Score)
	assert.Contains(t, miss.Reason, "body")
	assert.Contains(t, miss.Reason, "$.a")

	hit := Explain(pattern, pattern)
	assert.True(t, hit.Matched())
	assert.Equal(t, "matched", hit.Reason)
}

func TestClosest(t *testing.T) {
	patterns := []model.Request{
		model.NewRequest(model.MethodPost, "/other"),
		model.NewRequest(model.MethodPost, "/todos"),
		model.NewRequest(model.MethodGet, "/todos"),
	}

	idx, miss := Closest(patterns, model.NewRequest(model.MethodGet, "/todos").WithQueries("x"))
	assert.Equal(t, 2, idx)
	assert.False(t, miss.Matched())

	idx, miss = Closest(nil, model.NewRequest(model.MethodGet, "/"))
	assert.Equal(t, -1, idx)
	assert.Nil(t, miss)
}

func decode(t *testing.T, s string) model.Body {
	t.Helper()
	b, err := model.DecodeJSON([]byte(s))
	require.NoError(t, err)
	return b
}
