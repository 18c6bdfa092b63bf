package model

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		wire string
		want Method
	}{
		{http.MethodGet, MethodGet},
		{http.MethodPost, MethodPost},
		{http.MethodOptions, MethodOptions},
		{http.MethodConnect, MethodConnect},
		{"PROPFIND", MethodOther},
		{"get", MethodOther},
	}

	for _, tt := range tests {
		t.Run(tt.wire, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMethod(tt.wire))
		})
	}
}

func TestMethod_WireString(t *testing.T) {
	assert.Equal(t, "PATCH", MethodPatch.WireString())
	assert.Equal(t, "HEAD", MethodHead.WireString())

	assert.Panics(t, func() { _ = MethodOther.WireString() })
	assert.Panics(t, func() { _ = Method("Bogus").WireString() })
}

func TestMethod_UnmarshalRejectsUnknown(t *testing.T) {
	var m Method
	require.NoError(t, json.Unmarshal([]byte(`"Delete"`), &m))
	assert.Equal(t, MethodDelete, m)

	assert.Error(t, json.Unmarshal([]byte(`"DELETE"`), &m))
}

func TestBody_EqualIsVariantAware(t *testing.T) {
	assert.True(t, Text("1").Equal(Text("1")))
	assert.False(t, Text("1").Equal(JSON(1)))
	assert.False(t, Text("abc").Equal(Bytes([]byte("abc"))))
	assert.True(t, Bytes([]byte{1, 2}).Equal(Bytes([]byte{1, 2})))

	// Values built in Go compare equal to the same document decoded from JSON.
	decoded, err := DecodeJSON([]byte(`{"id": 1, "tags": ["a", "b"], "ratio": 0.5}`))
	require.NoError(t, err)
	built := JSON(map[string]any{"id": 1, "tags": []string{"a", "b"}, "ratio": 0.5})
	assert.True(t, built.Equal(decoded))

	assert.True(t, JSON(1).Equal(mustDecode(t, `1.0`)))
	assert.False(t, JSON(1).Equal(JSON(2)))
}

func TestSniff(t *testing.T) {
	assert.Equal(t, KindJSON, Sniff([]byte(`{"ok":true}`)).Kind())
	assert.Equal(t, KindJSON, Sniff([]byte(`42`)).Kind())
	assert.Equal(t, KindText, Sniff([]byte(`<html>hi</html>`)).Kind())
	assert.Equal(t, KindText, Sniff(nil).Kind())

	png := []byte{0x89, 'P', 'N', 'G', 0xff, 0xfe}
	b := Sniff(png)
	assert.Equal(t, KindBytes, b.Kind())
	assert.Equal(t, png, b.Bytes())
}

func TestBody_Encode(t *testing.T) {
	ct, payload, err := JSON(map[string]any{"a": 1}).Encode()
	require.NoError(t, err)
	assert.Equal(t, ContentTypeJSON, ct)
	assert.JSONEq(t, `{"a":1}`, string(payload))

	ct, payload, err = Text("hello").Encode()
	require.NoError(t, err)
	assert.Equal(t, ContentTypeText, ct)
	assert.Equal(t, "hello", string(payload))

	_, _, err = JSON(make(chan int)).Encode()
	assert.Error(t, err)

	_, _, err = Body{}.Encode()
	assert.ErrorIs(t, err, ErrInvalidBody)
}

func TestReplayFileFormat(t *testing.T) {
	replays := []Replay{
		{
			When: NewRequest(MethodGet, "/todos/1"),
			Then: JSON(map[string]any{"id": 1}),
		},
		{
			When: NewRequest(MethodPost, "/upload").WithQueries("v=2").WithBody(Text("name")),
			Then: Bytes([]byte{0, 255}),
		},
	}

	data, err := json.Marshal(replays)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"when": {"path": "/todos/1", "queries": null, "method": "Get", "body": null},
		 "then": {"Json": {"id": 1}}},
		{"when": {"path": "/upload", "queries": "v=2", "method": "Post", "body": {"Text": "name"}},
		 "then": {"Bytes": [0, 255]}}
	]`, string(data))

	var loaded []Replay
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.Len(t, loaded, 2)
	for i := range replays {
		assert.True(t, replays[i].When.Equal(loaded[i].When), "entry %d when", i)
		assert.True(t, replays[i].Then.Equal(loaded[i].Then), "entry %d then", i)
	}
}

func TestBody_UnmarshalRejectsAmbiguousVariants(t *testing.T) {
	var b Body
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"Text":"a","Json":1}`), &b), ErrInvalidBody)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"Xml":"<a/>"}`), &b), ErrInvalidBody)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"Bytes":[256]}`), &b), ErrInvalidBody)
}

func TestRequest_CloneAndEqual(t *testing.T) {
	orig := NewRequest(MethodPut, "/a").WithQueries("x=1").WithBody(JSON(map[string]any{"k": "v"}))
	clone := orig.Clone()
	require.True(t, orig.Equal(clone))

	*clone.Queries = "x=2"
	assert.Equal(t, "x=1", *orig.Queries)
	assert.False(t, orig.Equal(clone))

	assert.False(t, NewRequest(MethodGet, "/a").Equal(NewRequest(MethodGet, "/a").WithQueries("")))
	assert.Equal(t, "Put /a?x=1", orig.String())
}

func TestRequest_CloneCopiesBody(t *testing.T) {
	orig := NewRequest(MethodPost, "/users").WithBody(JSON(map[string]any{
		"name": "ann",
		"tags": []any{"a", map[string]any{"k": "v"}},
	}))
	clone := orig.Clone()

	obj := clone.Body.Value().(map[string]any)
	obj["name"] = "bob"
	tags := obj["tags"].([]any)
	tags[0] = "z"
	tags[1].(map[string]any)["k"] = "changed"

	assert.Equal(t, "ann", orig.Body.Value().(map[string]any)["name"])
	origTags := orig.Body.Value().(map[string]any)["tags"].([]any)
	assert.Equal(t, "a", origTags[0])
	assert.Equal(t, "v", origTags[1].(map[string]any)["k"])

	raw := NewRequest(MethodPut, "/blob").WithBody(Bytes([]byte{1, 2, 3}))
	rawClone := raw.Clone()
	rawClone.Body.Bytes()[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, raw.Body.Bytes())
}

func mustDecode(t *testing.T, s string) Body {
	t.Helper()
	b, err := DecodeJSON([]byte(s))
	require.NoError(t, err)
	return b
}
