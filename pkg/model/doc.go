// Package model defines the canonical request/response types that flow
// between the HTTP shell, the dispatch registry and every handler.
//
// A Request is a simplified, transport-independent view of an inbound HTTP
// request: method, path, raw query string and an optional typed Body. A Body
// is exactly one of Text, Bytes or JSON. A Replay ties a Request pattern to
// the Body that should be returned when a live request matches it.
//
// The JSON encoding of these types is the persisted replay file format:
//
//	[
//	  {
//	    "when": {"path": "/todos/1", "queries": null, "method": "Get", "body": null},
//	    "then": {"Json": {"id": 1}}
//	  }
//	]
//
// Bodies are externally tagged ({"Text": "..."}, {"Bytes": [1, 2]},
// {"Json": ...}) and methods use their capitalized names ("Get", "Post").
package model
