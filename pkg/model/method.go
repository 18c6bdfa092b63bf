package model

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Method is the closed set of request methods understood by handlers.
type Method string

const (
	MethodGet     Method = "Get"
	MethodPut     Method = "Put"
	MethodPost    Method = "Post"
	MethodDelete  Method = "Delete"
	MethodPatch   Method = "Patch"
	MethodHead    Method = "Head"
	MethodOptions Method = "Options"
	MethodTrace   Method = "Trace"
	MethodConnect Method = "Connect"
	// MethodOther stands in for any wire method not listed above.
	// It has no wire representation.
	MethodOther Method = "Other"
)

var wireMethods = map[Method]string{
	MethodGet:     http.MethodGet,
	MethodPut:     http.MethodPut,
	MethodPost:    http.MethodPost,
	MethodDelete:  http.MethodDelete,
	MethodPatch:   http.MethodPatch,
	MethodHead:    http.MethodHead,
	MethodOptions: http.MethodOptions,
	MethodTrace:   http.MethodTrace,
	MethodConnect: http.MethodConnect,
}

// ParseMethod maps a wire method (e.g. "GET") to a Method.
// Unrecognized methods map to MethodOther. Matching is case-sensitive,
// as HTTP methods are.
func ParseMethod(wire string) Method {
	for m, w := range wireMethods {
		if w == wire {
			return m
		}
	}
	return MethodOther
}

// WireString returns the HTTP method token for m.
// It panics for MethodOther or an invalid value: asking for the wire form of
// a method that has none is a programming error.
func (m Method) WireString() string {
	w, ok := wireMethods[m]
	if !ok {
		panic(fmt.Sprintf("model: method %q has no wire representation", string(m)))
	}
	return w
}

// IsValid reports whether m is one of the declared methods.
func (m Method) IsValid() bool {
	if m == MethodOther {
		return true
	}
	_, ok := wireMethods[m]
	return ok
}

// UnmarshalJSON rejects method names outside the closed set.
func (m *Method) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("method must be a string: %w", err)
	}
	parsed := Method(s)
	if !parsed.IsValid() {
		return fmt.Errorf("unknown method %q", s)
	}
	*m = parsed
	return nil
}
