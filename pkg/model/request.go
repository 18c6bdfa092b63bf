package model

import "strings"

// Request is the canonical inbound request seen by handlers.
//
// Queries holds the raw, unparsed query string (without "?"); nil means the
// request had none. Body is nil when the request carried no body.
type Request struct {
	Path    string  `json:"path"`
	Queries *string `json:"queries"`
	Method  Method  `json:"method"`
	Body    *Body   `json:"body"`
}

// NewRequest returns a body-less request without a query string.
func NewRequest(method Method, path string) Request {
	return Request{Method: method, Path: path}
}

// WithQueries returns a copy of r carrying the raw query string q.
func (r Request) WithQueries(q string) Request {
	r.Queries = &q
	return r
}

// WithBody returns a copy of r carrying body.
func (r Request) WithBody(body Body) Request {
	r.Body = &body
	return r
}

// Clone returns a deep copy of r. Changes to the copy, including to its
// JSON body value or bytes, are not seen through r.
func (r Request) Clone() Request {
	out := r
	if r.Queries != nil {
		q := *r.Queries
		out.Queries = &q
	}
	if r.Body != nil {
		b := r.Body.Clone()
		out.Body = &b
	}
	return out
}

// Query returns the raw query string and whether one was present.
func (r Request) Query() (string, bool) {
	if r.Queries == nil {
		return "", false
	}
	return *r.Queries, true
}

// Equal reports exact equality of every field.
func (r Request) Equal(o Request) bool {
	if r.Path != o.Path || r.Method != o.Method {
		return false
	}
	if !equalQueries(r.Queries, o.Queries) {
		return false
	}
	if (r.Body == nil) != (o.Body == nil) {
		return false
	}
	return r.Body == nil || r.Body.Equal(*o.Body)
}

// String renders "Get /path?query" for logs.
func (r Request) String() string {
	var sb strings.Builder
	sb.WriteString(string(r.Method))
	sb.WriteByte(' ')
	sb.WriteString(r.Path)
	if r.Queries != nil {
		sb.WriteByte('?')
		sb.WriteString(*r.Queries)
	}
	return sb.String()
}

func equalQueries(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
