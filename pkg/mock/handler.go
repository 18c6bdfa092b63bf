// Package mock defines the handler contract used by the dispatch registry
// and the two closure-based handlers used for ad hoc stubs.
package mock

import (
	"context"

	"github.com/getmockd/mockgate/pkg/model"
)

// Handler attempts to answer a request.
//
// Attempt returns the response body and true when the handler answers, or
// false when the request is not its concern and the next handler should be
// tried. Declining is normal control flow, not an error. Attempt may block
// (waiting on an upstream or on a test-controlled signal) and must be safe
// for concurrent use.
type Handler interface {
	Attempt(ctx context.Context, req model.Request) (model.Body, bool)
}

// Kinder is implemented by handlers that report a short kind label
// ("closure", "gateway", ...) for logs and metrics.
type Kinder interface {
	Kind() string
}

// KindOf returns h's kind label, or "custom" when h does not report one.
func KindOf(h Handler) string {
	if k, ok := h.(Kinder); ok {
		return k.Kind()
	}
	return "custom"
}

// Func is the per-request function wrapped by closure handlers.
type Func func(ctx context.Context, req model.Request) (model.Body, bool)

// Attempt lets a bare Func be registered as a Handler.
func (f Func) Attempt(ctx context.Context, req model.Request) (model.Body, bool) {
	return f(ctx, req)
}
